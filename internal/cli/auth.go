package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/okian/befa-admin/internal/domain/model"
	"github.com/okian/befa-admin/internal/session"
)

func runLogin(ctx context.Context, s *Shell, args []string) error {
	fs := s.flags("login")
	email := fs.String("email", "", "administrator email")
	password := fs.String("password", "", "password; read from input when omitted")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	creds := model.Credentials{Email: strings.TrimSpace(*email), Password: *password}
	if creds.Email != "" && creds.Password == "" {
		line, err := bufio.NewReader(s.in).ReadString('\n')
		if err == nil || line != "" {
			creds.Password = strings.TrimRight(line, "\r\n")
		}
	}
	if err := creds.Validate(); err != nil {
		return err
	}

	res, err := s.app.Auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	s.nav.Go(ViewDashboard)
	fmt.Fprintf(s.out, "Signed in as %s.\n", res.User.DisplayName())
	return nil
}

func runLogout(ctx context.Context, s *Shell, _ []string) error {
	if err := s.app.Auth.Logout(ctx); err != nil {
		return err
	}
	s.nav.Go(ViewLogin)
	fmt.Fprintln(s.out, "Signed out.")
	return nil
}

func runWhoami(ctx context.Context, s *Shell, args []string) error {
	fs := s.flags("whoami")
	refresh := fs.Bool("refresh", false, "reload the profile from the backend")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var (
		user model.User
		ok   bool
	)
	if *refresh {
		u, err := s.app.Auth.Me(ctx)
		if err != nil {
			return err
		}
		user, ok = u, true
	} else {
		user, ok = s.app.Auth.User(ctx)
	}

	w := s.table()
	if ok {
		fmt.Fprintf(w, "Name\t%s\n", user.DisplayName())
		fmt.Fprintf(w, "Email\t%s\n", orDash(user.Email))
	} else {
		fmt.Fprintf(w, "Name\t%s\n", dash)
	}

	sess, err := s.app.Auth.Session(ctx)
	if err == nil {
		if c, err := session.ParseClaims(sess.AccessToken); err == nil && !c.ExpiresAt.IsZero() {
			validity := "valid"
			if c.Expired(s.now()) {
				validity = "expired"
			}
			fmt.Fprintf(w, "Token expires\t%s (%s)\n", c.ExpiresAt.Local().Format("Jan 2, 2006 15:04"), validity)
		}
	}
	return w.Flush()
}

func runRefresh(ctx context.Context, s *Shell, _ []string) error {
	if _, err := s.app.Auth.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Access token refreshed.")
	return nil
}
