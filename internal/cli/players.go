package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/okian/befa-admin/internal/adapters/http/transport"
	"github.com/okian/befa-admin/internal/app/forms"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/domain/model"
)

func runPlayers(ctx context.Context, s *Shell, args []string) error {
	return subcommand(ctx, s, "players", args, map[string]Handler{
		"list":     playersList,
		"show":     playersShow,
		"register": playersRegister,
		"edit":     playersEdit,
		"status":   playersStatus,
		"delete":   playersDelete,
		"photo":    playersPhoto,
		"pdf":      playersPDF,
		"extract":  playersExtract,
	})
}

func playersList(ctx context.Context, s *Shell, args []string) error {
	fs := s.flags("players list")
	var f model.PlayerFilters
	fs.StringVar(&f.Search, "search", "", "match name, parent or phone")
	fs.StringVar(&f.Position, "position", "", "Striker, Midfielder, Defender or Goalkeeper")
	status := fs.String("status", "", "pending, admitted or not_admitted")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *status != "" {
		st, err := model.ParseAdmissionStatus(*status)
		if err != nil {
			return err
		}
		f.Status = st
	}

	players, err := settled(s.app.Hooks.Players(ctx, f).Snapshot())
	if err != nil {
		return err
	}
	if len(players) == 0 {
		fmt.Fprintln(s.out, "No players found")
		return nil
	}
	w := s.table()
	fmt.Fprintln(w, "ID\tNAME\tAGE\tPOSITION\tSTATUS\tREGISTERED")
	now := s.now()
	for _, p := range players {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.DisplayName(), Age(p.DateOfBirth, now), orDash(p.SoccerPosition), p.AdmissionStatus.Label(), FormatDate(p.CreatedAt))
	}
	return w.Flush()
}

func playersShow(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	p, err := settled(s.app.Hooks.Player(ctx, id).Snapshot())
	if err != nil {
		return err
	}

	w := s.table()
	fmt.Fprintf(w, "[%s]\t%s\n", Initials(p.DisplayName()), p.DisplayName())
	rows := [][2]string{
		{"Status", p.AdmissionStatus.Label()},
		{"Position", p.SoccerPosition},
		{"Age", Age(p.DateOfBirth, s.now())},
		{"Date of birth", FormatDate(p.DateOfBirth)},
		{"Gender", p.Gender},
		{"Telephone", p.Telephone},
		{"Address", p.ContactAddress},
		{"State / LGA", p.StateOfOrigin + " / " + p.LGA},
		{"Nationality", p.Nationality},
		{"Weight / Height", p.Weight.String() + " / " + p.Height.String()},
		{"Previous team", p.PreviousTeam},
		{"Weaknesses", fmt.Sprint([]string(p.Weaknesses))},
		{"Parent / guardian", p.ParentGuardianName},
		{"Parent telephone", p.ParentTelephone},
		{"Relationship", p.RelationshipToStudent},
		{"Blood group / genotype", p.BloodGroup + " / " + p.Genotype},
		{"Medical problem", yesNo(p.AnyMedicalProblem) + " " + p.MedicalProblemDetails},
		{"On medication", yesNo(p.CurrentlyOnMedication)},
		{"Photo", p.PlayerImage},
		{"Notes", p.Notes},
		{"Registered", FormatDate(p.CreatedAt)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r[0], orDash(r[1]))
	}
	return w.Flush()
}

type playerFlags struct {
	sets       assignments
	weaknesses list
	photo      string
}

func (s *Shell) playerFlagSet(name string, pf *playerFlags) *flag.FlagSet {
	fs := s.flags(name)
	fs.Var(&pf.sets, "set", "field=value, repeatable (e.g. -set surname=Okafor)")
	fs.Var(&pf.weaknesses, "weakness", "toggle a weakness tag, repeatable")
	fs.StringVar(&pf.photo, "photo", "", "path to a player photo")
	return fs
}

func (s *Shell) fillPlayer(ctx context.Context, f *forms.PlayerForm, pf playerFlags, upload forms.UploadFunc) error {
	if err := applyAssignments(f, pf.sets); err != nil {
		return err
	}
	for _, tag := range pf.weaknesses {
		f.ToggleWeakness(tag)
	}
	if pf.photo == "" {
		return nil
	}
	img, err := transport.ReadFile(pf.photo)
	if err != nil {
		return err
	}
	if _, err := f.AttachPhoto(ctx, upload, img); err != nil {
		if !errors.Is(err, forms.ErrStoredLocally) {
			return err
		}
		s.warn("%v", forms.ErrStoredLocally)
	}
	return nil
}

func (s *Shell) attachPlayerPhoto() forms.AttachFunc {
	m := s.app.Hooks.UploadPlayerPhoto()
	return func(ctx context.Context, id int64, f transport.File) (model.Asset, error) {
		return m.Execute(ctx, hooks.Attachment{ID: id, File: f})
	}
}

func (s *Shell) reportSaved(verb string, p model.Player, err error) error {
	if err != nil && !errors.Is(err, forms.ErrPhotoNotSaved) {
		return err
	}
	fmt.Fprintf(s.out, "%s player #%d %s\n", verb, p.ID, p.DisplayName())
	if err != nil {
		s.warn("%v", err)
	}
	return nil
}

func playersRegister(ctx context.Context, s *Shell, args []string) error {
	var pf playerFlags
	fs := s.playerFlagSet("players register", &pf)
	pdf := fs.String("pdf", "", "fill the form from a scanned registration PDF first")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	h := s.app.Hooks
	f := forms.NewPlayerForm()
	if *pdf != "" {
		file, err := transport.ReadFile(*pdf)
		if err != nil {
			return err
		}
		ex, err := f.Extract(ctx, h.ExtractFromPDF().Execute, file)
		if err != nil {
			s.warn("extraction failed: %v", err)
		} else {
			fmt.Fprintf(s.out, "Extracted %d fields from %s\n", len(ex), file.Name)
		}
	}
	if err := s.fillPlayer(ctx, f, pf, h.UploadImage().Execute); err != nil {
		return err
	}

	saved, err := f.Submit(ctx, h.CreatePlayer().Execute, s.attachPlayerPhoto())
	return s.reportSaved("Registered", saved, err)
}

func playersEdit(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	var pf playerFlags
	fs := s.playerFlagSet("players edit", &pf)
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	h := s.app.Hooks
	current, err := settled(h.Player(ctx, id).Snapshot())
	if err != nil {
		return err
	}
	f := forms.EditPlayerForm(current)
	attach := s.attachPlayerPhoto()
	upload := func(ctx context.Context, file transport.File) (model.Asset, error) {
		return attach(ctx, id, file)
	}
	if err := s.fillPlayer(ctx, f, pf, upload); err != nil {
		return err
	}

	update := h.UpdatePlayer()
	save := func(ctx context.Context, p model.Player) (model.Player, error) {
		return update.Execute(ctx, hooks.Edit[model.Player]{ID: id, Value: p})
	}
	saved, err := f.Submit(ctx, save, attach)
	return s.reportSaved("Updated", saved, err)
}

func playersStatus(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: players status ID pending|admitted|not_admitted", ErrUsage)
	}
	st, err := model.ParseAdmissionStatus(args[1])
	if err != nil {
		return err
	}
	p, err := s.app.Hooks.UpdatePlayerStatus().Execute(ctx, hooks.Edit[model.AdmissionStatus]{ID: id, Value: st})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s is now %s\n", p.DisplayName(), p.AdmissionStatus.Label())
	return nil
}

func playersDelete(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	if _, err := s.app.Hooks.DeletePlayer().Execute(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted player #%d\n", id)
	return nil
}

func playersPhoto(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: players photo ID PATH", ErrUsage)
	}
	img, err := transport.ReadFile(args[1])
	if err != nil {
		return err
	}
	asset, err := s.attachPlayerPhoto()(ctx, id, img)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Photo uploaded: %s\n", asset.Location())
	return nil
}

func playersPDF(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "player")
	if err != nil {
		return err
	}
	fs := s.flags("players pdf")
	out := fs.String("o", "", "output path (default player-ID.pdf)")
	link := fs.Bool("url", false, "print the download link instead")
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}

	svc := s.app.Services.Players
	if *link {
		fmt.Fprintln(s.out, svc.DownloadPDFURL(id))
		return nil
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("player-%d.pdf", id)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := svc.DownloadPDF(ctx, id, file); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Saved %s\n", path)
	return nil
}

func playersExtract(ctx context.Context, s *Shell, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: players extract PATH", ErrUsage)
	}
	file, err := transport.ReadFile(args[0])
	if err != nil {
		return err
	}
	ex, err := s.app.Hooks.ExtractFromPDF().Execute(ctx, file)
	if err != nil {
		return err
	}
	w := s.table()
	for _, k := range ex.Keys() {
		fmt.Fprintf(w, "%s\t%s\n", k, string(ex[k]))
	}
	return w.Flush()
}
