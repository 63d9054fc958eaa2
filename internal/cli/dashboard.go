package cli

import (
	"context"
	"fmt"
)

func runDashboard(ctx context.Context, s *Shell, _ []string) error {
	h := s.app.Hooks
	var errs []error

	stats, err := settled(h.DashboardStats(ctx).Snapshot())
	if err != nil {
		errs = append(errs, err)
		fmt.Fprintf(s.out, "Stats unavailable: %v\n", err)
	} else {
		w := s.table()
		fmt.Fprintf(w, "Total players\t%d\t%s\n", stats.TotalPlayers, Trend(stats.TotalChange))
		fmt.Fprintf(w, "New this month\t%d\t%s\n", stats.NewThisMonth, Trend(stats.NewChange))
		fmt.Fprintf(w, "Admitted\t%d\t\n", stats.Admitted)
		fmt.Fprintf(w, "Pending\t%d\t\n", stats.Pending)
		_ = w.Flush()
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Recent registrations")
	recent, err := settled(h.RecentPlayers(ctx).Snapshot())
	switch {
	case err != nil:
		errs = append(errs, err)
		fmt.Fprintf(s.out, "  unavailable: %v\n", err)
	case len(recent) == 0:
		fmt.Fprintln(s.out, "  No players yet")
	default:
		w := s.table()
		for _, p := range recent {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", Initials(p.DisplayName()), p.DisplayName(), orDash(p.SoccerPosition), p.AdmissionStatus.Label())
		}
		_ = w.Flush()
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Positions")
	positions, err := settled(h.PositionBreakdown(ctx).Snapshot())
	if err != nil {
		errs = append(errs, err)
		fmt.Fprintf(s.out, "  unavailable: %v\n", err)
	} else {
		w := s.table()
		for _, pc := range positions {
			fmt.Fprintf(w, "  %s\t%d\n", pc.Label, pc.Count)
		}
		_ = w.Flush()
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
