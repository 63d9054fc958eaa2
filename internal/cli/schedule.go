package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/okian/befa-admin/internal/app/forms"
	"github.com/okian/befa-admin/internal/app/hooks"
	"github.com/okian/befa-admin/internal/domain/model"
)

func runSchedule(ctx context.Context, s *Shell, args []string) error {
	return subcommand(ctx, s, "schedule", args, map[string]Handler{
		"list":   scheduleList,
		"add":    scheduleAdd,
		"edit":   scheduleEdit,
		"delete": scheduleDelete,
	})
}

func scheduleList(ctx context.Context, s *Shell, _ []string) error {
	events, err := settled(s.app.Hooks.Events(ctx).Snapshot())
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(s.out, "Nothing scheduled")
		return nil
	}
	w := s.table()
	fmt.Fprintln(w, "ID\tDATE\tTIME\tTYPE\tTITLE\tVENUE\tJERSEY")
	for _, e := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, FormatDate(e.Date), e.ShortTime(), e.EventType, e.Heading(), e.Venue, orDash(e.JerseyColor))
	}
	return w.Flush()
}

// eventFields are the text inputs of the schedule form, keyed by flag name.
type eventFields map[string]*string

func eventFlagSet(s *Shell, name string, from model.ScheduleEvent) (*flag.FlagSet, eventFields) {
	fs := s.flags(name)
	ef := eventFields{
		"title":  fs.String("title", from.Title, "event title"),
		"type":   fs.String("type", string(from.EventType), "training, match, meeting or other"),
		"date":   fs.String("date", from.Date, "YYYY-MM-DD"),
		"time":   fs.String("time", from.ShortTime(), "HH:MM"),
		"venue":  fs.String("venue", from.Venue, "venue"),
		"jersey": fs.String("jersey", from.JerseyColor, "jersey colour"),
		"desc":   fs.String("desc", from.Description, "description"),
	}
	return fs, ef
}

func (ef eventFields) event() (model.ScheduleEvent, error) {
	return forms.EventFromText(*ef["title"], *ef["type"], *ef["date"], *ef["time"], *ef["venue"], *ef["jersey"], *ef["desc"])
}

func scheduleAdd(ctx context.Context, s *Shell, args []string) error {
	fs, ef := eventFlagSet(s, "schedule add", model.ScheduleEvent{})
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	ev, err := ef.event()
	if err != nil {
		return err
	}
	saved, err := s.app.Hooks.CreateEvent().Execute(ctx, ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Scheduled #%d %s on %s\n", saved.ID, saved.Heading(), FormatDate(saved.Date))
	return nil
}

func scheduleEdit(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "event")
	if err != nil {
		return err
	}
	current, err := s.app.Services.Schedule.Get(ctx, id)
	if err != nil {
		return err
	}
	fs, ef := eventFlagSet(s, "schedule edit", current)
	if err := parseFlags(fs, args[1:]); err != nil {
		return err
	}
	ev, err := ef.event()
	if err != nil {
		return err
	}
	saved, err := s.app.Hooks.UpdateEvent().Execute(ctx, hooks.Edit[model.ScheduleEvent]{ID: id, Value: ev})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Updated #%d %s\n", saved.ID, saved.Heading())
	return nil
}

func scheduleDelete(ctx context.Context, s *Shell, args []string) error {
	id, err := parseID(args, "event")
	if err != nil {
		return err
	}
	if _, err := s.app.Hooks.DeleteEvent().Execute(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted event #%d\n", id)
	return nil
}
