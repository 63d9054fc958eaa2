package model

import (
	"fmt"
	"strings"
)

// EventType categorizes schedule entries.
type EventType string

// Event types.
const (
	EventTraining EventType = "training"
	EventMatch    EventType = "match"
	EventMeeting  EventType = "meeting"
	EventOther    EventType = "other"
)

// EventTypes lists every valid type.
var EventTypes = []EventType{EventTraining, EventMatch, EventMeeting, EventOther}

// ParseEventType validates s. Empty means training.
func ParseEventType(s string) (EventType, error) {
	if s == "" {
		return EventTraining, nil
	}
	for _, t := range EventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: event type %q", ErrInvalidStatus, s)
}

// ScheduleEvent is a training session, match or meeting.
type ScheduleEvent struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	EventType   EventType `json:"event_type"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Venue       string    `json:"venue"`
	JerseyColor string    `json:"jersey_color,omitempty"`
	Description string    `json:"description"`
}

// Heading is the title, or the type when untitled.
func (e ScheduleEvent) Heading() string {
	if e.Title != "" {
		return e.Title
	}
	return string(e.EventType)
}

// ShortTime trims seconds from "HH:MM:SS".
func (e ScheduleEvent) ShortTime() string {
	if len(e.Time) > 5 {
		return e.Time[:5]
	}
	return e.Time
}

// Validate checks date, time and venue.
func (e ScheduleEvent) Validate() error {
	if strings.TrimSpace(e.Date) == "" || strings.TrimSpace(e.Time) == "" || strings.TrimSpace(e.Venue) == "" {
		return &ValidationError{Message: "Date, time, and venue are required", Fields: missing(map[string]string{
			"date":  e.Date,
			"time":  e.Time,
			"venue": e.Venue,
		})}
	}
	return nil
}
