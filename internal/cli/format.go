package cli

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/okian/befa-admin/internal/domain/model"
)

const dash = "-"

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Age returns whole years between a YYYY-MM-DD birth date and now.
func Age(dob string, now time.Time) string {
	t, ok := parseDate(dob)
	if !ok || t.After(now) {
		return dash
	}
	years := now.Year() - t.Year()
	if now.Month() < t.Month() || (now.Month() == t.Month() && now.Day() < t.Day()) {
		years--
	}
	return strconv.Itoa(years)
}

// Initials returns up to two uppercase initials, e.g. "OC" for "Okafor Chinedu".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() >= 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

// FormatDate renders a backend date or timestamp as "Jan 2, 2006".
func FormatDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		if s == "" {
			return dash
		}
		return s
	}
	return t.Format("Jan 2, 2006")
}

// Trend renders a percentage change, or nothing when the backend sent none.
func Trend(n *model.Number) string {
	if n == nil {
		return ""
	}
	if *n > 0 {
		return "+" + n.String() + "%"
	}
	return n.String() + "%"
}

// Money renders a price in naira.
func Money(n model.Number) string { return "NGN " + n.String() }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return dash
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
