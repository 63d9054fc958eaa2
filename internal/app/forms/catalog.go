package forms

import (
	"github.com/okian/befa-admin/internal/domain/model"
)

// ProductFromText builds a product input from operator-entered text.
func ProductFromText(name, price, size, description string, inStock bool) (model.ProductInput, error) {
	in := model.ProductInput{Name: name, Size: size, Description: description, InStock: inStock}
	n, err := model.ParseNumber(price)
	if err != nil {
		return in, err
	}
	in.Price = n
	return in, in.Validate()
}

// EventFromText builds a schedule entry from operator-entered text.
func EventFromText(title, eventType, date, clock, venue, jersey, description string) (model.ScheduleEvent, error) {
	ev := model.ScheduleEvent{
		Title:       title,
		Date:        date,
		Time:        clock,
		Venue:       venue,
		JerseyColor: jersey,
		Description: description,
	}
	t, err := model.ParseEventType(eventType)
	if err != nil {
		return ev, err
	}
	ev.EventType = t
	return ev, ev.Validate()
}
