package domain

import (
	"fmt"
	"time"
)

// CalendarEntry is the denormalised mirror of a rental application. It is
// rebuilt from the application on every save and never edited on its own.
type CalendarEntry struct {
	ID                  int32        `json:"id"`
	RentalApplicationID int32        `json:"rental_application_id"`
	TransportID         *int32       `json:"transport_id,omitempty"`
	Title               string       `json:"title"`
	Start               time.Time    `json:"start"`
	End                 time.Time    `json:"end"`
	AllDay              bool         `json:"all_day"`
	Status              RentalStatus `json:"status"`
}

func CalendarTitle(fullName string) string {
	return fmt.Sprintf("Аренда: %s", fullName)
}

// ProjectCalendarEntry derives the mirror entry for app. Start is the first
// instant of the start date and End the last second of the end date in loc.
func ProjectCalendarEntry(app *RentalApplication, loc *time.Location) *CalendarEntry {
	sy, sm, sd := app.StartDate.Date()
	ey, em, ed := app.EndDate.Date()
	var transportID *int32
	if app.HasTransport() {
		id := *app.TransportID
		transportID = &id
	}
	return &CalendarEntry{
		RentalApplicationID: app.ID,
		TransportID:         transportID,
		Title:               CalendarTitle(app.FullName),
		Start:               time.Date(sy, sm, sd, 0, 0, 0, 0, loc),
		End:                 time.Date(ey, em, ed, 23, 59, 59, 0, loc),
		AllDay:              true,
		Status:              app.Status,
	}
}

var statusColors = map[RentalStatus]string{
	RentalStatusReserved:  "#f0ad4e",
	RentalStatusActive:    "#5cb85c",
	RentalStatusOverdue:   "#d9534f",
	RentalStatusCompleted: "#777777",
	RentalStatusCancelled: "#bbbbbb",
}

func StatusColor(s RentalStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "#3a87ad"
}

type CalendarFilter struct {
	From         time.Time
	To           time.Time
	TransportIDs []int32
}
