package http

import (
	"net/http"
	"time"

	"fd-rental-backend/internal/service"
)

type CalendarHandler struct {
	calendar service.CalendarService
	loc      *time.Location
}

func NewCalendarHandler(calendar service.CalendarService, loc *time.Location) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, loc: loc}
}

// Feed serves the calendar for whole days: start at 00:00 of the start date
// through 23:59:59 of the end date, both in the business zone.
func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate, err := parseDateParam(q.Get("start"), "start")
	if err != nil {
		writeError(w, r, err)
		return
	}
	endDate, err := parseDateParam(q.Get("end"), "end")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var transportIDs []int32
	for _, raw := range q["transport_id"] {
		id, err := parseOptionalID(raw, "transport_id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if id != nil {
			transportIDs = append(transportIDs, *id)
		}
	}

	sy, sm, sd := startDate.Date()
	ey, em, ed := endDate.Date()
	from := time.Date(sy, sm, sd, 0, 0, 0, 0, h.loc)
	to := time.Date(ey, em, ed, 23, 59, 59, 0, h.loc)

	events, err := h.calendar.Feed(r.Context(), from, to, transportIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
