package http

import (
	"net/http"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/service"
)

type TransportHandler struct {
	transports   service.TransportService
	availability service.AvailabilityService
}

func NewTransportHandler(transports service.TransportService, availability service.AvailabilityService) *TransportHandler {
	return &TransportHandler{transports: transports, availability: availability}
}

func (h *TransportHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.transports.List(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.Transport{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TransportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t, err := h.transports.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TransportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TransportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	t := req.toDomain(0)
	if err := h.transports.Create(r.Context(), actor, t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TransportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req TransportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	t := req.toDomain(id)
	if err := h.transports.Update(r.Context(), actor, t); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

type AvailabilityResponse struct {
	TransportID int32                     `json:"transport_id"`
	Available   bool                      `json:"available"`
	Conflict    *domain.RentalApplication `json:"conflict,omitempty"`
	Window      string                    `json:"window,omitempty"`
}

func (h *TransportHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	start, err := parseDateParam(q.Get("start_date"), "start_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDateParam(q.Get("end_date"), "end_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	exclude, err := parseOptionalID(q.Get("exclude_id"), "exclude_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var excludeID int32
	if exclude != nil {
		excludeID = *exclude
	}

	ok, conflict, err := h.availability.IsAvailable(r.Context(), id, start, end, excludeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := AvailabilityResponse{TransportID: id, Available: ok, Conflict: conflict}
	if conflict != nil {
		resp.Window = (&domain.TransportUnavailableError{Start: conflict.StartDate, End: conflict.EndDate}).Window()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TransportHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseDateParam(q.Get("start_date"), "start_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := parseDateParam(q.Get("end_date"), "end_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	free, err := h.availability.AvailableTransports(r.Context(), start, end, q.Get("city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, free)
}
