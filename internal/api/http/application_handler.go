package http

import (
	"net/http"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/service"
)

type ApplicationHandler struct {
	rentals   service.RentalService
	contracts service.ContractService
}

func NewApplicationHandler(rentals service.RentalService, contracts service.ContractService) *ApplicationHandler {
	return &ApplicationHandler{rentals: rentals, contracts: contracts}
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RentalFilter{}
	if raw := q.Get("status"); raw != "" {
		status, ok := domain.ParseRentalStatus(raw)
		if !ok {
			writeError(w, r, badRequest("unknown status %q", raw))
			return
		}
		filter.Status = status
	}
	var err error
	if filter.TransportID, err = parseOptionalID(q.Get("transport_id"), "transport_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.ClientID, err = parseOptionalID(q.Get("client_id"), "client_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.From, err = parseOptionalDate(q.Get("from"), "from"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.To, err = parseOptionalDate(q.Get("to"), "to"); err != nil {
		writeError(w, r, err)
		return
	}

	apps, err := h.rentals.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if apps == nil {
		apps = []domain.RentalApplication{}
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, nil, http.StatusCreated)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.save(w, r, &id, http.StatusOK)
}

func (h *ApplicationHandler) save(w http.ResponseWriter, r *http.Request, id *int32, status int) {
	actor, _ := ActorFromContext(r.Context())
	var req ApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.toInput(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.rentals.Save(r.Context(), actor, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, err := h.rentals.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	if err := h.rentals.Delete(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req StatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	app, err := h.rentals.ChangeStatus(r.Context(), actor, id, domain.RentalStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) CompleteEarly(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CompleteEarlyRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	returnDate, err := parseOptionalDate(req.ReturnDate, "return_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	res, err := h.rentals.CompleteEarly(r.Context(), actor, id, returnDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ApplicationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	quote, err := h.rentals.Quote(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *ApplicationHandler) Contract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFromContext(r.Context())
	values, err := h.contracts.Context(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}
