package http

import (
	"errors"
	"fmt"
	"net/http"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Field     string            `json:"field,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Window    string            `json:"window,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP status codes. Anything unrecognised
// is logged and reported as an internal error without its details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	resp := ErrorResponse{Error: err.Error(), RequestID: logger.RequestID(ctx)}
	status := http.StatusInternalServerError

	var (
		dateRange   *domain.DateRangeError
		unavailable *domain.TransportUnavailableError
		illegal     *domain.IllegalStatusTransitionError
		early       *domain.EarlyCompletionError
		invalid     *domain.ValidationError
		fields      validator.ValidationErrors
		bad         *badRequestError
	)
	switch {
	case errors.As(err, &fields):
		status, resp.Code = http.StatusUnprocessableEntity, "validation_failed"
		resp.Error = "request validation failed"
		resp.Fields = make(map[string]string, len(fields))
		for _, fe := range fields {
			resp.Fields[fe.Field()] = fe.Tag()
		}
	case errors.As(err, &invalid):
		status, resp.Code, resp.Field = http.StatusUnprocessableEntity, "validation_failed", invalid.Field
	case errors.As(err, &dateRange):
		status, resp.Code, resp.Field = http.StatusUnprocessableEntity, "invalid_date_range", "rental_end_date"
	case errors.As(err, &early):
		status, resp.Code = http.StatusUnprocessableEntity, "early_completion_rejected"
	case errors.As(err, &unavailable):
		status, resp.Code, resp.Window = http.StatusConflict, "transport_unavailable", unavailable.Window()
	case errors.As(err, &illegal):
		status, resp.Code = http.StatusConflict, "illegal_status_transition"
	case errors.Is(err, domain.ErrPermissionDenied):
		status, resp.Code = http.StatusForbidden, "permission_denied"
	case errors.Is(err, domain.ErrNotFound):
		status, resp.Code = http.StatusNotFound, "not_found"
	case errors.As(err, &bad):
		status, resp.Code = http.StatusBadRequest, "bad_request"
	default:
		logger.ErrorContext(ctx, "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Code, resp.Error = "internal", "internal server error"
	}
	writeJSON(w, status, resp)
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	if len(args) == 0 {
		return &badRequestError{msg: format}
	}
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}
