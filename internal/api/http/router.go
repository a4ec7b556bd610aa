package http

import (
	"context"
	"net/http"
	"time"

	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/security"
	"fd-rental-backend/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Services are the collaborators the HTTP layer calls into
type Services struct {
	Rentals      service.RentalService
	Availability service.AvailabilityService
	Calendar     service.CalendarService
	Contracts    service.ContractService
	Transports   service.TransportService
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	AllowedOrigins []string
	Location       *time.Location
}

// NewRouter registers every route and wraps them with request ids, access
// logging, CORS and panic recovery.
func NewRouter(svcs Services, tm security.TokenManager, db Pinger, cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, accessLog)

	r.HandleFunc("/healthz", healthz(db)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(NewAuthMiddleware(tm).Handler)

	transports := NewTransportHandler(svcs.Transports, svcs.Availability)
	api.HandleFunc("/transports", transports.List).Methods(http.MethodGet)
	api.HandleFunc("/transports", transports.Create).Methods(http.MethodPost)
	api.HandleFunc("/transports/available", transports.Available).Methods(http.MethodGet)
	api.HandleFunc("/transports/{id:[0-9]+}", transports.Get).Methods(http.MethodGet)
	api.HandleFunc("/transports/{id:[0-9]+}", transports.Update).Methods(http.MethodPut)
	api.HandleFunc("/transports/{id:[0-9]+}/availability", transports.Availability).Methods(http.MethodGet)

	apps := NewApplicationHandler(svcs.Rentals, svcs.Contracts)
	api.HandleFunc("/applications", apps.List).Methods(http.MethodGet)
	api.HandleFunc("/applications", apps.Create).Methods(http.MethodPost)
	api.HandleFunc("/applications/{id:[0-9]+}", apps.Get).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id:[0-9]+}", apps.Update).Methods(http.MethodPut)
	api.HandleFunc("/applications/{id:[0-9]+}", apps.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/applications/{id:[0-9]+}/status", apps.ChangeStatus).Methods(http.MethodPost)
	api.HandleFunc("/applications/{id:[0-9]+}/complete-early", apps.CompleteEarly).Methods(http.MethodPost)
	api.HandleFunc("/applications/{id:[0-9]+}/quote", apps.Quote).Methods(http.MethodGet)
	api.HandleFunc("/applications/{id:[0-9]+}/contract", apps.Contract).Methods(http.MethodGet)

	calendar := NewCalendarHandler(svcs.Calendar, cfg.Location)
	api.HandleFunc("/calendar", calendar.Feed).Methods(http.MethodGet)

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader}),
		handlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(cors(r))
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	logger.Error("Recovered from panic in HTTP handler", "panic", v)
}

func healthz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				logger.WarnContext(ctx, "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
