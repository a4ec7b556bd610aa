package service

import (
	"context"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/utils"
)

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

// SaveRentalInput carries the editable fields of a rental application. A nil
// ID creates a new application.
type SaveRentalInput struct {
	ID                *int32
	TransportID       *int32
	FullName          string
	PhoneNumber       string
	PassportNumber    string
	PassportIssuedBy  string
	PassportIssueDate *time.Time
	HowDidYouFindUs   domain.DiscoverySource
	City              string
	StartDate         time.Time
	EndDate           time.Time
	DiscountPercent   int
	SecurityDeposit   int64
}

type EarlyCompletionResult struct {
	Application       *domain.RentalApplication `json:"application"`
	OriginalTotalCost int64                     `json:"original_total_cost"`
	NewTotalCost      int64                     `json:"new_total_cost"`
	Refund            int64                     `json:"refund"`
}

// RentalQuote is the read model shown next to an application: the cost
// breakdown, its display strings and the derived status.
type RentalQuote struct {
	Application       *domain.RentalApplication `json:"application"`
	Transport         *domain.Transport         `json:"transport,omitempty"`
	Breakdown         utils.RentalCostBreakdown `json:"breakdown"`
	DisplayStatus     domain.RentalStatus       `json:"display_status"`
	StatusColor       string                    `json:"status_color"`
	FormattedDays     string                    `json:"formatted_days"`
	FormattedRate     string                    `json:"formatted_rate"`
	FormattedDiscount string                    `json:"formatted_discount"`
	FormattedTotal    string                    `json:"formatted_total"`
	FormattedDeposit  string                    `json:"formatted_deposit"`
}

type CalendarEvent struct {
	ID                  int32               `json:"id"`
	RentalApplicationID int32               `json:"rental_application_id"`
	TransportID         *int32              `json:"transport_id,omitempty"`
	Title               string              `json:"title"`
	Start               time.Time           `json:"start"`
	End                 time.Time           `json:"end"`
	AllDay              bool                `json:"all_day"`
	Status              domain.RentalStatus `json:"status"`
	DisplayStatus       domain.RentalStatus `json:"display_status"`
	Color               string              `json:"color"`
}

type RentalService interface {
	Save(ctx context.Context, actor domain.Actor, in SaveRentalInput) (*domain.RentalApplication, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id int32, target domain.RentalStatus) (*domain.RentalApplication, error)
	CompleteEarly(ctx context.Context, actor domain.Actor, id int32, returnDate *time.Time) (*EarlyCompletionResult, error)
	Delete(ctx context.Context, actor domain.Actor, id int32) error
	Get(ctx context.Context, id int32) (*domain.RentalApplication, error)
	List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalApplication, error)
	Quote(ctx context.Context, id int32) (*RentalQuote, error)
	// ReprojectAll rewrites every mirror entry from its application and drops
	// entries whose application is gone.
	ReprojectAll(ctx context.Context) (projected int, removed int64, err error)
}

type AvailabilityService interface {
	IsAvailable(ctx context.Context, transportID int32, start, end time.Time, excludeID int32) (bool, *domain.RentalApplication, error)
	AvailableTransports(ctx context.Context, start, end time.Time, city string) ([]domain.Transport, error)
}

type CalendarService interface {
	Feed(ctx context.Context, from, to time.Time, transportIDs []int32) ([]CalendarEvent, error)
}

type ContractService interface {
	Context(ctx context.Context, actor domain.Actor, id int32) (map[string]string, error)
}

type TransportService interface {
	Create(ctx context.Context, actor domain.Actor, t *domain.Transport) error
	Update(ctx context.Context, actor domain.Actor, t *domain.Transport) error
	Get(ctx context.Context, id int32) (*domain.Transport, error)
	List(ctx context.Context, city string) ([]domain.Transport, error)
}

// OverdueNotice is one overdue rental as reported to the client and managers.
type OverdueNotice struct {
	Application *domain.RentalApplication
	Transport   *domain.Transport
	DaysOverdue int
}

type NotificationService interface {
	SendOverdueReminder(ctx context.Context, notice OverdueNotice) error
	SendOverdueDigest(ctx context.Context, notices []OverdueNotice) error
}

// SMSSender and EmailSender are the delivery channels behind NotificationService.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, plainText, html string) error
}
