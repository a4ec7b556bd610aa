package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
	"fd-rental-backend/internal/utils"
)

type rentalService struct {
	tx    repository.TxManager
	repos repository.Repositories
	loc   *time.Location
	now   Clock
}

func NewRentalService(tx repository.TxManager, repos repository.Repositories, loc *time.Location, clock Clock) RentalService {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = utils.LoadLocation("")
	}
	return &rentalService{tx: tx, repos: repos, loc: loc, now: clock}
}

// isRejection reports errors that are an expected answer to a bad request
// rather than a failure of the service.
func isRejection(err error) bool {
	var (
		unavailable *domain.TransportUnavailableError
		illegal     *domain.IllegalStatusTransitionError
	)
	return domain.IsValidation(err) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &illegal) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrPermissionDenied)
}

func logExit(ctx context.Context, method string, err error, args ...any) {
	if isRejection(err) {
		logger.ExitMethodRejected(ctx, method, err, args...)
		return
	}
	logger.ExitMethodWithError(ctx, method, err, args...)
}

func validateSaveInput(in *SaveRentalInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	if in.FullName == "" {
		return &domain.ValidationError{Field: "full_name", Message: "is required"}
	}
	phone, err := utils.NormalizePhone(in.PhoneNumber)
	if err != nil {
		return &domain.ValidationError{Field: "phone_number", Message: err.Error()}
	}
	in.PhoneNumber = phone
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return &domain.ValidationError{Field: "rental_start_date", Message: "start and end dates are required"}
	}
	in.StartDate = utils.DateOnly(in.StartDate)
	in.EndDate = utils.DateOnly(in.EndDate)
	if in.EndDate.Before(in.StartDate) {
		return &domain.DateRangeError{Start: in.StartDate, End: in.EndDate}
	}
	if !domain.ValidDiscount(in.DiscountPercent) {
		return &domain.ValidationError{Field: "discount_percent", Message: fmt.Sprintf("must be one of %v", domain.AllowedDiscounts)}
	}
	if !in.HowDidYouFindUs.Valid() {
		return &domain.ValidationError{Field: "how_did_you_find_us", Message: fmt.Sprintf("unknown source %q", in.HowDidYouFindUs)}
	}
	if in.SecurityDeposit < 0 {
		return &domain.ValidationError{Field: "security_deposit", Message: "must not be negative"}
	}
	if in.TransportID != nil && *in.TransportID == 0 {
		in.TransportID = nil
	}
	return nil
}

func applyInput(app *domain.RentalApplication, in SaveRentalInput) {
	app.TransportID = in.TransportID
	app.FullName = in.FullName
	app.PhoneNumber = in.PhoneNumber
	app.PassportNumber = strings.TrimSpace(in.PassportNumber)
	app.PassportIssuedBy = strings.TrimSpace(in.PassportIssuedBy)
	app.PassportIssueDate = in.PassportIssueDate
	app.HowDidYouFindUs = in.HowDidYouFindUs
	app.City = strings.TrimSpace(in.City)
	app.StartDate = in.StartDate
	app.EndDate = in.EndDate
	app.DiscountPercent = in.DiscountPercent
	app.SecurityDeposit = in.SecurityDeposit
}

// Save creates or updates an application together with its client link and
// calendar mirror. Every write happens in one transaction, so a rejected save
// leaves nothing behind.
func (s *rentalService) Save(ctx context.Context, actor domain.Actor, in SaveRentalInput) (*domain.RentalApplication, error) {
	logger.EnterMethod(ctx, "rentalService.Save", "id", in.ID, "transportID", in.TransportID)

	if err := validateSaveInput(&in); err != nil {
		logExit(ctx, "rentalService.Save", err)
		return nil, err
	}

	var saved *domain.RentalApplication
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var app *domain.RentalApplication
		if in.ID != nil {
			existing, err := repos.Rentals.GetByIDForUpdate(ctx, *in.ID)
			if err != nil {
				return err
			}
			app = existing
		} else {
			app = &domain.RentalApplication{Status: domain.RentalStatusReserved}
			if actor.UserID != 0 {
				createdBy := actor.UserID
				app.CreatedBy = &createdBy
			}
		}
		applyInput(app, in)

		if app.HasTransport() {
			if err := repos.Transports.LockForBooking(ctx, *app.TransportID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return &domain.ValidationError{Field: "transport_id", Message: "transport not found"}
				}
				return err
			}
			if app.Status.Blocks() {
				if err := checkAvailability(ctx, repos.Rentals, *app.TransportID, app.StartDate, app.EndDate, app.ID); err != nil {
					return err
				}
			}
		}

		if err := s.linkClient(ctx, repos.Clients, app); err != nil {
			return err
		}

		if app.ID == 0 {
			if err := repos.Rentals.Create(ctx, app); err != nil {
				return err
			}
		} else if err := repos.Rentals.Update(ctx, app); err != nil {
			return err
		}

		if err := repos.Calendar.Upsert(ctx, domain.ProjectCalendarEntry(app, s.loc)); err != nil {
			return fmt.Errorf("update calendar mirror: %w", err)
		}
		saved = app
		return nil
	})
	if err != nil {
		logExit(ctx, "rentalService.Save", err)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.Save", "id", saved.ID, "status", saved.Status)
	return saved, nil
}

// linkClient attaches the application to its client, creating one keyed by
// phone number when none is linked yet, then copies the application's non-empty
// personal fields onto the client. Client data never flows back.
func (s *rentalService) linkClient(ctx context.Context, clients repository.ClientRepository, app *domain.RentalApplication) error {
	var client *domain.Client
	if app.ClientID != nil {
		c, err := clients.GetByID(ctx, *app.ClientID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load client: %w", err)
		}
		client = c
	}

	if client == nil {
		c, created, err := clients.GetOrCreateByPhone(ctx, domain.NewClientFromApplication(app))
		if err != nil {
			return fmt.Errorf("find or create client: %w", err)
		}
		id := c.ID
		app.ClientID = &id
		if created {
			return nil
		}
		client = c
	}

	if client.SyncFromApplication(app) {
		if err := clients.Update(ctx, client); err != nil {
			return fmt.Errorf("sync client: %w", err)
		}
	}
	return nil
}

func (s *rentalService) transportRates(ctx context.Context, transports repository.TransportRepository, app *domain.RentalApplication) (domain.RateTable, error) {
	if !app.HasTransport() {
		return domain.RateTable{}, nil
	}
	t, err := transports.GetByID(ctx, *app.TransportID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.RateTable{}, nil
	}
	if err != nil {
		return domain.RateTable{}, err
	}
	return t.Rates, nil
}

func (s *rentalService) ChangeStatus(ctx context.Context, actor domain.Actor, id int32, target domain.RentalStatus) (*domain.RentalApplication, error) {
	logger.EnterMethod(ctx, "rentalService.ChangeStatus", "id", id, "target", target, "privileged", actor.IsPrivileged())

	var result *domain.RentalApplication
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		app, err := repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.ValidateTransition(app.Status, target, actor.IsPrivileged()); err != nil {
			return err
		}
		if app.Status == target {
			result = app
			return nil
		}

		if target.Blocks() && !app.Status.Blocks() && app.HasTransport() {
			if err := repos.Transports.LockForBooking(ctx, *app.TransportID); err != nil {
				return err
			}
			if err := checkAvailability(ctx, repos.Rentals, *app.TransportID, app.StartDate, app.EndDate, app.ID); err != nil {
				return err
			}
		}

		if target == domain.RentalStatusActive {
			rates, err := s.transportRates(ctx, repos.Transports, app)
			if err != nil {
				return err
			}
			app.Activate(s.now(), utils.TotalCost(rates, app.StartDate, app.EndDate, app.DiscountPercent))
		} else {
			app.Status = target
		}

		if err := repos.Rentals.Update(ctx, app); err != nil {
			return err
		}
		if err := repos.Calendar.Upsert(ctx, domain.ProjectCalendarEntry(app, s.loc)); err != nil {
			return fmt.Errorf("update calendar mirror: %w", err)
		}
		result = app
		return nil
	})
	if err != nil {
		logExit(ctx, "rentalService.ChangeStatus", err, "id", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.ChangeStatus", "id", id, "status", result.Status)
	return result, nil
}

func (s *rentalService) CompleteEarly(ctx context.Context, actor domain.Actor, id int32, returnDate *time.Time) (*EarlyCompletionResult, error) {
	logger.EnterMethod(ctx, "rentalService.CompleteEarly", "id", id, "returnDate", returnDate)

	var result *EarlyCompletionResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		app, err := repos.Rentals.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if app.Status != domain.RentalStatusActive {
			return &domain.EarlyCompletionError{Reason: fmt.Sprintf("application is %s, not active", app.Status)}
		}

		newEnd := utils.Today(s.now(), s.loc)
		if returnDate != nil {
			newEnd = utils.DateOnly(*returnDate)
		}
		if newEnd.Before(utils.DateOnly(app.StartDate)) {
			return &domain.EarlyCompletionError{Reason: "return date is before the rental start date"}
		}

		rates, err := s.transportRates(ctx, repos.Transports, app)
		if err != nil {
			return err
		}
		if app.OriginalTotalCost == nil {
			original := utils.TotalCost(rates, app.StartDate, app.EndDate, app.DiscountPercent)
			app.OriginalTotalCost = &original
		}

		app.EndDate = newEnd
		newTotal := utils.TotalCost(rates, app.StartDate, app.EndDate, app.DiscountPercent)
		app.Status = domain.RentalStatusCompleted

		if err := repos.Rentals.Update(ctx, app); err != nil {
			return err
		}
		if err := repos.Calendar.Upsert(ctx, domain.ProjectCalendarEntry(app, s.loc)); err != nil {
			return fmt.Errorf("update calendar mirror: %w", err)
		}

		result = &EarlyCompletionResult{
			Application:       app,
			OriginalTotalCost: *app.OriginalTotalCost,
			NewTotalCost:      newTotal,
			Refund:            utils.Refund(*app.OriginalTotalCost, newTotal),
		}
		return nil
	})
	if err != nil {
		logExit(ctx, "rentalService.CompleteEarly", err, "id", id)
		return nil, err
	}

	logger.ExitMethod(ctx, "rentalService.CompleteEarly", "id", id, "refund", result.Refund)
	return result, nil
}

func (s *rentalService) Delete(ctx context.Context, actor domain.Actor, id int32) error {
	logger.EnterMethod(ctx, "rentalService.Delete", "id", id)
	if !actor.IsPrivileged() {
		logExit(ctx, "rentalService.Delete", domain.ErrPermissionDenied, "id", id)
		return domain.ErrPermissionDenied
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Rentals.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := repos.Calendar.DeleteByApplication(ctx, id); err != nil {
			return fmt.Errorf("delete calendar mirror: %w", err)
		}
		return repos.Rentals.Delete(ctx, id)
	})
	if err != nil {
		logExit(ctx, "rentalService.Delete", err, "id", id)
		return err
	}

	logger.ExitMethod(ctx, "rentalService.Delete", "id", id)
	return nil
}

func (s *rentalService) Get(ctx context.Context, id int32) (*domain.RentalApplication, error) {
	return s.repos.Rentals.GetByID(ctx, id)
}

func (s *rentalService) List(ctx context.Context, filter domain.RentalFilter) ([]domain.RentalApplication, error) {
	logger.EnterMethod(ctx, "rentalService.List", "status", filter.Status)
	apps, err := s.repos.Rentals.List(ctx, filter)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.List", err)
		return nil, err
	}
	logger.ExitMethod(ctx, "rentalService.List", "count", len(apps))
	return apps, nil
}

func (s *rentalService) Quote(ctx context.Context, id int32) (*RentalQuote, error) {
	app, err := s.repos.Rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote := &RentalQuote{Application: app}
	if app.HasTransport() {
		t, err := s.repos.Transports.GetByID(ctx, *app.TransportID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		quote.Transport = t
	}

	var rates domain.RateTable
	if quote.Transport != nil {
		rates = quote.Transport.Rates
	}
	quote.Breakdown = utils.CalculateRentalCost(rates, app.StartDate, app.EndDate, app.DiscountPercent)
	quote.DisplayStatus = app.DisplayStatus(s.now(), s.loc)
	quote.StatusColor = domain.StatusColor(quote.DisplayStatus)
	quote.FormattedDays = utils.FormatDays(quote.Breakdown.Days)
	quote.FormattedRate = utils.FormatRate(quote.Breakdown.DailyRate)
	quote.FormattedDiscount = utils.FormatDiscount(app.DiscountPercent)
	quote.FormattedTotal = utils.FormatMoney(quote.Breakdown.TotalCost)
	quote.FormattedDeposit = utils.FormatMoney(app.SecurityDeposit)
	return quote, nil
}

func (s *rentalService) ReprojectAll(ctx context.Context) (int, int64, error) {
	logger.EnterMethod(ctx, "rentalService.ReprojectAll")

	apps, err := s.repos.Rentals.List(ctx, domain.RentalFilter{})
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.ReprojectAll", err)
		return 0, 0, err
	}

	// The listing only supplies ids. Each entry is projected from the row as
	// it stands under lock, so a save committed after the listing wins.
	projected := 0
	for i := range apps {
		id := apps[i].ID
		err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			app, err := repos.Rentals.GetByIDForUpdate(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := repos.Calendar.Upsert(ctx, domain.ProjectCalendarEntry(app, s.loc)); err != nil {
				return err
			}
			projected++
			return nil
		})
		if err != nil {
			logger.ExitMethodWithError(ctx, "rentalService.ReprojectAll", err, "applicationID", id)
			return projected, 0, err
		}
	}

	removed, err := s.repos.Calendar.DeleteOrphans(ctx)
	if err != nil {
		logger.ExitMethodWithError(ctx, "rentalService.ReprojectAll", err)
		return projected, 0, err
	}

	logger.ExitMethod(ctx, "rentalService.ReprojectAll", "projected", projected, "removed", removed)
	return projected, removed, nil
}
