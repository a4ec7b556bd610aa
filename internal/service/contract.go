package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
	"fd-rental-backend/internal/utils"
)

type contractService struct {
	rentals    repository.RentalApplicationRepository
	transports repository.TransportRepository
	loc        *time.Location
	now        Clock
}

func NewContractService(rentals repository.RentalApplicationRepository, transports repository.TransportRepository, loc *time.Location, clock Clock) ContractService {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = utils.LoadLocation("")
	}
	return &contractService{rentals: rentals, transports: transports, loc: loc, now: clock}
}

// Context assembles the values substituted into the printed rental contract.
// Money values are plain integers, dates use dd.mm.yyyy.
func (s *contractService) Context(ctx context.Context, actor domain.Actor, id int32) (map[string]string, error) {
	logger.EnterMethod(ctx, "contractService.Context", "id", id)
	if !actor.IsStaff() {
		logger.ExitMethodRejected(ctx, "contractService.Context", domain.ErrPermissionDenied)
		return nil, domain.ErrPermissionDenied
	}

	app, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		logExit(ctx, "contractService.Context", err, "id", id)
		return nil, err
	}

	var transport *domain.Transport
	if app.HasTransport() {
		transport, err = s.transports.GetByID(ctx, *app.TransportID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.ExitMethodWithError(ctx, "contractService.Context", err)
			return nil, err
		}
	}

	var rates domain.RateTable
	values := map[string]string{
		"transport_model":     "",
		"color":               "",
		"registration_number": "",
		"vin_number":          "",
	}
	if transport != nil {
		rates = transport.Rates
		values["transport_model"] = transport.Description()
		values["color"] = transport.Color
		values["registration_number"] = transport.RegistrationNumber
		values["vin_number"] = transport.VINNumber
	}

	cost := utils.CalculateRentalCost(rates, app.StartDate, app.EndDate, app.DiscountPercent)
	start, end := app.StartDate, app.EndDate
	today := utils.Today(s.now(), s.loc)

	values["full_name"] = app.FullName
	values["phone_number"] = app.PhoneNumber
	values["passport_number"] = app.PassportNumber
	values["passport_issued_by"] = app.PassportIssuedBy
	values["passport_issue_date"] = utils.FormatDate(app.PassportIssueDate)
	values["rental_start_date"] = utils.FormatDate(&start)
	values["rental_end_date"] = utils.FormatDate(&end)
	values["rental_days"] = strconv.Itoa(cost.Days)
	values["rate_type"] = cost.RateType
	values["daily_rate"] = strconv.FormatInt(cost.DailyRate, 10)
	values["discount_percent"] = strconv.Itoa(cost.DiscountPercent)
	values["discount_amount"] = strconv.FormatInt(cost.DiscountAmount, 10)
	values["total_cost"] = strconv.FormatInt(cost.TotalCost, 10)
	values["security_deposit"] = strconv.FormatInt(app.SecurityDeposit, 10)
	values["today_date"] = utils.FormatDate(&today)

	logger.ExitMethod(ctx, "contractService.Context", "id", id)
	return values, nil
}
