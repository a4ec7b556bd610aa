package http

import (
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/service"
	"fd-rental-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports field errors under their JSON names
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeBody reads a JSON body into dst and validates its struct tags
func decodeBody(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return validate.Struct(dst)
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", raw)
	}
	return int32(id), nil
}

func parseOptionalID(raw, name string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, badRequest("invalid %s %q", name, raw)
	}
	v := int32(id)
	return &v, nil
}

func parseDateParam(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, badRequest("%s is required", name)
	}
	d, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, badRequest("%s: %v", name, err)
	}
	return d, nil
}

func parseOptionalDate(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := parseDateParam(raw, name)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ApplicationRequest is the create/update body of a rental application.
// Dates accept yyyy-mm-dd or dd.mm.yyyy.
type ApplicationRequest struct {
	TransportID       *int32 `json:"transport_id" validate:"omitempty,gt=0"`
	FullName          string `json:"full_name" validate:"required,max=255"`
	PhoneNumber       string `json:"phone_number" validate:"required,max=32"`
	PassportNumber    string `json:"passport_number" validate:"max=64"`
	PassportIssuedBy  string `json:"passport_issued_by" validate:"max=255"`
	PassportIssueDate string `json:"passport_issue_date"`
	HowDidYouFindUs   string `json:"how_did_you_find_us" validate:"omitempty,oneof=friends internet ads repeat_customer catalog other"`
	City              string `json:"city" validate:"max=128"`
	StartDate         string `json:"rental_start_date" validate:"required"`
	EndDate           string `json:"rental_end_date" validate:"required"`
	DiscountPercent   int    `json:"discount_percent" validate:"oneof=0 10 20"`
	SecurityDeposit   int64  `json:"security_deposit" validate:"gte=0"`
}

func (req *ApplicationRequest) toInput(id *int32) (service.SaveRentalInput, error) {
	start, err := parseDateParam(req.StartDate, "rental_start_date")
	if err != nil {
		return service.SaveRentalInput{}, err
	}
	end, err := parseDateParam(req.EndDate, "rental_end_date")
	if err != nil {
		return service.SaveRentalInput{}, err
	}
	issued, err := parseOptionalDate(req.PassportIssueDate, "passport_issue_date")
	if err != nil {
		return service.SaveRentalInput{}, err
	}
	return service.SaveRentalInput{
		ID:                id,
		TransportID:       req.TransportID,
		FullName:          req.FullName,
		PhoneNumber:       req.PhoneNumber,
		PassportNumber:    req.PassportNumber,
		PassportIssuedBy:  req.PassportIssuedBy,
		PassportIssueDate: issued,
		HowDidYouFindUs:   domain.DiscoverySource(req.HowDidYouFindUs),
		City:              req.City,
		StartDate:         start,
		EndDate:           end,
		DiscountPercent:   req.DiscountPercent,
		SecurityDeposit:   req.SecurityDeposit,
	}, nil
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reserved active completed cancelled overdue"`
}

type CompleteEarlyRequest struct {
	ReturnDate string `json:"return_date"`
}

type TransportRequest struct {
	Number             *int32 `json:"number" validate:"omitempty,gte=0"`
	Name               string `json:"name" validate:"required,max=255"`
	Model              string `json:"model" validate:"max=255"`
	Year               int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Color              string `json:"color" validate:"max=64"`
	RegistrationNumber string `json:"registration_number" validate:"max=32"`
	VINNumber          string `json:"vin_number" validate:"max=32"`
	City               string `json:"city" validate:"max=128"`
	PricePerDay        int64  `json:"price_per_day" validate:"gte=0"`
	Price3To6Days      int64  `json:"price_3_6_days" validate:"gte=0"`
	Price7To29Days     int64  `json:"price_7_29_days" validate:"gte=0"`
	Price30PlusDays    int64  `json:"price_30_plus_days" validate:"gte=0"`
}

func (req *TransportRequest) toDomain(id int32) *domain.Transport {
	return &domain.Transport{
		ID:                 id,
		Number:             req.Number,
		Name:               req.Name,
		Model:              req.Model,
		Year:               req.Year,
		Color:              req.Color,
		RegistrationNumber: req.RegistrationNumber,
		VINNumber:          req.VINNumber,
		City:               req.City,
		Rates: domain.RateTable{
			Base:           req.PricePerDay,
			ThreeToSixDays: req.Price3To6Days,
			SevenTo29Days:  req.Price7To29Days,
			ThirtyPlusDays: req.Price30PlusDays,
		},
	}
}
