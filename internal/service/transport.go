package service

import (
	"context"
	"strings"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
)

type transportService struct {
	transports repository.TransportRepository
}

func NewTransportService(transports repository.TransportRepository) TransportService {
	return &transportService{transports: transports}
}

func validateTransport(t *domain.Transport) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return &domain.ValidationError{Field: "name", Message: "is required"}
	}
	if t.Number != nil && *t.Number < 0 {
		return &domain.ValidationError{Field: "number", Message: "must not be negative"}
	}
	r := t.Rates
	if r.Base < 0 || r.ThreeToSixDays < 0 || r.SevenTo29Days < 0 || r.ThirtyPlusDays < 0 {
		return &domain.ValidationError{Field: "rates", Message: "prices must not be negative"}
	}
	return nil
}

func (s *transportService) Create(ctx context.Context, actor domain.Actor, t *domain.Transport) error {
	logger.EnterMethod(ctx, "transportService.Create", "name", t.Name)
	if !actor.IsPrivileged() {
		logger.ExitMethodRejected(ctx, "transportService.Create", domain.ErrPermissionDenied)
		return domain.ErrPermissionDenied
	}
	if err := validateTransport(t); err != nil {
		logger.ExitMethodRejected(ctx, "transportService.Create", err)
		return err
	}
	if err := s.transports.Create(ctx, t); err != nil {
		logger.ExitMethodWithError(ctx, "transportService.Create", err)
		return err
	}
	logger.ExitMethod(ctx, "transportService.Create", "id", t.ID)
	return nil
}

func (s *transportService) Update(ctx context.Context, actor domain.Actor, t *domain.Transport) error {
	logger.EnterMethod(ctx, "transportService.Update", "id", t.ID)
	if !actor.IsPrivileged() {
		logger.ExitMethodRejected(ctx, "transportService.Update", domain.ErrPermissionDenied)
		return domain.ErrPermissionDenied
	}
	if err := validateTransport(t); err != nil {
		logger.ExitMethodRejected(ctx, "transportService.Update", err)
		return err
	}
	if err := s.transports.Update(ctx, t); err != nil {
		logExit(ctx, "transportService.Update", err, "id", t.ID)
		return err
	}
	logger.ExitMethod(ctx, "transportService.Update", "id", t.ID)
	return nil
}

func (s *transportService) Get(ctx context.Context, id int32) (*domain.Transport, error) {
	return s.transports.GetByID(ctx, id)
}

func (s *transportService) List(ctx context.Context, city string) ([]domain.Transport, error) {
	return s.transports.List(ctx, strings.TrimSpace(city))
}
