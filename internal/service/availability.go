package service

import (
	"context"
	"fmt"
	"time"

	"fd-rental-backend/internal/domain"
	"fd-rental-backend/internal/logger"
	"fd-rental-backend/internal/repository"
	"fd-rental-backend/internal/utils"
)

type availabilityService struct {
	rentals    repository.RentalApplicationRepository
	transports repository.TransportRepository
}

func NewAvailabilityService(rentals repository.RentalApplicationRepository, transports repository.TransportRepository) AvailabilityService {
	return &availabilityService{rentals: rentals, transports: transports}
}

// checkAvailability returns a TransportUnavailableError carrying the window of
// the earliest reserved or active booking that overlaps [start, end]. Both ends
// are inclusive, so a booking ending on the requested start date conflicts.
func checkAvailability(ctx context.Context, rentals repository.RentalApplicationRepository, transportID int32, start, end time.Time, excludeID int32) error {
	conflict, err := rentals.FindConflicting(ctx, transportID, utils.DateOnly(start), utils.DateOnly(end), excludeID)
	if err != nil {
		return fmt.Errorf("check availability: %w", err)
	}
	if conflict == nil {
		return nil
	}
	return &domain.TransportUnavailableError{
		TransportID:   transportID,
		ConflictingID: conflict.ID,
		Start:         conflict.StartDate,
		End:           conflict.EndDate,
	}
}

func (s *availabilityService) IsAvailable(ctx context.Context, transportID int32, start, end time.Time, excludeID int32) (bool, *domain.RentalApplication, error) {
	if end.Before(start) {
		return false, nil, &domain.DateRangeError{Start: start, End: end}
	}
	conflict, err := s.rentals.FindConflicting(ctx, transportID, utils.DateOnly(start), utils.DateOnly(end), excludeID)
	if err != nil {
		return false, nil, err
	}
	return conflict == nil, conflict, nil
}

func (s *availabilityService) AvailableTransports(ctx context.Context, start, end time.Time, city string) ([]domain.Transport, error) {
	logger.EnterMethod(ctx, "availabilityService.AvailableTransports", "start", start, "end", end, "city", city)
	if end.Before(start) {
		return nil, &domain.DateRangeError{Start: start, End: end}
	}

	transports, err := s.transports.List(ctx, city)
	if err != nil {
		logger.ExitMethodWithError(ctx, "availabilityService.AvailableTransports", err)
		return nil, err
	}
	booked, err := s.rentals.ListBookedTransportIDs(ctx, utils.DateOnly(start), utils.DateOnly(end))
	if err != nil {
		logger.ExitMethodWithError(ctx, "availabilityService.AvailableTransports", err)
		return nil, err
	}

	busy := make(map[int32]struct{}, len(booked))
	for _, id := range booked {
		busy[id] = struct{}{}
	}
	free := make([]domain.Transport, 0, len(transports))
	for _, t := range transports {
		if _, taken := busy[t.ID]; !taken {
			free = append(free, t)
		}
	}

	logger.ExitMethod(ctx, "availabilityService.AvailableTransports", "total", len(transports), "free", len(free))
	return free, nil
}
