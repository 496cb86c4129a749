// Package courts отдает каталог кортов с действующими часами работы
package courts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	courtRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/court"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/courts/models"
)

// Service сервис каталога кортов
type Service struct {
	courtRepo CourtRepository
	venue     domain.VenueSettings
	logger    Logger
}

// NewService создает новый экземпляр сервиса кортов
func NewService(courtRepo CourtRepository, venue domain.VenueSettings, logger Logger) *Service {
	return &Service{
		courtRepo: courtRepo,
		venue:     venue,
		logger:    logger,
	}
}

// GetCourt возвращает активный корт. Неактивный корт не виден так же, как отсутствующий.
func (s *Service) GetCourt(ctx context.Context, courtID int64) (*models.CourtResponse, error) {
	if courtID <= 0 {
		return nil, fmt.Errorf("%w: court_id must be positive", ErrInvalidInput)
	}

	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			return nil, ErrCourtNotFound
		}
		s.logger.Error("GetCourt: failed to get court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: GetCourt: %w", ErrInternal, err)
	}
	if !court.IsActive {
		s.logger.Warn("GetCourt: court id=%d is inactive", courtID)
		return nil, ErrCourtNotFound
	}

	resp := models.FromDomainCourt(court, s.venue.DefaultHours)
	if !resp.Bookable {
		s.logger.Warn("GetCourt: court id=%d has empty operating window %s-%s", courtID, resp.OpeningTime, resp.ClosingTime)
	}
	return resp, nil
}

// ListVenueCourts возвращает активные корты площадки
func (s *Service) ListVenueCourts(ctx context.Context, venueID int64) (*models.CourtListResponse, error) {
	if venueID <= 0 {
		return nil, fmt.Errorf("%w: venue_id must be positive", ErrInvalidInput)
	}

	courts, err := s.courtRepo.ListByVenue(ctx, venueID)
	if err != nil {
		s.logger.Error("ListVenueCourts: failed to list courts of venue=%d: %v", venueID, err)
		return nil, fmt.Errorf("%w: ListVenueCourts: %w", ErrInternal, err)
	}

	resp := &models.CourtListResponse{VenueID: venueID, Courts: make([]models.CourtResponse, 0, len(courts))}
	for _, c := range courts {
		resp.Courts = append(resp.Courts, *models.FromDomainCourt(c, s.venue.DefaultHours))
	}
	return resp, nil
}
