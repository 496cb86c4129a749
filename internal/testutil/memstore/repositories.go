package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	bookingRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/booking"
	courtRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/court"
	gameRepo "github.com/Abhijat05/QuickCourt-sub001/internal/infra/storage/game"
)

// CourtRepository mirrors storage/court.Repository
type CourtRepository struct {
	s *Store
}

func (r *CourtRepository) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return &c, nil
}

func (r *CourtRepository) ListByVenue(_ context.Context, venueID int64) ([]*domain.Court, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	courts := make([]*domain.Court, 0)
	for _, c := range r.s.courts {
		if c.VenueID == venueID && c.IsActive {
			c := c
			courts = append(courts, &c)
		}
	}
	sort.Slice(courts, func(i, j int) bool { return courts[i].Name < courts[j].Name })
	return courts, nil
}

// BookingRepository mirrors storage/booking.Repository
type BookingRepository struct {
	s *Store
}

func (r *BookingRepository) LockCourtDay(ctx context.Context, _ int64, _ time.Time) error {
	if !inTx(ctx) {
		return fmt.Errorf("%w: LockCourtDay - advisory lock requires transaction", bookingRepo.ErrTransaction)
	}
	return nil
}

// Create enforces the no-overlap constraint like the database exclusion constraint
func (r *BookingRepository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if booking.Status == domain.StatusConfirmed {
		for _, existing := range r.s.bookings {
			if existing.CourtID == booking.CourtID && existing.Status == domain.StatusConfirmed &&
				existing.Slot().Overlaps(booking.Slot()) {
				return nil, fmt.Errorf("%w: Create - overlaps booking %d", bookingRepo.ErrSlotNotAvailable, existing.ID)
			}
		}
	}

	r.s.nextBookingID++
	now := r.s.now()
	stored := *booking
	stored.ID = r.s.nextBookingID
	stored.BookingDate = domain.DateOnly(stored.BookingDate)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.bookings[stored.ID] = stored

	*booking = stored
	return booking, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepository) GetConfirmedByCourtAndDate(_ context.Context, courtID int64, date time.Time) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	day := domain.DateOnly(date)
	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.CourtID == courtID && b.Status == domain.StatusConfirmed && b.BookingDate.Equal(day) {
			b := b
			result = append(result, &b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.IsBefore(result[j].StartTime) })
	return result, nil
}

func (r *BookingRepository) GetByUserID(_ context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.UserID != filter.UserID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		b := b
		result = append(result, &b)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.After(result[j].BookingDate)
		}
		return result[i].StartTime.IsAfter(result[j].StartTime)
	})
	return result, nil
}

func (r *BookingRepository) Cancel(_ context.Context, id int64, cancelledAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.Status != domain.StatusConfirmed {
		return bookingRepo.ErrCannotCancel
	}
	b.Status = domain.StatusCancelled
	b.CancelledAt = &cancelledAt
	b.UpdatedAt = cancelledAt
	r.s.bookings[id] = b
	return nil
}

func (r *BookingRepository) CompleteEnded(_ context.Context, now time.Time) ([]domain.CourtDay, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	completed := make([]domain.CourtDay, 0)
	for id, b := range r.s.bookings {
		if b.Status != domain.StatusConfirmed {
			continue
		}
		if b.HasEnded(now, now.Location()) {
			b.Status = domain.StatusCompleted
			b.UpdatedAt = now
			r.s.bookings[id] = b
			completed = append(completed, domain.CourtDay{CourtID: b.CourtID, Date: domain.DateOnly(b.BookingDate)})
		}
	}
	return completed, nil
}

// GameRepository mirrors storage/game.Repository
type GameRepository struct {
	s *Store
}

func (r *GameRepository) Create(_ context.Context, game *domain.PublicGame) (*domain.PublicGame, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.games {
		if g.BookingID == game.BookingID {
			return nil, fmt.Errorf("%w: Create - booking=%d", gameRepo.ErrGameAlreadyExists, game.BookingID)
		}
	}

	r.s.nextGameID++
	now := r.s.now()
	stored := *game
	stored.ID = r.s.nextGameID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.games[stored.ID] = stored
	r.s.participants[stored.ID] = make(map[int64]domain.GameParticipant)

	*game = stored
	return game, nil
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (*domain.PublicGame, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.games[id]
	if !ok {
		return nil, gameRepo.ErrGameNotFound
	}
	return &g, nil
}

func (r *GameRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.PublicGame, error) {
	return r.GetByID(ctx, id)
}

func (r *GameRepository) GetByBookingID(_ context.Context, bookingID int64) (*domain.PublicGame, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, g := range r.s.games {
		if g.BookingID == bookingID {
			return &g, nil
		}
	}
	return nil, gameRepo.ErrGameNotFound
}

func (r *GameRepository) ListOpen(_ context.Context, filter domain.GamesFilter) ([]*domain.GameListItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]*domain.GameListItem, 0)
	for _, g := range r.s.games {
		if g.Status != domain.GameStatusOpen {
			continue
		}
		b, ok := r.s.bookings[g.BookingID]
		if !ok {
			continue
		}
		if filter.DateFrom != nil && b.BookingDate.Before(domain.DateOnly(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && b.BookingDate.After(domain.DateOnly(*filter.DateTo)) {
			continue
		}
		if filter.SkillLevel != nil && g.SkillLevel != *filter.SkillLevel {
			continue
		}
		if filter.CourtID != nil && b.CourtID != *filter.CourtID {
			continue
		}
		g := g
		items = append(items, &domain.GameListItem{
			Game:      &g,
			CourtID:   b.CourtID,
			Date:      b.BookingDate,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.IsBefore(items[j].StartTime)
		}
		return items[i].Game.ID < items[j].Game.ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			return []*domain.GameListItem{}, nil
		}
		items = items[filter.Offset:]
	}
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *GameRepository) UpdateState(_ context.Context, id int64, status domain.GameStatus, currentPlayers int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.games[id]
	if !ok {
		return gameRepo.ErrGameNotFound
	}
	g.Status = status
	g.CurrentPlayers = currentPlayers
	g.UpdatedAt = r.s.now()
	r.s.games[id] = g
	return nil
}

func (r *GameRepository) AddParticipant(_ context.Context, participant *domain.GameParticipant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	roster, ok := r.s.participants[participant.GameID]
	if !ok {
		return fmt.Errorf("%w: AddParticipant - game=%d", gameRepo.ErrGameNotFound, participant.GameID)
	}
	if _, exists := roster[participant.UserID]; exists {
		return fmt.Errorf("%w: AddParticipant - game=%d user=%d", gameRepo.ErrAlreadyMember, participant.GameID, participant.UserID)
	}
	participant.JoinedAt = r.s.now()
	roster[participant.UserID] = *participant
	return nil
}

func (r *GameRepository) RemoveParticipant(_ context.Context, gameID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roster := r.s.participants[gameID]
	if _, ok := roster[userID]; !ok {
		return gameRepo.ErrParticipantNotFound
	}
	delete(roster, userID)
	return nil
}

func (r *GameRepository) GetParticipant(_ context.Context, gameID, userID int64) (*domain.GameParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[gameID][userID]
	if !ok {
		return nil, gameRepo.ErrParticipantNotFound
	}
	return &p, nil
}

func (r *GameRepository) CountConfirmedParticipants(_ context.Context, gameID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, p := range r.s.participants[gameID] {
		if p.Status == domain.ParticipantConfirmed {
			n++
		}
	}
	return n, nil
}

func (r *GameRepository) ListParticipants(_ context.Context, gameID int64) ([]*domain.GameParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]*domain.GameParticipant, 0, len(r.s.participants[gameID]))
	for _, p := range r.s.participants[gameID] {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].JoinedAt.Equal(result[j].JoinedAt) {
			return result[i].JoinedAt.Before(result[j].JoinedAt)
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}
