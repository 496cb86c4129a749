// Package memstore is an in-memory implementation of the storage contracts.
// It returns the same sentinel errors as the PostgreSQL repositories and
// provides a transaction manager that serializes transactions and rolls back
// state on error, so service tests can exercise concurrency paths.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// Store holds all tables
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	courts       map[int64]domain.Court
	bookings     map[int64]domain.Booking
	games        map[int64]domain.PublicGame
	participants map[int64]map[int64]domain.GameParticipant

	nextBookingID int64
	nextGameID    int64

	now func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{
		courts:       make(map[int64]domain.Court),
		bookings:     make(map[int64]domain.Booking),
		games:        make(map[int64]domain.PublicGame),
		participants: make(map[int64]map[int64]domain.GameParticipant),
		now:          time.Now,
	}
}

// Bookings returns the booking repository view
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{s: s}
}

// Courts returns the court repository view
func (s *Store) Courts() *CourtRepository {
	return &CourtRepository{s: s}
}

// Games returns the game repository view
func (s *Store) Games() *GameRepository {
	return &GameRepository{s: s}
}

// TxManager returns a transaction manager bound to the store
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// AddCourt seeds a court
func (s *Store) AddCourt(c domain.Court) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courts[c.ID] = c
}

// AddBooking seeds a booking bypassing overlap checks and returns its ID
func (s *Store) AddBooking(b domain.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		s.nextBookingID++
		b.ID = s.nextBookingID
	} else if b.ID > s.nextBookingID {
		s.nextBookingID = b.ID
	}
	s.bookings[b.ID] = b
	return b.ID
}

// BookingCount returns the number of stored bookings
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// GameCount returns the number of stored games
func (s *Store) GameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

// ParticipantCount returns the number of roster rows for a game
func (s *Store) ParticipantCount(gameID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants[gameID])
}

type snapshot struct {
	courts        map[int64]domain.Court
	bookings      map[int64]domain.Booking
	games         map[int64]domain.PublicGame
	participants  map[int64]map[int64]domain.GameParticipant
	nextBookingID int64
	nextGameID    int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		courts:        make(map[int64]domain.Court, len(s.courts)),
		bookings:      make(map[int64]domain.Booking, len(s.bookings)),
		games:         make(map[int64]domain.PublicGame, len(s.games)),
		participants:  make(map[int64]map[int64]domain.GameParticipant, len(s.participants)),
		nextBookingID: s.nextBookingID,
		nextGameID:    s.nextGameID,
	}
	for k, v := range s.courts {
		snap.courts[k] = v
	}
	for k, v := range s.bookings {
		snap.bookings[k] = v
	}
	for k, v := range s.games {
		snap.games[k] = v
	}
	for gameID, roster := range s.participants {
		copied := make(map[int64]domain.GameParticipant, len(roster))
		for userID, p := range roster {
			copied[userID] = p
		}
		snap.participants[gameID] = copied
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courts = snap.courts
	s.bookings = snap.bookings
	s.games = snap.games
	s.participants = snap.participants
	s.nextBookingID = snap.nextBookingID
	s.nextGameID = snap.nextGameID
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// TxManager serializes transactions on a store-wide lock.
// Nested calls join the outer transaction.
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}
