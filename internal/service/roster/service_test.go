package roster

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
	"github.com/Abhijat05/QuickCourt-sub001/internal/testutil/memstore"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/metrics"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

const hostID int64 = 100

var fixedNow = time.Date(2025, 10, 15, 9, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type sentNotification struct {
	recipient int64
	subject   string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, recipientID int64, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{recipient: recipientID, subject: subject})
	return nil
}

func (n *recordingNotifier) recipients(subject string) []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	var ids []int64
	for _, s := range n.sent {
		if s.subject == subject {
			ids = append(ids, s.recipient)
		}
	}
	return ids
}

type recordingMetrics struct {
	mu  sync.Mutex
	ops map[string]int
}

func (m *recordingMetrics) RecordRosterOperation(operation, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ops == nil {
		m.ops = make(map[string]int)
	}
	m.ops[operation+"/"+result]++
}

func (m *recordingMetrics) count(operation, result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops[operation+"/"+result]
}

type fixture struct {
	store    *memstore.Store
	notifier *recordingNotifier
	metrics  *recordingMetrics
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	notifier := &recordingNotifier{}
	m := &recordingMetrics{}
	svc := NewService(
		store.Games(),
		store.Bookings(),
		notifier,
		m,
		store.TxManager(),
		domain.VenueSettings{DefaultHours: domain.DefaultOperatingHours, Location: time.UTC},
		logger.Nop(),
	).WithTimeProvider(fixedClock{now: fixedNow})
	return &fixture{store: store, notifier: notifier, metrics: m, svc: svc}
}

func (f *fixture) booking(date time.Time, start, end string) int64 {
	return f.store.AddBooking(domain.Booking{
		CourtID:     1,
		UserID:      hostID,
		BookingDate: date,
		StartTime:   types.MustTimeString(start),
		EndTime:     types.MustTimeString(end),
		Status:      domain.StatusConfirmed,
		TotalPrice:  40,
	})
}

func (f *fixture) game(t *testing.T, maxPlayers int) int64 {
	t.Helper()
	bookingID := f.booking(fixedNow.AddDate(0, 0, 1), "10:00", "12:00")
	resp, err := f.svc.CreateGame(context.Background(), domain.Actor{UserID: hostID, Role: domain.RoleUser}, &models.CreateGameRequest{
		BookingID:  bookingID,
		Title:      "Evening doubles",
		MaxPlayers: maxPlayers,
		SkillLevel: "intermediate",
	})
	require.NoError(t, err)
	return resp.ID
}

func TestCreateGame_HostIsFirstParticipant(t *testing.T) {
	f := newFixture(t)
	gameID := f.game(t, 4)

	game, err := f.svc.GetGame(context.Background(), gameID)
	require.NoError(t, err)

	assert.Equal(t, hostID, game.HostID)
	assert.Equal(t, 1, game.CurrentPlayers)
	assert.Equal(t, string(domain.GameStatusOpen), game.Status)
	require.Len(t, game.Participants, 1)
	assert.Equal(t, hostID, game.Participants[0].UserID)
	assert.Equal(t, 1, f.metrics.count(opCreate, metrics.ResultSuccess))
}

func TestInitializeGame_NormalizesOptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bookingID := f.booking(fixedNow.AddDate(0, 0, 1), "18:00", "20:00")
	booking, err := f.store.Bookings().GetByID(ctx, bookingID)
	require.NoError(t, err)

	game, err := f.svc.InitializeGame(ctx, booking, domain.GameOptions{Title: "  Friday smash ", MaxPlayers: 4})
	require.NoError(t, err)
	assert.Equal(t, "Friday smash", game.Title)
	assert.Equal(t, domain.SkillAny, game.SkillLevel)
	assert.Equal(t, 1, game.CurrentPlayers)

	_, err = f.svc.InitializeGame(ctx, booking, domain.GameOptions{Title: "Again", MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrGameAlreadyExists)

	_, err = f.svc.InitializeGame(ctx, booking, domain.GameOptions{Title: "   ", MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateGame_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	host := domain.Actor{UserID: hostID, Role: domain.RoleUser}
	bookingID := f.booking(fixedNow.AddDate(0, 0, 1), "10:00", "11:00")

	tests := []struct {
		name    string
		actor   domain.Actor
		req     *models.CreateGameRequest
		wantErr error
	}{
		{
			name:    "not the booking owner",
			actor:   domain.Actor{UserID: 7, Role: domain.RoleUser},
			req:     &models.CreateGameRequest{BookingID: bookingID, Title: "x", MaxPlayers: 4},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "booking missing",
			actor:   host,
			req:     &models.CreateGameRequest{BookingID: 999, Title: "x", MaxPlayers: 4},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "max players below minimum",
			actor:   host,
			req:     &models.CreateGameRequest{BookingID: bookingID, Title: "x", MaxPlayers: 1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown skill level",
			actor:   host,
			req:     &models.CreateGameRequest{BookingID: bookingID, Title: "x", MaxPlayers: 4, SkillLevel: "pro"},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateGame(ctx, tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 0, f.store.GameCount())

	_, err := f.svc.CreateGame(ctx, host, &models.CreateGameRequest{BookingID: bookingID, Title: "x", MaxPlayers: 4})
	require.NoError(t, err)
	_, err = f.svc.CreateGame(ctx, host, &models.CreateGameRequest{BookingID: bookingID, Title: "y", MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrGameAlreadyExists)
}

func TestCreateGame_BookingAlreadyStarted(t *testing.T) {
	f := newFixture(t)
	bookingID := f.booking(fixedNow, "08:00", "10:00")

	_, err := f.svc.CreateGame(context.Background(), domain.Actor{UserID: hostID}, &models.CreateGameRequest{
		BookingID: bookingID, Title: "late", MaxPlayers: 4,
	})
	assert.ErrorIs(t, err, ErrBookingNotEligible)
}

func TestJoinLeave_TwoPlayerGame(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gameID := f.game(t, 2)

	game, err := f.svc.Join(ctx, gameID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, game.CurrentPlayers)
	assert.Equal(t, string(domain.GameStatusFull), game.Status)

	_, err = f.svc.Join(ctx, gameID, 3)
	assert.ErrorIs(t, err, ErrGameFull)

	game, err = f.svc.Leave(ctx, gameID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, game.CurrentPlayers)
	assert.Equal(t, string(domain.GameStatusOpen), game.Status)

	game, err = f.svc.Join(ctx, gameID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, game.CurrentPlayers)
	assert.Equal(t, string(domain.GameStatusFull), game.Status)

	assert.Equal(t, []int64{hostID, hostID}, f.notifier.recipients("New player joined"))
}

func TestJoin_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gameID := f.game(t, 4)

	_, err := f.svc.Join(ctx, gameID, hostID)
	assert.ErrorIs(t, err, ErrAlreadyMember)

	_, err = f.svc.Join(ctx, 404, 2)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = f.svc.Join(ctx, gameID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Leave(ctx, gameID, 55)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = f.svc.Leave(ctx, 404, 55)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestJoin_NotifierFailureDoesNotFailJoin(t *testing.T) {
	f := newFixture(t)
	gameID := f.game(t, 4)
	f.notifier.err = errors.New("broker down")

	game, err := f.svc.Join(context.Background(), gameID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, game.CurrentPlayers)
}

func TestJoin_ConcurrentJoinersFillExactlyLastSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const maxPlayers = 5
	gameID := f.game(t, maxPlayers)

	for userID := int64(1); userID <= 3; userID++ {
		_, err := f.svc.Join(ctx, gameID, userID)
		require.NoError(t, err)
	}

	const joiners = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		full      int
	)
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := f.svc.Join(ctx, gameID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrGameFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(1000 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, joiners-1, full)

	game, err := f.svc.GetGame(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, maxPlayers, game.CurrentPlayers)
	assert.Len(t, game.Participants, maxPlayers)
	assert.Equal(t, string(domain.GameStatusFull), game.Status)
}

func TestClose_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gameID := f.game(t, 4)
	host := domain.Actor{UserID: hostID, Role: domain.RoleUser}

	_, err := f.svc.Close(ctx, gameID, domain.Actor{UserID: 2, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrAccessDenied)

	game, err := f.svc.Close(ctx, gameID, host)
	require.NoError(t, err)
	assert.Equal(t, string(domain.GameStatusClosed), game.Status)

	game, err = f.svc.Close(ctx, gameID, host)
	require.NoError(t, err)
	assert.Equal(t, string(domain.GameStatusClosed), game.Status)

	_, err = f.svc.Join(ctx, gameID, 2)
	assert.ErrorIs(t, err, ErrGameNotJoinable)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestClose_AdminCanCloseAnyGame(t *testing.T) {
	f := newFixture(t)
	gameID := f.game(t, 4)

	game, err := f.svc.Close(context.Background(), gameID, domain.Actor{UserID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, string(domain.GameStatusClosed), game.Status)
}

func TestLeave_HostCancelsGameAndNotifiesOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gameID := f.game(t, 6)

	for _, userID := range []int64{2, 3, 4} {
		_, err := f.svc.Join(ctx, gameID, userID)
		require.NoError(t, err)
	}

	game, err := f.svc.Leave(ctx, gameID, hostID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.GameStatusCancelled), game.Status)
	assert.Equal(t, 4, game.CurrentPlayers)

	assert.Equal(t, 4, f.store.ParticipantCount(gameID))
	assert.ElementsMatch(t, []int64{2, 3, 4}, f.notifier.recipients("Game cancelled"))

	_, err = f.svc.Join(ctx, gameID, 5)
	assert.ErrorIs(t, err, ErrGameNotJoinable)

	_, err = f.svc.Close(ctx, gameID, domain.Actor{UserID: hostID})
	assert.ErrorIs(t, err, ErrGameNotJoinable)
}

func TestCancelForBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gameID := f.game(t, 4)
	_, err := f.svc.Join(ctx, gameID, 2)
	require.NoError(t, err)

	game, err := f.svc.GetGame(ctx, gameID)
	require.NoError(t, err)

	cancelled, recipients, err := f.svc.CancelForBooking(ctx, game.BookingID)
	require.NoError(t, err)
	require.NotNil(t, cancelled)
	assert.Equal(t, domain.GameStatusCancelled, cancelled.Status)
	assert.Equal(t, []int64{2}, recipients)

	cancelled, recipients, err = f.svc.CancelForBooking(ctx, game.BookingID)
	require.NoError(t, err)
	assert.Nil(t, cancelled)
	assert.Empty(t, recipients)

	cancelled, _, err = f.svc.CancelForBooking(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, cancelled)
}

func TestListOpenGames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	openID := f.game(t, 4)
	closedID := f.game(t, 4)

	_, err := f.svc.Close(ctx, closedID, domain.Actor{UserID: hostID})
	require.NoError(t, err)

	list, err := f.svc.ListOpenGames(ctx, &models.ListGamesRequest{})
	require.NoError(t, err)
	require.Len(t, list.Games, 1)
	assert.Equal(t, openID, list.Games[0].ID)
	assert.Equal(t, "10:00", list.Games[0].StartTime)
	assert.Equal(t, domain.DefaultGamesPerPage, list.Limit)

	beginner := "beginner"
	list, err = f.svc.ListOpenGames(ctx, &models.ListGamesRequest{SkillLevel: &beginner})
	require.NoError(t, err)
	assert.Empty(t, list.Games)

	bad := "expert"
	_, err = f.svc.ListOpenGames(ctx, &models.ListGamesRequest{SkillLevel: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
