package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/types"
)

// GameStatus represents the lifecycle state of a public game
type GameStatus string

const (
	GameStatusOpen      GameStatus = "open"
	GameStatusFull      GameStatus = "full"
	GameStatusClosed    GameStatus = "closed"
	GameStatusCancelled GameStatus = "cancelled"
)

// SkillLevel is the advertised level of a public game
type SkillLevel string

const (
	SkillAny          SkillLevel = "any"
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// IsValid returns true for a known skill level
func (s SkillLevel) IsValid() bool {
	switch s {
	case SkillAny, SkillBeginner, SkillIntermediate, SkillAdvanced:
		return true
	}
	return false
}

// ParticipantStatus is the membership state of a roster entry
type ParticipantStatus string

const ParticipantConfirmed ParticipantStatus = "confirmed"

// PublicGame is a booking opened for other users to join.
// CurrentPlayers always equals the number of confirmed participants.
type PublicGame struct {
	ID             int64
	BookingID      int64
	HostID         int64
	Title          string
	Description    *string
	MaxPlayers     int
	CurrentPlayers int
	SkillLevel     SkillLevel
	Status         GameStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsJoinable returns true while the game accepts membership changes
func (g *PublicGame) IsJoinable() bool {
	return g.Status == GameStatusOpen || g.Status == GameStatusFull
}

// IsTerminal returns true once the roster is frozen
func (g *PublicGame) IsTerminal() bool {
	return g.Status == GameStatusClosed || g.Status == GameStatusCancelled
}

// IsHost returns true if the user hosts the game
func (g *PublicGame) IsHost(userID int64) bool {
	return g.HostID == userID
}

// HasCapacity returns true if another player fits
func (g *PublicGame) HasCapacity(count int) bool {
	return count < g.MaxPlayers
}

// StatusForCount derives open/full from the participant count.
// Closed and cancelled games keep their status.
func (g *PublicGame) StatusForCount(count int) GameStatus {
	if g.IsTerminal() {
		return g.Status
	}
	if count >= g.MaxPlayers {
		return GameStatusFull
	}
	return GameStatusOpen
}

// GameParticipant is one roster entry
type GameParticipant struct {
	GameID   int64
	UserID   int64
	Status   ParticipantStatus
	JoinedAt time.Time
}

// GameWithParticipants is a game together with its roster
type GameWithParticipants struct {
	Game         *PublicGame
	Participants []*GameParticipant
}

// GamesFilter фильтр для просмотра открытых игр
type GamesFilter struct {
	DateFrom   *time.Time  // Начало периода (опционально)
	DateTo     *time.Time  // Конец периода (опционально)
	SkillLevel *SkillLevel // Уровень игры (опционально)
	CourtID    *int64      // Корт (опционально)
	Limit      int
	Offset     int
}

// GameListItem is a browsable game with the slot it is played in
type GameListItem struct {
	Game      *PublicGame
	CourtID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// GameOptions are the host's choices when opening a booking as a public game
type GameOptions struct {
	Title       string
	Description *string
	MaxPlayers  int
	SkillLevel  SkillLevel
}

// Normalize trims the title, defaults the skill level to any and validates the options
func (o *GameOptions) Normalize() error {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return fmt.Errorf("game title is required")
	}
	if utf8.RuneCountInString(o.Title) > MaxGameTitleLength {
		return fmt.Errorf("game title exceeds %d characters", MaxGameTitleLength)
	}
	if o.MaxPlayers < MinPlayers || o.MaxPlayers > MaxPlayers {
		return fmt.Errorf("maxPlayers must be between %d and %d", MinPlayers, MaxPlayers)
	}
	if o.SkillLevel == "" {
		o.SkillLevel = SkillAny
	}
	if !o.SkillLevel.IsValid() {
		return fmt.Errorf("unknown skill level %q", o.SkillLevel)
	}
	return nil
}
