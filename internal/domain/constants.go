package domain

// Default configuration values
const (
	DefaultOpeningTime     = "06:00"
	DefaultClosingTime     = "22:00"
	SlotGranularityMinutes = 60
)

// Business validation constants
const (
	MinPlayers          = 2
	MaxPlayers          = 50
	MaxGameTitleLength  = 120
	DefaultGamesPerPage = 20
	MaxGamesPerPage     = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
