package models

import (
	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
)

// CourtResponse корт с действующими часами работы.
// Часы уже разрешены: собственные часы корта либо значения площадки по умолчанию.
type CourtResponse struct {
	ID           int64   `json:"id"`
	VenueID      int64   `json:"venueId"`
	Name         string  `json:"name"`
	SportType    string  `json:"sportType"`
	PricePerHour float64 `json:"pricePerHour"`
	OpeningTime  string  `json:"openingTime"`
	ClosingTime  string  `json:"closingTime"`
	HoursSource  string  `json:"hoursSource"` // "court" или "venue"
	Bookable     bool    `json:"bookable"`    // false, если закрытие не позже открытия
}

// CourtListResponse список кортов площадки
type CourtListResponse struct {
	VenueID int64           `json:"venueId"`
	Courts  []CourtResponse `json:"courts"`
}

const (
	HoursSourceCourt = "court"
	HoursSourceVenue = "venue"
)

// FromDomainCourt конвертирует корт, подставляя часы площадки там, где у корта их нет
func FromDomainCourt(c *domain.Court, defaults domain.OperatingHours) *CourtResponse {
	hours := c.OperatingWindow(defaults)
	source := HoursSourceVenue
	if (c.OpeningTime != nil && !c.OpeningTime.IsZero()) || (c.ClosingTime != nil && !c.ClosingTime.IsZero()) {
		source = HoursSourceCourt
	}
	return &CourtResponse{
		ID:           c.ID,
		VenueID:      c.VenueID,
		Name:         c.Name,
		SportType:    c.SportType,
		PricePerHour: c.PricePerHour,
		OpeningTime:  hours.Opening.String(),
		ClosingTime:  hours.Closing.String(),
		HoursSource:  source,
		Bookable:     hours.Valid(),
	}
}
