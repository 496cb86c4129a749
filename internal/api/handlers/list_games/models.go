package list_games

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Abhijat05/QuickCourt-sub001/internal/domain"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
)

// ToServiceRequest разбирает query параметры фильтра:
// dateFrom, dateTo (YYYY-MM-DD), skillLevel, courtId, limit, offset
func ToServiceRequest(q url.Values) (*models.ListGamesRequest, error) {
	req := &models.ListGamesRequest{}

	if v := q.Get("dateFrom"); v != "" {
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("dateFrom: %w", err)
		}
		req.DateFrom = &d
	}
	if v := q.Get("dateTo"); v != "" {
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("dateTo: %w", err)
		}
		req.DateTo = &d
	}
	if v := q.Get("skillLevel"); v != "" {
		req.SkillLevel = &v
	}
	if v := q.Get("courtId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("courtId: %w", err)
		}
		req.CourtID = &id
	}

	var err error
	if req.Limit, err = intParam(q, "limit"); err != nil {
		return nil, err
	}
	if req.Offset, err = intParam(q, "offset"); err != nil {
		return nil, err
	}
	return req, nil
}

func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}
