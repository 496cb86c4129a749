package join_game

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/internal/api/handlers"
	"github.com/Abhijat05/QuickCourt-sub001/internal/api/middleware"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster"
	"github.com/Abhijat05/QuickCourt-sub001/internal/service/roster/models"
	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
)

type fakeRoster struct {
	err       error
	gotGameID int64
	gotUserID int64
}

func (f *fakeRoster) Join(_ context.Context, gameID, userID int64) (*models.GameResponse, error) {
	f.gotGameID, f.gotUserID = gameID, userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.GameResponse{ID: gameID, MaxPlayers: 4, CurrentPlayers: 2, Status: "open"}, nil
}

func serve(t *testing.T, svc RosterService, path string, userID string) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/games/{gameId}/join", NewHandler(svc, logger.Nop()).Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeRoster{}
	rec := serve(t, svc, "/games/5/join", "42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.gotGameID)
	assert.Equal(t, int64(42), svc.gotUserID)

	var body models.GameResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.CurrentPlayers)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", roster.ErrGameNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{"not joinable", fmt.Errorf("Join: %w", roster.ErrGameNotJoinable), http.StatusNotFound, handlers.CodeGameNotJoinable},
		{"full", roster.ErrGameFull, http.StatusConflict, handlers.CodeGameFull},
		{"already member", roster.ErrAlreadyMember, http.StatusConflict, handlers.CodeAlreadyMember},
		{"internal", roster.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeRoster{err: tt.err}, "/games/5/join", "42")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	rec := serve(t, &fakeRoster{}, "/games/abc/join", "42")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, &fakeRoster{}, "/games/5/join", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
