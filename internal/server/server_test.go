package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhtschultz/canasta/internal/auth"
	"github.com/jhtschultz/canasta/internal/config"
)

// newTestServer returns a server with no database or cache attached.
func newTestServer() *Server {
	cfg := config.Defaults()
	cfg.TurnTimerSec = 0 // no timers during tests
	return New(cfg, nil, nil, nil)
}

func bearerFor(t *testing.T, s *Server) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := auth.CreateToken(s.cfg.JWTSecret, userID)
	require.NoError(t, err)
	return "Bearer " + token, userID
}

func TestHealthz(t *testing.T) {
	router := newTestServer().Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateGameRequiresAuth(t *testing.T) {
	router := newTestServer().Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndJoinGame(t *testing.T) {
	s := newTestServer()
	router := s.Router()

	creator, _ := bearerFor(t, s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.Header.Set("Authorization", creator)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID   uuid.UUID `json:"id"`
		Seat int       `json:"seat"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 0, created.Seat)

	// Three more players fill the table; the last join starts the game.
	for i := 1; i < 4; i++ {
		token, _ := bearerFor(t, s)
		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/games/%s/join", created.ID), nil)
		req.Header.Set("Authorization", token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var joined struct {
			Seat int `json:"seat"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
		assert.Equal(t, i, joined.Seat)
	}

	g, ok := s.lookupGame(created.ID.String())
	require.True(t, ok)
	assert.True(t, g.Started)

	// A fifth player is turned away.
	token, _ := bearerFor(t, s)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/games/%s/join", created.ID), nil)
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestJoinRejoinIsIdempotent(t *testing.T) {
	s := newTestServer()
	router := s.Router()

	creator, _ := bearerFor(t, s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/games", nil)
	req.Header.Set("Authorization", creator)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/games/%s/join", created.ID), nil)
	req.Header.Set("Authorization", creator)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var joined struct {
		Seat int `json:"seat"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joined))
	assert.Equal(t, 0, joined.Seat)
}

func TestJoinUnknownGame(t *testing.T) {
	s := newTestServer()
	router := s.Router()
	token, _ := bearerFor(t, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/games/%s/join", uuid.New()), nil)
	req.Header.Set("Authorization", token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListGamesWithoutDatabase(t *testing.T) {
	router := newTestServer().Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"games":[]}`, w.Body.String())
}

func TestRegisterWithoutDatabase(t *testing.T) {
	router := newTestServer().Router()

	body, _ := json.Marshal(map[string]string{"email": "a@b.c", "password": "hunter2"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// No persistence configured: account creation is refused, not dropped.
	assert.Equal(t, http.StatusConflict, w.Code)
}
