// Package server exposes the game service over HTTP: a small JSON API for
// accounts and tables, and a websocket per seat for play.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jhtschultz/canasta/engine"
	"github.com/jhtschultz/canasta/internal/auth"
	"github.com/jhtschultz/canasta/internal/cache"
	"github.com/jhtschultz/canasta/internal/config"
	"github.com/jhtschultz/canasta/internal/database"
	"github.com/jhtschultz/canasta/internal/game"
	"github.com/jhtschultz/canasta/internal/models"
)

const writeTimeout = 5 * time.Second

// Server owns the running tables and their websocket connections.
type Server struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     *database.Store
	snapshots *cache.Snapshots

	mu    sync.Mutex
	games map[uuid.UUID]*game.CanastaGame
	conns map[uuid.UUID]*tableConns
}

// tableConns tracks the live websocket per seat of one table.
type tableConns struct {
	mu    sync.Mutex
	seats [engine.NumPlayers]*websocket.Conn
}

// New builds a Server. store and snapshots may be nil.
func New(cfg *config.Config, log *logrus.Logger, store *database.Store, snapshots *cache.Snapshots) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		store:     store,
		snapshots: snapshots,
		games:     make(map[uuid.UUID]*game.CanastaGame),
		conns:     make(map[uuid.UUID]*tableConns),
	}
}

// Router wires up all HTTP routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)
	api.GET("/games", s.handleListGames)

	authed := api.Group("", s.authRequired)
	authed.POST("/games", s.handleCreateGame)
	authed.POST("/games/:id/join", s.handleJoinGame)

	r.GET("/ws/:id", s.handleWebsocket)
	return r
}

// authRequired validates the bearer token and stores the user id in the
// request context.
func (s *Server) authRequired(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}
	userID, err := auth.ParseToken(s.cfg.JWTSecret, token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.Set("user_id", userID)
}

type credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	hash, err := auth.HashPassword(creds.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hashing failed"})
		return
	}
	user, err := s.store.CreateUser(c.Request.Context(), creds.Email, hash)
	if err != nil {
		s.log.WithError(err).Warn("register failed")
		c.JSON(http.StatusConflict, gin.H{"error": "could not create user"})
		return
	}
	token, err := auth.CreateToken(s.cfg.JWTSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	user, err := s.store.GetUserByEmail(c.Request.Context(), creds.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, creds.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
		return
	}
	token, err := auth.CreateToken(s.cfg.JWTSecret, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "token": token})
}

func (s *Server) handleListGames(c *gin.Context) {
	records, err := s.store.ListRecentGames(c.Request.Context(), 50)
	if err != nil {
		s.log.WithError(err).Error("list games")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history unavailable"})
		return
	}
	if records == nil {
		records = []models.GameRecord{} // marshal an empty array, not null
	}
	c.JSON(http.StatusOK, gin.H{"games": records})
}

// handleCreateGame opens a new table and seats the creator.
func (s *Server) handleCreateGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	rules := engine.DefaultRules()
	rules.TargetScore = s.cfg.TargetScore
	g := game.NewCanastaGame(rules, time.Now().UnixNano(), s.store, s.snapshots, s.log)
	g.TurnDuration = time.Duration(s.cfg.TurnTimerSec) * time.Second

	tc := &tableConns{}
	g.BroadcastFn = func(ev game.GameEvent) { tc.broadcast(s.log, ev) }
	g.BroadcastToSeatFn = func(seat int, ev game.GameEvent) { tc.send(s.log, seat, ev) }
	g.OnGameEnd = func(gameID uuid.UUID, _ models.GameRecord) {
		s.mu.Lock()
		delete(s.games, gameID)
		delete(s.conns, gameID)
		s.mu.Unlock()
	}

	seat, err := g.AddPlayer(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not seat creator"})
		return
	}

	s.mu.Lock()
	s.games[g.ID] = g
	s.conns[g.ID] = tc
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"game_id": g.ID, "user_id": userID}).Info("game created")
	c.JSON(http.StatusCreated, gin.H{"id": g.ID, "seat": seat, "players": s.playersOf(g)})
}

// handleJoinGame seats a user; the fourth seat starts the game.
func (s *Server) handleJoinGame(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)
	g, ok := s.lookupGame(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}

	seat, err := g.AddPlayer(userID)
	switch {
	case errors.Is(err, game.ErrSeatOccupied):
		// Rejoining is idempotent.
		g.Mu.Lock()
		seat = g.SeatOf[userID]
		g.Mu.Unlock()
	case errors.Is(err, game.ErrGameFull):
		c.JSON(http.StatusConflict, gin.H{"error": "game is full"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not join"})
		return
	}

	if g.Seated() == engine.NumPlayers {
		if err := g.Start(); err != nil {
			s.log.WithError(err).Error("start game")
		}
	}
	c.JSON(http.StatusOK, gin.H{"id": g.ID, "seat": seat, "players": s.playersOf(g)})
}

// playersOf lists a table's seated players with their connection status.
func (s *Server) playersOf(g *game.CanastaGame) []models.Player {
	s.mu.Lock()
	tc := s.conns[g.ID]
	s.mu.Unlock()

	players := g.Players()
	if tc != nil {
		tc.mu.Lock()
		for i := range players {
			players[i].Connected = tc.seats[players[i].Seat] != nil
		}
		tc.mu.Unlock()
	}
	return players
}

// handleWebsocket upgrades a seated user's connection and runs the read
// loop. Auth rides in the token query param because browsers cannot set
// headers on websocket upgrades.
func (s *Server) handleWebsocket(c *gin.Context) {
	userID, err := auth.ParseToken(s.cfg.JWTSecret, c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	g, ok := s.lookupGame(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such game"})
		return
	}
	g.Mu.Lock()
	seat, seated := g.SeatOf[userID]
	g.Mu.Unlock()
	if !seated {
		c.JSON(http.StatusForbidden, gin.H{"error": "not seated at this game"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}

	s.mu.Lock()
	tc := s.conns[g.ID]
	s.mu.Unlock()
	if tc == nil {
		conn.Close(websocket.StatusGoingAway, "game gone")
		return
	}
	tc.bind(seat, conn)
	defer tc.unbind(seat, conn)

	log := s.log.WithFields(logrus.Fields{"game_id": g.ID, "seat": seat})
	log.Info("websocket connected")
	g.SyncSeat(seat)

	ctx := c.Request.Context()
	for {
		var msg struct {
			Action *uint16 `json:"action"`
		}
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			log.WithError(err).Info("websocket closed")
			conn.Close(websocket.StatusNormalClosure, "bye")
			return
		}
		if msg.Action == nil {
			continue
		}
		if err := g.HandleAction(userID, engine.ActionID(*msg.Action)); err != nil {
			writeEvent(ctx, s.log, conn, game.GameEvent{
				Type:    "error",
				Payload: map[string]interface{}{"error": err.Error()},
			})
		}
	}
}

// lookupGame resolves a path id to a running table.
func (s *Server) lookupGame(raw string) (*game.CanastaGame, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	return g, ok
}

func (tc *tableConns) bind(seat int, conn *websocket.Conn) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.seats[seat] = conn
}

func (tc *tableConns) unbind(seat int, conn *websocket.Conn) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.seats[seat] == conn {
		tc.seats[seat] = nil
	}
}

// broadcast writes an event to every connected seat.
func (tc *tableConns) broadcast(log *logrus.Logger, ev game.GameEvent) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for _, conn := range tc.seats {
		if conn == nil {
			continue
		}
		writeEvent(context.Background(), log, conn, ev)
	}
}

// send writes an event to a single seat, if connected.
func (tc *tableConns) send(log *logrus.Logger, seat int, ev game.GameEvent) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if conn := tc.seats[seat]; conn != nil {
		writeEvent(context.Background(), log, conn, ev)
	}
}

func writeEvent(ctx context.Context, log *logrus.Logger, conn *websocket.Conn, ev game.GameEvent) {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(wctx, conn, ev); err != nil {
		log.WithError(err).Debug("websocket write failed")
	}
}
