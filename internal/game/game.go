// Package game wraps the rules engine in a service-side table: seats bound
// to user ids, chance-outcome sampling, turn timers, event broadcasting,
// and persistence of finished games.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jhtschultz/canasta/engine"
	"github.com/jhtschultz/canasta/internal/cache"
	"github.com/jhtschultz/canasta/internal/database"
	"github.com/jhtschultz/canasta/internal/models"
)

// Service-side errors surfaced to the transport layer.
var (
	ErrGameFull     = errors.New("game is full")
	ErrNotSeated    = errors.New("user is not seated at this game")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrNotStarted   = errors.New("game has not started")
	ErrAlreadyOver  = errors.New("game is over")
	ErrSeatOccupied = errors.New("user is already seated")
)

// OnGameEndFunc is called once when a game finishes, after the result has
// been persisted.
type OnGameEndFunc func(gameID uuid.UUID, rec models.GameRecord)

// CanastaGame is one four-seat table. The engine state is authoritative;
// the wrapper samples chance outcomes (the engine never rolls dice itself),
// relays player actions, and narrates the game to connected clients.
type CanastaGame struct {
	ID uuid.UUID

	Rules  engine.Rules
	Engine *engine.GameState

	Seats  [engine.NumPlayers]uuid.UUID // seat index -> user id
	SeatOf map[uuid.UUID]int            // user id -> seat index
	seated int

	Started  bool
	GameOver bool

	// TurnID increments on every turn broadcast; timer callbacks compare it
	// so a stale timer never acts on a later turn.
	TurnID       int
	TurnDuration time.Duration // 0 disables the turn timer
	turnTimer    *time.Timer

	rng *rand.Rand
	Mu  sync.Mutex
	log *logrus.Entry

	// Communication callbacks, set by the transport before Start.
	BroadcastFn       func(ev GameEvent)           // all seats
	BroadcastToSeatFn func(seat int, ev GameEvent) // one seat
	OnGameEnd         OnGameEndFunc

	store     *database.Store  // nil disables persistence
	snapshots *cache.Snapshots // nil disables crash-resume snapshots
}

// NewCanastaGame creates an empty table. The seed drives chance-outcome
// sampling only; replaying the same seed against the same action sequence
// reproduces the game.
func NewCanastaGame(rules engine.Rules, seed int64, store *database.Store, snapshots *cache.Snapshots, logger *logrus.Logger) *CanastaGame {
	if logger == nil {
		logger = logrus.New()
	}
	id := uuid.New()
	return &CanastaGame{
		ID:        id,
		Rules:     rules,
		SeatOf:    make(map[uuid.UUID]int),
		rng:       rand.New(rand.NewSource(seed)),
		log:       logger.WithField("game_id", id),
		store:     store,
		snapshots: snapshots,
	}
}

// AddPlayer binds a user to the next free seat and returns it.
func (g *CanastaGame) AddPlayer(userID uuid.UUID) (int, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if _, ok := g.SeatOf[userID]; ok {
		return 0, ErrSeatOccupied
	}
	if g.seated >= engine.NumPlayers {
		return 0, ErrGameFull
	}
	seat := g.seated
	g.Seats[seat] = userID
	g.SeatOf[userID] = seat
	g.seated++
	g.log.WithFields(logrus.Fields{"user_id": userID, "seat": seat}).Info("player seated")
	return seat, nil
}

// Seated returns the number of bound seats.
func (g *CanastaGame) Seated() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.seated
}

// Start deals the first hand. All four seats must be bound.
func (g *CanastaGame) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started {
		return nil
	}
	if g.seated != engine.NumPlayers {
		return fmt.Errorf("need %d players, have %d", engine.NumPlayers, g.seated)
	}

	g.Engine = engine.NewGameState(g.Rules)
	g.Started = true
	g.log.WithField("target_score", g.Rules.TargetScore).Info("game started")

	g.broadcast(GameEvent{Type: EventGameStart})
	g.resolveChanceLocked()
	g.afterAdvanceLocked()
	return nil
}

// Resume restores a game from its cached snapshot after a service restart.
// Seat bindings must be re-established by the caller before play continues.
func (g *CanastaGame) Resume(ctx context.Context) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	blob, err := g.snapshots.Load(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("resume game: %w", err)
	}
	state, err := engine.Deserialize(blob)
	if err != nil {
		return fmt.Errorf("resume game: %w", err)
	}
	g.Engine = state
	g.Rules = state.Rules
	g.Started = true
	g.log.WithField("hand", state.HandNumber).Info("game resumed from snapshot")
	return nil
}

// HandleAction applies one wire action on behalf of a user. Legality is the
// engine's call; the wrapper only checks seating and turn ownership.
func (g *CanastaGame) HandleAction(userID uuid.UUID, id engine.ActionID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if !g.Started {
		return ErrNotStarted
	}
	if g.GameOver {
		return ErrAlreadyOver
	}
	seat, ok := g.SeatOf[userID]
	if !ok {
		return ErrNotSeated
	}
	if g.Engine.CurrentPlayerID() != seat {
		return ErrNotYourTurn
	}

	if err := g.Engine.ApplyAction(id); err != nil {
		g.log.WithFields(logrus.Fields{"seat": seat, "action": id}).WithError(err).Warn("action rejected")
		return err
	}
	g.log.WithFields(logrus.Fields{
		"seat":   seat,
		"action": engine.ActionString(seat, id),
	}).Info("action applied")

	g.broadcast(GameEvent{
		Type:   eventTypeForAction(id),
		User:   &EventUser{ID: userID, Seat: seat},
		Action: &id,
	})
	if id == engine.ActionDrawStock {
		if hand := g.Engine.Hands[seat]; len(hand) > 0 {
			g.sendPrivateDraw(seat, hand[len(hand)-1])
		}
		g.sendSeatView(seat)
	}

	g.afterAdvanceLocked()
	return nil
}

// afterAdvanceLocked runs the common post-action sequence: trigger any
// pending stock-exhaustion finalization, deal the next hand if one started,
// finish the game if it ended, and otherwise announce the turn. It also
// refreshes the cached snapshot.
func (g *CanastaGame) afterAdvanceLocked() {
	// Querying legal actions runs the engine's stock-exhaustion check.
	g.Engine.LegalActions()

	if g.Engine.IsTerminal() {
		g.endGameLocked()
		return
	}

	if g.Engine.IsChanceNode() {
		// The previous hand ended and a fresh one needs dealing.
		g.broadcast(GameEvent{
			Type: EventHandEnd,
			Payload: map[string]interface{}{
				"team_scores": g.Engine.TeamScores,
				"hand_number": g.Engine.HandNumber,
			},
		})
		g.resolveChanceLocked()
		if g.Engine.IsTerminal() {
			g.endGameLocked()
			return
		}
	}

	g.saveSnapshotLocked()
	g.announceTurnLocked()
}

// resolveChanceLocked plays the chance actor: it samples dealing outcomes
// with the table's RNG until a player is to act, then sends every seat its
// private hand.
func (g *CanastaGame) resolveChanceLocked() {
	for g.Engine.IsChanceNode() {
		outcomes := g.Engine.ChanceOutcomes()
		if len(outcomes) == 0 {
			break
		}
		pick := outcomes[g.rng.Intn(len(outcomes))]
		if err := g.Engine.ApplyAction(pick.Action); err != nil {
			g.log.WithError(err).Error("chance action rejected")
			return
		}
	}
	g.broadcast(GameEvent{
		Type:    EventHandStart,
		Payload: map[string]interface{}{"hand_number": g.Engine.HandNumber},
	})
	for seat := 0; seat < engine.NumPlayers; seat++ {
		g.sendSeatView(seat)
	}
}

// announceTurnLocked broadcasts whose turn it is and arms the turn timer.
func (g *CanastaGame) announceTurnLocked() {
	g.TurnID++
	seat := g.Engine.CurrentPlayerID()
	if seat < 0 {
		return
	}
	g.broadcast(GameEvent{
		Type: EventPlayerTurn,
		User: &EventUser{ID: g.Seats[seat], Seat: seat},
		Payload: map[string]interface{}{
			"phase": g.Engine.Phase.String(),
		},
	})
	g.sendSeatView(seat)
	g.scheduleTurnTimerLocked()
}

// scheduleTurnTimerLocked arms the auto-play timer for the current turn.
func (g *CanastaGame) scheduleTurnTimerLocked() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	if g.TurnDuration <= 0 {
		return
	}
	turnID := g.TurnID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		g.autoPlay(turnID)
	})
}

// autoPlay acts for a player whose turn timer expired: the least committal
// legal action — draw, skip melding, refuse a go-out query, or discard the
// first card.
func (g *CanastaGame) autoPlay(turnID int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.GameOver || turnID != g.TurnID {
		return
	}
	seat := g.Engine.CurrentPlayerID()
	if seat < 0 {
		return
	}

	legal := g.Engine.LegalActions()
	if g.Engine.IsTerminal() {
		g.endGameLocked()
		return
	}
	if len(legal) == 0 {
		g.afterAdvanceLocked()
		return
	}

	id := legal[0]
	for _, candidate := range []engine.ActionID{engine.ActionDrawStock, engine.ActionSkipMeld, engine.ActionAnswerNo} {
		for _, l := range legal {
			if l == candidate {
				id = candidate
			}
		}
	}
	g.log.WithFields(logrus.Fields{"seat": seat, "action": id}).Info("turn timer expired, auto-playing")

	if err := g.Engine.ApplyAction(id); err != nil {
		g.log.WithError(err).Error("auto-play rejected")
		return
	}
	g.broadcast(GameEvent{
		Type:   eventTypeForAction(id),
		User:   &EventUser{ID: g.Seats[seat], Seat: seat},
		Action: &id,
	})
	g.afterAdvanceLocked()
}

// endGameLocked persists the result, clears the snapshot, and notifies.
func (g *CanastaGame) endGameLocked() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}

	rec := models.GameRecord{
		ID:          g.ID,
		HandsPlayed: g.Engine.HandNumber + 1,
		Team0Score:  g.Engine.TeamScores[0],
		Team1Score:  g.Engine.TeamScores[1],
		WinningTeam: g.Engine.WinningTeam,
		FinishedAt:  time.Now(),
	}
	g.log.WithFields(logrus.Fields{
		"winning_team": rec.WinningTeam,
		"team0_score":  rec.Team0Score,
		"team1_score":  rec.Team1Score,
		"hands":        rec.HandsPlayed,
	}).Info("game over")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := g.store.InsertGameResult(ctx, rec); err != nil {
		g.log.WithError(err).Error("persist game result")
	}
	if err := g.snapshots.Delete(ctx, g.ID); err != nil {
		g.log.WithError(err).Warn("delete snapshot")
	}

	g.broadcast(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winning_team": rec.WinningTeam,
			"team_scores":  g.Engine.TeamScores,
			"returns":      g.Engine.Returns(),
		},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, rec)
	}
}

// saveSnapshotLocked refreshes the cached engine blob.
func (g *CanastaGame) saveSnapshotLocked() {
	if g.snapshots == nil {
		return
	}
	blob, err := g.Engine.Serialize()
	if err != nil {
		g.log.WithError(err).Error("serialize snapshot")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.snapshots.Save(ctx, g.ID, blob); err != nil {
		g.log.WithError(err).Warn("save snapshot")
	}
}

// SeatViewFor builds the seat's private view of the current state.
func (g *CanastaGame) SeatViewFor(seat int) *SeatView {
	view := &SeatView{
		Seat:        seat,
		Hand:        append([]engine.Card(nil), g.Engine.Hands[seat]...),
		TeamScores:  g.Engine.TeamScores,
		HandNumber:  g.Engine.HandNumber,
		CurrentSeat: g.Engine.CurrentPlayerID(),
		Phase:       g.Engine.Phase.String(),
		StockSize:   len(g.Engine.Stock),
	}
	for p := 0; p < engine.NumPlayers; p++ {
		view.HandCounts[p] = len(g.Engine.Hands[p])
	}
	for team := 0; team < engine.NumTeams; team++ {
		view.Melds[team] = append([]engine.Meld(nil), g.Engine.Melds[team]...)
		view.RedThrees[team] = len(g.Engine.RedThrees[team])
	}
	if top, ok := g.Engine.DiscardTop(); ok {
		c := top
		view.DiscardTop = &c
	}
	if g.Engine.CurrentPlayerID() == seat {
		view.LegalIDs = g.Engine.LegalActions()
	}
	return view
}

// SyncSeat pushes a fresh private view to one seat, e.g. on reconnect.
func (g *CanastaGame) SyncSeat(seat int) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Engine == nil || seat < 0 || seat >= engine.NumPlayers {
		return
	}
	g.sendSeatView(seat)
}

// sendPrivateDraw tells one seat which card it just drew. Public listeners
// only see the draw event itself.
func (g *CanastaGame) sendPrivateDraw(seat int, c engine.Card) {
	if g.BroadcastToSeatFn == nil {
		return
	}
	g.BroadcastToSeatFn(seat, GameEvent{
		Type:    EventPrivateDraw,
		Payload: map[string]interface{}{"card": c},
	})
}

// Players lists the bound seats in seat order. Connection status is the
// transport's to fill in.
func (g *CanastaGame) Players() []models.Player {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	players := make([]models.Player, 0, g.seated)
	for seat := 0; seat < g.seated; seat++ {
		players = append(players, models.Player{ID: g.Seats[seat], Seat: seat})
	}
	return players
}

// sendSeatView pushes a private sync event to one seat.
func (g *CanastaGame) sendSeatView(seat int) {
	if g.BroadcastToSeatFn == nil {
		return
	}
	g.BroadcastToSeatFn(seat, GameEvent{
		Type: EventPrivateSync,
		View: g.SeatViewFor(seat),
	})
}

// broadcast pushes a public event to every seat.
func (g *CanastaGame) broadcast(ev GameEvent) {
	if g.BroadcastFn == nil {
		return
	}
	g.BroadcastFn(ev)
}
