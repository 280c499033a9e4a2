package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/atbackgammon/internal/auth"
	"github.com/justinabrahms/atbackgammon/internal/config"
	"github.com/justinabrahms/atbackgammon/internal/game"
	"github.com/justinabrahms/atbackgammon/internal/ids"
	"github.com/justinabrahms/atbackgammon/internal/lobby"
	"github.com/justinabrahms/atbackgammon/internal/record"
	"github.com/justinabrahms/atbackgammon/internal/rules"
	"github.com/justinabrahms/atbackgammon/internal/turnclock"
)

var (
	ErrMovesRemaining = errors.New("legal moves remain")
	ErrTurnNotExpired = errors.New("turn has not expired")
	ErrOwnTimeout     = errors.New("cannot claim your own timeout")
	errBadRequest     = errors.New("bad request")
)

// Options are the collaborators a Service drives.
type Options struct {
	Store    *lobby.Store
	Registry *rules.Registry
	Issuer   *auth.Issuer
	Clock    *turnclock.Clock
	Hub      *Hub
	Random   game.RandomSource
	IDs      ids.Allocator
}

type Service struct {
	config   *config.Config
	store    *lobby.Store
	registry *rules.Registry
	issuer   *auth.Issuer
	clock    *turnclock.Clock
	hub      *Hub
	random   game.RandomSource
	ids      ids.Allocator
	now      func() time.Time

	// records are appended to under the owning game's lock
	recordsMu sync.RWMutex
	records   map[string]*record.Record
}

func NewService(cfg *config.Config, opts Options) *Service {
	s := &Service{
		config:   cfg,
		store:    opts.Store,
		registry: opts.Registry,
		issuer:   opts.Issuer,
		clock:    opts.Clock,
		hub:      opts.Hub,
		random:   opts.Random,
		ids:      opts.IDs,
		now:      time.Now,
		records:  make(map[string]*record.Record),
	}
	if s.random == nil {
		s.random = game.MathRandom{}
	}
	if s.ids == nil {
		s.ids = ids.UUID{}
	}
	if s.clock == nil {
		s.clock = turnclock.New(cfg.Turn.Limit())
	}
	return s
}

// Routes registers the API on r. Mutating routes require a player token.
func (s *Service) Routes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HealthHandler).Methods("GET")
	api.HandleFunc("/players", s.CreatePlayerHandler).Methods("POST")
	api.HandleFunc("/players/{id}", s.GetPlayerHandler).Methods("GET")
	api.HandleFunc("/games", s.GetActiveGamesHandler).Methods("GET")
	api.HandleFunc("/games/{id}", s.GetGameHandler).Methods("GET")
	api.HandleFunc("/games/{id}/record", s.GetRecordHandler).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(s.issuer.Middleware)
	authed.HandleFunc("/matches", s.CreateMatchHandler).Methods("POST")
	authed.HandleFunc("/matches/{id}/join", s.JoinMatchHandler).Methods("POST")
	authed.HandleFunc("/matches/{id}/game", s.CreateGameHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/start", s.StartGameHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/roll", s.RollDiceHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/moves", s.MakeMoveHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/undo", s.UndoTurnHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/confirm", s.ConfirmTurnHandler).Methods("POST")
	authed.HandleFunc("/games/{id}/timeout", s.ClaimTimeoutHandler).Methods("POST")

	if s.hub != nil {
		r.HandleFunc("/ws", s.WebSocketHandler(s.hub))
	}
}

// CORS lets browser clients on any origin call the API.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lobby.ErrPlayerNotFound),
		errors.Is(err, lobby.ErrMatchNotFound),
		errors.Is(err, lobby.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, rules.ErrNotYourTurn),
		errors.Is(err, game.ErrNotParticipant),
		errors.Is(err, ErrOwnTimeout):
		return http.StatusForbidden
	case errors.Is(err, rules.ErrIllegalMove),
		errors.Is(err, rules.ErrUnknownRule),
		errors.Is(err, game.ErrNoSuchMove),
		errors.Is(err, game.ErrOutOfRange),
		errors.Is(err, game.ErrInvalidLocation),
		errors.Is(err, game.ErrEmptyContainer),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrSlotOccupied),
		errors.Is(err, game.ErrPlayerBusy),
		errors.Is(err, game.ErrAlreadyStarted),
		errors.Is(err, game.ErrMissingPlayers),
		errors.Is(err, game.ErrNotStarted),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNoTurnPlayer),
		errors.Is(err, game.ErrDiceNotRolled),
		errors.Is(err, game.ErrDiceAlreadyRolled),
		errors.Is(err, game.ErrTurnConfirmed),
		errors.Is(err, game.ErrTurnNotConfirmed),
		errors.Is(err, lobby.ErrDuplicateID),
		errors.Is(err, turnclock.ErrDisabled),
		errors.Is(err, turnclock.ErrUnknownGame),
		errors.Is(err, ErrMovesRemaining),
		errors.Is(err, ErrTurnNotExpired):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		http.Error(w, "Internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func callerID(r *http.Request) string {
	id, _ := auth.PlayerID(r.Context())
	return id
}

// participant resolves a player id to the session's own player.
func participant(s *game.Session, playerID string) (*game.Player, error) {
	for _, p := range s.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return nil, game.ErrNotParticipant
}

func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"rules":          s.registry.Names(),
		"secondsPerTurn": int(s.clock.Limit() / time.Second),
	})
}

type CreatePlayerRequest struct {
	Name string `json:"name"`
}

type CreatePlayerResponse struct {
	Player PlayerView `json:"player"`
	Token  string     `json:"token"`
}

func (s *Service) CreatePlayerHandler(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	p := game.NewPlayer(s.ids.Next(), name)
	if err := s.store.AddPlayer(p); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := s.issuer.Issue(p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("playerID", p.ID).Str("name", name).Msg("Player created")
	writeJSON(w, http.StatusCreated, CreatePlayerResponse{Player: newPlayerView(*p), Token: token})
}

func (s *Service) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Player(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlayerView(p))
}

type CreateMatchRequest struct {
	RuleName string `json:"ruleName"`
}

func (s *Service) CreateMatchHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ruleName := req.RuleName
	if ruleName == "" {
		ruleName = s.config.Game.DefaultRule
	}
	engine, err := s.registry.Lookup(ruleName)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.checkFree(callerID(r)); err != nil {
		writeError(w, r, err)
		return
	}

	m := game.NewMatch(s.ids.Next(), engine.Name())
	if err := s.store.AddMatch(m); err != nil {
		writeError(w, r, err)
		return
	}
	var view MatchView
	err = s.store.UpdateMatch(m.ID, func(m *game.Match, ps []*game.Player) error {
		if err := m.AddHost(ps[0]); err != nil {
			return err
		}
		view = newMatchView(m)
		return nil
	}, callerID(r))
	if err != nil {
		s.store.RemoveMatch(m.ID)
		writeError(w, r, err)
		return
	}

	log.Info().Str("matchID", m.ID).Str("playerID", callerID(r)).Str("rule", engine.Name()).Msg("Match created")
	writeJSON(w, http.StatusCreated, view)
}

func (s *Service) JoinMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]
	playerID := callerID(r)

	if err := s.checkFree(playerID); err != nil {
		writeError(w, r, err)
		return
	}

	var view MatchView
	err := s.store.UpdateMatch(matchID, func(m *game.Match, ps []*game.Player) error {
		if m.Host != nil && m.Host.ID == playerID {
			return game.ErrSlotOccupied
		}
		if err := m.AddGuest(ps[0]); err != nil {
			return err
		}
		view = newMatchView(m)
		return nil
	}, playerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("matchID", matchID).Str("playerID", playerID).Msg("Player joined match")
	writeJSON(w, http.StatusOK, view)
}

// CreateGameHandler turns a ready match into a game session.
func (s *Service) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]
	playerID := callerID(r)

	gameID, err := s.store.CreateGame(matchID, func(m *game.Match) (*game.Session, rules.Engine, error) {
		if (m.Host == nil || m.Host.ID != playerID) && (m.Guest == nil || m.Guest.ID != playerID) {
			return nil, nil, game.ErrNotParticipant
		}
		if !m.IsReady() {
			return nil, nil, game.ErrMissingPlayers
		}
		for _, p := range m.Players {
			if p.GameID != "" {
				return nil, nil, fmt.Errorf("%w: %s is in %s", game.ErrPlayerBusy, p.ID, p.GameID)
			}
		}
		engine, err := s.registry.Lookup(m.RuleName)
		if err != nil {
			return nil, nil, err
		}
		sess := game.NewSession(s.ids.Next(), engine)
		if err := sess.AddHostPlayer(m.Host); err != nil {
			return nil, nil, err
		}
		if err := sess.AddGuestPlayer(m.Guest); err != nil {
			return nil, nil, err
		}
		s.recordsMu.Lock()
		s.records[sess.ID] = record.New(sess)
		s.recordsMu.Unlock()
		return sess, engine, nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("matchID", matchID).Msg("Game created")
	s.respondWithGame(w, r, http.StatusCreated, gameID, playerID)
}

func (s *Service) respondWithGame(w http.ResponseWriter, r *http.Request, status int, gameID, playerID string) {
	var view GameView
	err := s.store.View(gameID, func(sess *game.Session, rule rules.Engine) {
		view = s.newGameView(sess, rule, playerID)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

// GetGameHandler returns the game. Callers with a valid token also get their own
// turn state and legal moves.
func (s *Service) GetGameHandler(w http.ResponseWriter, r *http.Request) {
	playerID, _ := s.issuer.FromRequest(r)
	s.respondWithGame(w, r, http.StatusOK, mux.Vars(r)["id"], playerID)
}

// StartGameHandler starts the game and gives the first turn to the host.
func (s *Service) StartGameHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	var hostID string
	err := s.store.Update(gameID, func(sess *game.Session, _ rules.Engine) error {
		if _, err := participant(sess, playerID); err != nil {
			return err
		}
		if err := sess.Start(); err != nil {
			return err
		}
		hostID = sess.Host.ID
		if err := sess.AdvanceTurn(sess.Host); err != nil {
			return err
		}
		s.clock.StartTurn(sess.ID, hostID, s.now())
		s.record(sess.ID).Add(
			record.Entry{Type: record.EntryStart, PlayerID: playerID},
			record.Entry{Type: record.EntryTurn, PlayerID: hostID},
		)
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Msg("Start rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("turnPlayer", hostID).Msg("Game started")
	s.broadcast(gameID, "started", map[string]string{"turnPlayer": hostID})
	s.respondWithGame(w, r, http.StatusOK, gameID, playerID)
}

type RollResponse struct {
	Dice    game.DiceRoll     `json:"dice"`
	CanMove bool              `json:"canMove"`
	Moves   []rules.LegalMove `json:"legalMoves"`
}

func (s *Service) RollDiceHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	var resp RollResponse
	err := s.store.Update(gameID, func(sess *game.Session, rule rules.Engine) error {
		p, err := participant(sess, playerID)
		if err != nil {
			return err
		}
		if !sess.IsPlayerTurn(p) {
			return rules.ErrNotYourTurn
		}
		dice, err := sess.RollDice(s.random)
		if err != nil {
			return err
		}
		s.record(sess.ID).Add(record.Entry{Type: record.EntryRoll, PlayerID: p.ID, Dice: dice.Values})
		resp.Dice = copyDice(dice)
		resp.Moves = rule.LegalMoves(sess, p)
		resp.CanMove = len(resp.Moves) > 0
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Msg("Roll rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("playerID", playerID).Ints("dice", resp.Dice.Values[:]).Bool("canMove", resp.CanMove).Msg("Dice rolled")
	s.broadcast(gameID, "roll", resp.Dice)
	writeJSON(w, http.StatusOK, resp)
}

type MakeMoveRequest struct {
	From  game.Location `json:"from"`
	Value int           `json:"value"`
}

type MakeMoveResponse struct {
	Actions   []game.MoveAction `json:"actions"`
	MovesLeft []int             `json:"movesLeft"`
	GameOver  bool              `json:"gameOver"`
}

func (s *Service) MakeMoveHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	var req MakeMoveRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var resp MakeMoveResponse
	err := s.store.Update(gameID, func(sess *game.Session, rule rules.Engine) error {
		p, err := participant(sess, playerID)
		if err != nil {
			return err
		}
		actions, err := rule.ApplyMove(sess, p, req.From, req.Value)
		if err != nil {
			return err
		}
		if s.config.Development.Debug {
			if err := sess.State.Verify(); err != nil {
				log.Error().Err(err).Str("gameID", sess.ID).Msg("Board audit failed")
			}
		}
		rec := s.record(sess.ID)
		rec.Add(record.Entry{Type: record.EntryMove, PlayerID: p.ID, From: req.From, Value: req.Value})
		resp.Actions = actions
		resp.MovesLeft = append([]int{}, sess.TurnDice.MovesLeft...)
		resp.GameOver = sess.IsOver()
		if resp.GameOver {
			rec.WinnerID = p.ID
			s.clock.Forget(sess.ID)
		}
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Str("from", req.From.String()).Int("value", req.Value).Msg("Move rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("playerID", playerID).Str("from", req.From.String()).Int("value", req.Value).Msg("Move applied")
	s.broadcast(gameID, "move", resp.Actions)
	if resp.GameOver {
		log.Info().Str("gameID", gameID).Str("winner", playerID).Msg("Game finished")
		s.broadcast(gameID, "game_end", map[string]string{"winner": playerID})
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConfirmTurnHandler ends the caller's turn and hands it to the opponent. The turn
// can only end once no legal move is left.
func (s *Service) ConfirmTurnHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	var nextID string
	err := s.store.Update(gameID, func(sess *game.Session, rule rules.Engine) error {
		p, err := participant(sess, playerID)
		if err != nil {
			return err
		}
		if !sess.IsPlayerTurn(p) {
			return rules.ErrNotYourTurn
		}
		if sess.HasMoreMoves() && rules.HasLegalMoves(rule, sess, p) {
			return ErrMovesRemaining
		}
		if err := sess.ConfirmTurn(); err != nil {
			return err
		}
		next := sess.Opponent(p)
		if err := sess.AdvanceTurn(next); err != nil {
			return err
		}
		nextID = next.ID
		// the clock changes hands under the game lock so it always names the
		// session's turn player
		s.clock.StartTurn(sess.ID, nextID, s.now())
		s.record(sess.ID).Add(
			record.Entry{Type: record.EntryConfirm, PlayerID: p.ID},
			record.Entry{Type: record.EntryTurn, PlayerID: nextID},
		)
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Msg("Confirm rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("playerID", playerID).Str("turnPlayer", nextID).Msg("Turn confirmed")
	s.broadcast(gameID, "turn", map[string]string{"turnPlayer": nextID})
	s.respondWithGame(w, r, http.StatusOK, gameID, playerID)
}

// ClaimTimeoutHandler lets the waiting player win a game whose turn player ran out
// of time.
func (s *Service) ClaimTimeoutHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	var violation *turnclock.Violation
	err := s.store.Update(gameID, func(sess *game.Session, _ rules.Engine) error {
		p, err := participant(sess, playerID)
		if err != nil {
			return err
		}
		if sess.IsOver() {
			return game.ErrGameOver
		}
		if sess.IsPlayerTurn(p) {
			return ErrOwnTimeout
		}
		v, err := s.clock.CheckViolation(gameID, s.now())
		if err != nil {
			return err
		}
		if v == nil {
			return ErrTurnNotExpired
		}
		if sess.TurnPlayer == nil || v.PlayerID != sess.TurnPlayer.ID {
			return fmt.Errorf("%w: clock names %s, not the turn player", ErrTurnNotExpired, v.PlayerID)
		}
		violation = v
		if err := sess.Finish(p); err != nil {
			return err
		}
		s.clock.Forget(sess.ID)
		rec := s.record(sess.ID)
		rec.Add(record.Entry{Type: record.EntryFinish, PlayerID: p.ID})
		rec.WinnerID = p.ID
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Msg("Timeout claim rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("winner", playerID).Str("timedOut", violation.PlayerID).Msg("Game won on time")
	s.broadcast(gameID, "game_end", map[string]interface{}{"winner": playerID, "violation": violation})
	s.respondWithGame(w, r, http.StatusOK, gameID, playerID)
}

// checkFree rejects players who are still bound to an unfinished game. Colors are
// per game, so a player plays one game at a time.
func (s *Service) checkFree(playerID string) error {
	p, err := s.store.Player(playerID)
	if err != nil {
		return err
	}
	if p.GameID != "" {
		return fmt.Errorf("%w: %s", game.ErrPlayerBusy, p.GameID)
	}
	return nil
}

// UndoTurnHandler takes back the moves made since the roll. Only the turn player
// may undo, and only before confirming.
func (s *Service) UndoTurnHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	playerID := callerID(r)

	err := s.store.Update(gameID, func(sess *game.Session, _ rules.Engine) error {
		p, err := participant(sess, playerID)
		if err != nil {
			return err
		}
		if !sess.IsPlayerTurn(p) {
			return rules.ErrNotYourTurn
		}
		if err := sess.UndoTurn(); err != nil {
			return err
		}
		s.record(sess.ID).Add(record.Entry{Type: record.EntryUndo, PlayerID: p.ID})
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Str("gameID", gameID).Str("playerID", playerID).Msg("Undo rejected")
		writeError(w, r, err)
		return
	}

	log.Info().Str("gameID", gameID).Str("playerID", playerID).Msg("Turn undone")
	s.broadcast(gameID, "undo", map[string]string{"playerId": playerID})
	s.respondWithGame(w, r, http.StatusOK, gameID, playerID)
}

// record returns the log of a game created by this service. Games registered in
// the store by other means get an empty log on first use.
func (s *Service) record(gameID string) *record.Record {
	s.recordsMu.RLock()
	rec, ok := s.records[gameID]
	s.recordsMu.RUnlock()
	if ok {
		return rec
	}

	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()
	if rec, ok = s.records[gameID]; !ok {
		rec = &record.Record{GameID: gameID}
		s.records[gameID] = rec
	}
	return rec
}

// GetRecordHandler exports the game log as a CAR file. The root CID is returned in
// the X-Record-Root header.
func (s *Service) GetRecordHandler(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]

	var buf bytes.Buffer
	var root string
	var encodeErr error
	err := s.store.View(gameID, func(*game.Session, rules.Engine) {
		c, err := s.record(gameID).WriteCAR(&buf)
		if err != nil {
			encodeErr = err
			return
		}
		root = c.String()
	})
	if err == nil {
		err = encodeErr
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.ipld.car")
	w.Header().Set("X-Record-Root", root)
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) broadcast(gameID, updateType string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastGameUpdate(GameUpdate{GameID: gameID, Type: updateType, Data: data})
}
