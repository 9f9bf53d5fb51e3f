package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"CreeperAttack/internal/config"
	"CreeperAttack/internal/game"
	"CreeperAttack/internal/ui"
)

// ConfigEditor is the slice of config.Service the admin API edits.
type ConfigEditor interface {
	Current() *config.Config
	Validate() []string
	SetTraderLocation(p config.Point) error
	SetLanePoint(id int, kind string, p config.Point) error
}

// Attacker deals world damage on behalf of a player.
type Attacker interface {
	Damage(id game.UnitID, amount float64, attacker string) bool
	Alive(id game.UnitID) bool
}

// Server exposes the admin API and the event stream. Every handler reaches
// game state through the scheduler.
type Server struct {
	manager     *game.ArenaManager
	sched       *game.Scheduler
	config      ConfigEditor
	world       Attacker
	broadcaster *Broadcaster
	ids         *frameIDs
	log         game.Logger
	closing     context.Context
}

func NewServer(m *game.ArenaManager, cfg ConfigEditor, world Attacker, b *Broadcaster, logger game.Logger) *Server {
	if logger == nil {
		logger = game.StdLogger()
	}
	return &Server{
		manager:     m,
		sched:       m.Scheduler(),
		config:      cfg,
		world:       world,
		broadcaster: b,
		ids:         newFrameIDs(),
		log:         logger,
		closing:     context.Background(),
	}
}

// StopStreamsWith ends every open event stream once ctx is done. Hijacked
// connections outlive http.Server.Shutdown otherwise.
func (s *Server) StopStreamsWith(ctx context.Context) { s.closing = ctx }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/arenas/{id}", s.handleStatus)
	mux.HandleFunc("DELETE /api/arenas/{id}", s.handleRemove)
	mux.HandleFunc("POST /api/arenas/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/arenas/{id}/stop", s.handleStop)
	mux.HandleFunc("POST /api/arenas/{id}/players", s.handleJoin)
	mux.HandleFunc("DELETE /api/arenas/{id}/players/{pid}", s.handleLeave)
	mux.HandleFunc("POST /api/arenas/{id}/players/{pid}/death", s.handleDeath)
	mux.HandleFunc("GET /api/arenas/{id}/shop", s.handleShop)
	mux.HandleFunc("POST /api/arenas/{id}/shop/{item}", s.handlePurchase)
	mux.HandleFunc("POST /api/arenas/{id}/units/{unit}/attack", s.handleAttack)
	mux.HandleFunc("POST /api/config/reload", s.handleReload)
	mux.HandleFunc("GET /api/config/validate", s.handleValidate)
	mux.HandleFunc("PUT /api/config/trader", s.handleSetTrader)
	mux.HandleFunc("PUT /api/config/lanes/{lane}/{kind}", s.handleSetLane)
	mux.HandleFunc("GET /ws", s.serveStream)
	return mux
}

func (s *Server) do(ctx context.Context, fn func() error) error {
	return s.sched.Do(ctx, fn)
}

func (s *Server) status(ctx context.Context, arena string) (game.ArenaStatus, error) {
	var st game.ArenaStatus
	err := s.do(ctx, func() error {
		var err error
		st, err = s.manager.Status(arena)
		return err
	})
	if err != nil {
		return game.ArenaStatus{}, err
	}
	return st, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.status(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "msgpack" {
		data, err := msgpack.Marshal(st)
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := s.do(r.Context(), func() error {
		if _, ok := s.manager.Hub().Session(id); !ok {
			return game.ErrUnknownArena
		}
		s.manager.RemoveArena(id)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.do(r.Context(), func() error { return s.manager.StartGame(id) }); err != nil {
		s.writeError(w, err)
		return
	}
	st, err := s.status(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.do(r.Context(), func() error { return s.manager.ForceStop(id) }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.message("forcestop_success", nil)})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	id := r.PathValue("id")
	var p *game.Player
	err := s.do(r.Context(), func() error {
		p = s.manager.Join(id, req.Name)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, joinResponse{ID: p.ID, Name: p.Name})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	id, pid := r.PathValue("id"), game.PlayerID(r.PathValue("pid"))
	if err := s.do(r.Context(), func() error { return s.manager.Leave(id, pid) }); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeath(w http.ResponseWriter, r *http.Request) {
	id, pid := r.PathValue("id"), game.PlayerID(r.PathValue("pid"))
	var resp deathResponse
	err := s.do(r.Context(), func() error {
		penalty, err := s.manager.HandlePlayerDeath(id, pid)
		if err != nil {
			return err
		}
		resp.Penalty = penalty
		if ctx, ok := s.manager.Context(id); ok {
			resp.Coins = ctx.Coins(pid)
		}
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	id, pid := r.PathValue("id"), game.PlayerID(r.URL.Query().Get("player"))
	var resp shopResponse
	err := s.do(r.Context(), func() error {
		entries, status, err := s.manager.OpenShop(id, pid)
		resp = shopResponse{Status: status, Entries: entries}
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if resp.Entries == nil {
		resp.Entries = []game.ShopEntry{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	id, pid := r.PathValue("id"), game.PlayerID(r.URL.Query().Get("player"))
	item := r.PathValue("item")
	var res game.PurchaseResult
	err := s.do(r.Context(), func() error {
		var err error
		res, err = s.manager.Purchase(id, pid, item)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	raw, err := strconv.ParseUint(r.PathValue("unit"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid unit id"})
		return
	}
	unit := game.UnitID(raw)
	damage := game.CreeperHealth
	if v := r.URL.Query().Get("damage"); v != "" {
		damage, err = strconv.ParseFloat(v, 64)
		if err != nil || damage <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid damage"})
			return
		}
	}
	player := game.PlayerID(r.URL.Query().Get("player"))

	var resp attackResponse
	err = s.do(r.Context(), func() error {
		ctx, ok := s.manager.Context(id)
		if !ok {
			return game.ErrUnknownArena
		}
		if !ctx.Tracks(unit) && ctx.TraderUnit != unit {
			return game.ErrUnknownUnit
		}
		resp.Hit = s.world.Damage(unit, damage, string(player))
		resp.Alive = s.world.Alive(unit)
		resp.Coins = ctx.Coins(player)
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.do(r.Context(), s.manager.Reload); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.message("reload_success", nil)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	missing := s.config.Validate()
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, validateResponse{Complete: len(missing) == 0, Missing: missing})
}

func (s *Server) handleSetTrader(w http.ResponseWriter, r *http.Request) {
	p, ok := s.readPoint(w, r)
	if !ok {
		return
	}
	if err := s.do(r.Context(), func() error { return s.config.SetTraderLocation(p) }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.message("set_trader_success", nil)})
}

func (s *Server) handleSetLane(w http.ResponseWriter, r *http.Request) {
	lane, err := strconv.Atoi(r.PathValue("lane"))
	if err != nil {
		s.writeError(w, config.ErrInvalidLane)
		return
	}
	kind := r.PathValue("kind")
	p, ok := s.readPoint(w, r)
	if !ok {
		return
	}
	if err := s.do(r.Context(), func() error { return s.config.SetLanePoint(lane, kind, p) }); err != nil {
		s.writeError(w, err)
		return
	}
	vars := map[string]string{"lane": strconv.Itoa(lane), "type": kind}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.message("set_lane_success", vars)})
}

func (s *Server) readPoint(w http.ResponseWriter, r *http.Request) (config.Point, bool) {
	var req locationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return config.Point{}, false
	}
	p, err := config.ParsePoint(req.Location)
	if err == nil && !p.IsSet() {
		err = fmt.Errorf("%w: location required", config.ErrInvalidPoint)
	}
	if err != nil {
		s.writeError(w, err)
		return config.Point{}, false
	}
	return p, true
}

// message renders a configured template as plain text for API replies.
func (s *Server) message(key string, vars map[string]string) string {
	return ui.Strip(ui.Colorize(ui.Render(s.config.Current().RawMessage(key), vars)))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var incomplete *game.ConfigIncompleteError
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Missing: incomplete.Missing})
	case errors.Is(err, game.ErrAlreadyInGame), errors.Is(err, game.ErrNotInGame):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, game.ErrUnknownArena), errors.Is(err, game.ErrUnknownPlayer), errors.Is(err, game.ErrUnknownUnit):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, config.ErrInvalidPoint), errors.Is(err, config.ErrInvalidLane):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.log.Printf("api error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
