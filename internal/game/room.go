package game

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseInGame  Phase = "in_game"
)

type Player struct {
	ID        PlayerID
	Name      string
	Inventory *Inventory
}

// Session is the player roster and phase of one arena. Mutate it from the
// scheduler only.
type Session struct {
	ID      string
	Phase   Phase
	players []*Player
}

func newSession(id string) *Session {
	return &Session{ID: id, Phase: PhaseWaiting}
}

// Join adds a player under a fresh id.
func (s *Session) Join(name string) *Player {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Player"
	}
	p := &Player{
		ID:        PlayerID(uuid.NewString()),
		Name:      name,
		Inventory: NewInventory(),
	}
	s.players = append(s.players, p)
	return p
}

func (s *Session) Leave(id PlayerID) bool {
	for i, p := range s.players {
		if p.ID == id {
			s.players = append(s.players[:i], s.players[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Session) Player(id PlayerID) (*Player, bool) {
	for _, p := range s.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the roster in join order.
func (s *Session) Players() []*Player { return append([]*Player(nil), s.players...) }

func (s *Session) PlayerIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(s.players))
	for _, p := range s.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (s *Session) PlayerCount() int { return len(s.players) }

func (s *Session) InGame() bool { return s.Phase == PhaseInGame }

type Hub struct {
	Sessions map[string]*Session
	Mu       sync.Mutex
}

func NewHub() *Hub { return &Hub{Sessions: map[string]*Session{}} }

// GetSession returns the session for id, creating it on first use.
func (h *Hub) GetSession(id string) *Session {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	if !ok {
		s = newSession(id)
		h.Sessions[id] = s
	}
	return s
}

func (h *Hub) Session(id string) (*Session, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	return s, ok
}

func (h *Hub) Remove(id string) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	delete(h.Sessions, id)
}

func (h *Hub) IDs() []string {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	ids := make([]string, 0, len(h.Sessions))
	for id := range h.Sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
