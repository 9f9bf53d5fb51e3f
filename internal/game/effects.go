package game

import (
	"sort"
	"strings"

	"CreeperAttack/internal/config"
)

const (
	EffectGiveItem       = "GIVE_ITEM"
	EffectHealTrader     = "HEAL_TRADER"
	EffectFreezeCreepers = "FREEZE_CREEPERS"
)

// EffectHandler applies one kind of shop effect. Returning false makes the
// shop refund the purchase.
type EffectHandler interface {
	EffectType() string
	Apply(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool
}

// EffectHandlerFunc adapts a function to EffectHandler under a fixed type name.
type EffectHandlerFunc struct {
	Type string
	Fn   func(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool
}

func (f EffectHandlerFunc) EffectType() string { return f.Type }

func (f EffectHandlerFunc) Apply(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool {
	return f.Fn(p, s, ctx, eff)
}

// arenaStopper is implemented by handlers that keep per-arena tasks.
type arenaStopper interface {
	StopArena(arenaID string)
}

// EffectRegistry maps upper-case effect type names to handlers.
type EffectRegistry struct {
	handlers map[string]EffectHandler
}

func NewEffectRegistry() *EffectRegistry {
	return &EffectRegistry{handlers: map[string]EffectHandler{}}
}

// Register adds or replaces the handler for its type.
func (r *EffectRegistry) Register(h EffectHandler) {
	r.handlers[strings.ToUpper(h.EffectType())] = h
}

func (r *EffectRegistry) Handler(effectType string) (EffectHandler, bool) {
	h, ok := r.handlers[strings.ToUpper(strings.TrimSpace(effectType))]
	return h, ok
}

// Apply dispatches to the handler for the effect's type. Unknown types fail.
func (r *EffectRegistry) Apply(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool {
	h, ok := r.Handler(eff.Type)
	if !ok {
		return false
	}
	return h.Apply(p, s, ctx, eff)
}

func (r *EffectRegistry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (r *EffectRegistry) stopArena(arenaID string) {
	for _, h := range r.handlers {
		if s, ok := h.(arenaStopper); ok {
			s.StopArena(arenaID)
		}
	}
}
