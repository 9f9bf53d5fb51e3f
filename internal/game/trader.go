package game

import (
	"fmt"

	"CreeperAttack/internal/ui"
)

// TraderController places the defended unit and keeps its health.
type TraderController struct {
	cfg   ConfigSource
	world WorldProvider
	log   Logger
}

func NewTraderController(cfg ConfigSource, world WorldProvider, logger Logger) *TraderController {
	return &TraderController{cfg: cfg, world: world, log: logger}
}

// SpawnTrader places the trader at the configured location, preferring a
// navigable actor. Without a navigator the unit is pinned with permanent
// slow and jump effects.
func (t *TraderController) SpawnTrader(ctx *ArenaContext) error {
	cfg := t.cfg.Current()
	loc, ok := LocationFromPoint(cfg.Trader.Location)
	if !ok {
		t.log.Printf("cannot spawn trader for %s: location not configured", ctx.ArenaID)
		return ErrNoLocation
	}

	var (
		id  UnitID
		nav NavHandle
		err error
	)
	if navigator := navigatorOf(t.world); navigator != nil {
		id, nav, err = navigator.SpawnNavigable(UnitTrader, loc)
		if err != nil {
			t.log.Printf("navigable trader failed for %s, falling back: %v", ctx.ArenaID, err)
			id, nav = 0, 0
		}
	}
	if id == 0 {
		id, err = t.world.Spawn(UnitTrader, loc)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTraderPlacement, err)
		}
		t.world.ApplyEffect(id, EffectSlow, FreezeSlowLevel, Permanent)
		t.world.ApplyEffect(id, EffectJump, TraderJumpLevel, Permanent)
	}
	t.world.SetProtected(id, cfg.Trader.Invulnerable)

	ctx.TraderUnit = id
	ctx.TraderNav = nav
	ctx.TraderLocation = &loc
	ctx.TraderMaxHP = cfg.Trader.MaxHealth
	ctx.SetTraderHP(cfg.Trader.MaxHealth)
	t.UpdateTraderVisual(ctx)
	return nil
}

// ApplyExplosionDamage takes the configured share of max HP and returns the new HP.
func (t *TraderController) ApplyExplosionDamage(ctx *ArenaContext) int {
	damage := ctx.TraderMaxHP * t.cfg.Current().Trader.ExplosionDamagePercent / 100
	ctx.SetTraderHP(ctx.TraderHP() - damage)
	t.UpdateTraderVisual(ctx)
	return ctx.TraderHP()
}

// HealTrader restores percent of max HP and returns the new HP.
func (t *TraderController) HealTrader(ctx *ArenaContext, percent int) int {
	heal := ctx.TraderMaxHP * percent / 100
	ctx.SetTraderHP(ctx.TraderHP() + heal)
	t.UpdateTraderVisual(ctx)
	return ctx.TraderHP()
}

// Nameplate renders the trader label for the current HP.
func (t *TraderController) Nameplate(ctx *ArenaContext) string {
	cfg := t.cfg.Current()
	pct := ui.HPPercent(ctx.TraderHP(), ctx.TraderMaxHP)
	return ui.Colorize(ui.Render(cfg.RawMessage("trader_name"), map[string]string{
		"name":  cfg.Trader.Name,
		"bar":   ui.Nameplate(pct),
		"hp":    itoa(ctx.TraderHP()),
		"maxhp": itoa(ctx.TraderMaxHP),
	}))
}

func (t *TraderController) UpdateTraderVisual(ctx *ArenaContext) {
	if ctx.TraderUnit == 0 || !t.world.Alive(ctx.TraderUnit) {
		return
	}
	t.world.SetLabel(ctx.TraderUnit, t.Nameplate(ctx))
}

func (t *TraderController) IsTraderAlive(ctx *ArenaContext) bool {
	return ctx.TraderUnit != 0 && t.world.Alive(ctx.TraderUnit) && ctx.TraderHP() > 0
}

// RemoveTrader is safe to call when no trader exists.
func (t *TraderController) RemoveTrader(ctx *ArenaContext) {
	ctx.releaseTrader(t.world)
}

// IsTrader reports whether id is the trader of ctx.
func (t *TraderController) IsTrader(ctx *ArenaContext, id UnitID) bool {
	return ctx.TraderUnit != 0 && ctx.TraderUnit == id
}
