package game

import "CreeperAttack/internal/config"

// HealTraderEffect restores a share of the trader's health.
type HealTraderEffect struct {
	trader *TraderController
	ui     *UiController
}

func NewHealTraderEffect(trader *TraderController, uic *UiController) *HealTraderEffect {
	return &HealTraderEffect{trader: trader, ui: uic}
}

func (h *HealTraderEffect) EffectType() string { return EffectHealTrader }

func (h *HealTraderEffect) Apply(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool {
	percent := eff.Int("heal_percent", 20)
	if ctx.TraderHP() >= ctx.TraderMaxHP {
		h.ui.Tell(s.ID, p.ID, "heal_full", nil)
		return false
	}
	h.trader.HealTrader(ctx, percent)
	h.ui.BroadcastRaw(s, "heal_activated", map[string]string{"percent": itoa(percent)})
	return true
}
