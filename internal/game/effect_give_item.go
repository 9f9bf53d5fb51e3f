package game

import "CreeperAttack/internal/config"

// GiveItemEffect puts the catalog entry's material into the buyer's inventory.
type GiveItemEffect struct {
	log Logger
}

func NewGiveItemEffect(logger Logger) *GiveItemEffect { return &GiveItemEffect{log: logger} }

func (g *GiveItemEffect) EffectType() string { return EffectGiveItem }

func (g *GiveItemEffect) Apply(p *Player, _ *Session, _ *ArenaContext, eff config.EffectConfig) bool {
	if eff.Item == nil || p == nil || p.Inventory == nil {
		return false
	}
	raw := eff.Item.Material
	if raw == "" {
		raw = "STONE"
	}
	material, ok := ResolveMaterial(raw)
	if !ok {
		g.log.Printf("invalid material %q for shop item %s", raw, eff.Item.ID)
		return false
	}
	amount := eff.Item.Amount
	if amount <= 0 {
		amount = 1
	}
	p.Inventory.AddItem(material, eff.Item.Name, amount)
	return true
}
