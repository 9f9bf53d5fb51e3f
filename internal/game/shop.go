package game

import (
	"time"

	"CreeperAttack/internal/ui"
)

type ShopStatus string

const (
	ShopOK                ShopStatus = "ok"
	ShopDisabled          ShopStatus = "disabled"
	ShopClosed            ShopStatus = "closed"
	ShopUnknownItem       ShopStatus = "unknown_item"
	ShopOnCooldown        ShopStatus = "cooldown"
	ShopInsufficientFunds ShopStatus = "insufficient_funds"
	ShopEffectFailed      ShopStatus = "effect_failed"
)

// ShopEntry is one slot of the shop as a player sees it.
type ShopEntry struct {
	Slot              int      `json:"slot" msgpack:"slot"`
	ID                string   `json:"id" msgpack:"id"`
	Name              string   `json:"name" msgpack:"name"`
	Material          string   `json:"material" msgpack:"material"`
	Amount            int      `json:"amount" msgpack:"amount"`
	Lore              []string `json:"lore,omitempty" msgpack:"lore,omitempty"`
	Price             int      `json:"price" msgpack:"price"`
	Balance           int      `json:"balance" msgpack:"balance"`
	CooldownSeconds   int      `json:"cooldown_seconds,omitempty" msgpack:"cooldown_seconds,omitempty"`
	CooldownRemaining int      `json:"cooldown_remaining,omitempty" msgpack:"cooldown_remaining,omitempty"`
}

type PurchaseResult struct {
	Status    ShopStatus `json:"status" msgpack:"status"`
	Item      string     `json:"item" msgpack:"item"`
	Price     int        `json:"price" msgpack:"price"`
	Balance   int        `json:"balance" msgpack:"balance"`
	Remaining int        `json:"remaining_seconds,omitempty" msgpack:"remaining_seconds,omitempty"`
}

// ShopController lists the catalog and runs purchases: cooldown, spend,
// effect, refund on failure, cooldown set on success.
type ShopController struct {
	cfg     ConfigSource
	economy *EconomyService
	effects *EffectRegistry
	ui      *UiController
	clock   func() time.Time
}

func NewShopController(cfg ConfigSource, economy *EconomyService, effects *EffectRegistry, uic *UiController, clock func() time.Time) *ShopController {
	return &ShopController{cfg: cfg, economy: economy, effects: effects, ui: uic, clock: clock}
}

func (sc *ShopController) gate(p *Player, s *Session, ctx *ArenaContext) ShopStatus {
	shop := sc.cfg.Current().Shop
	if !shop.Enabled {
		sc.ui.TellText(s.ID, p.ID, ui.Colorize("&cShop is disabled"))
		return ShopDisabled
	}
	if shop.OpenBetweenWavesOnly && ctx.Fighting {
		sc.ui.Tell(s.ID, p.ID, "shop_closed", nil)
		return ShopClosed
	}
	return ShopOK
}

// Open lists up to ShopSlots catalog entries for p.
func (sc *ShopController) Open(p *Player, s *Session, ctx *ArenaContext) ([]ShopEntry, ShopStatus) {
	if status := sc.gate(p, s, ctx); status != ShopOK {
		return nil, status
	}
	now := sc.clock()
	items := sc.cfg.Current().Shop.Items
	entries := make([]ShopEntry, 0, min(len(items), ShopSlots))
	for i, item := range items {
		if i >= ShopSlots {
			break
		}
		material, ok := ResolveMaterial(item.Material)
		if !ok {
			material = "STONE"
		}
		lore := make([]string, 0, len(item.Lore))
		for _, line := range item.Lore {
			lore = append(lore, ui.Colorize(line))
		}
		entry := ShopEntry{
			Slot:            i,
			ID:              item.ID,
			Name:            ui.Colorize(item.Name),
			Material:        material,
			Amount:          max(item.Amount, 1),
			Lore:            lore,
			Price:           item.Price,
			Balance:         sc.economy.Coins(ctx, p.ID),
			CooldownSeconds: item.CooldownSeconds,
		}
		if item.CooldownSeconds > 0 {
			entry.CooldownRemaining = int(ctx.CooldownRemaining(p.ID, item.ID, now) / time.Second)
		}
		entries = append(entries, entry)
	}
	return entries, ShopOK
}

// Purchase buys itemID for p.
func (sc *ShopController) Purchase(p *Player, s *Session, ctx *ArenaContext, itemID string) PurchaseResult {
	res := PurchaseResult{Item: itemID}
	if status := sc.gate(p, s, ctx); status != ShopOK {
		res.Status = status
		res.Balance = ctx.Coins(p.ID)
		return res
	}
	cfg := sc.cfg.Current()
	item, ok := cfg.Shop.Item(itemID)
	if !ok {
		res.Status = ShopUnknownItem
		res.Balance = ctx.Coins(p.ID)
		return res
	}
	res.Price = item.Price

	now := sc.clock()
	if remaining := ctx.CooldownRemaining(p.ID, item.ID, now); remaining > 0 {
		res.Status = ShopOnCooldown
		res.Remaining = int(remaining / time.Second)
		res.Balance = ctx.Coins(p.ID)
		sc.ui.Tell(s.ID, p.ID, "shop_cooldown", map[string]string{"seconds": itoa(res.Remaining)})
		return res
	}

	if !sc.economy.Spend(ctx, p.ID, item.Price) {
		res.Status = ShopInsufficientFunds
		res.Balance = ctx.Coins(p.ID)
		sc.ui.Tell(s.ID, p.ID, "shop_not_enough", nil)
		return res
	}

	if item.Effect != nil {
		eff := *item.Effect
		if eff.Type == "" {
			eff.Type = EffectGiveItem
		}
		if eff.Item == nil {
			eff.Item = item
		}
		if !sc.effects.Apply(p, s, ctx, eff) {
			sc.economy.AddCoins(ctx, p.ID, item.Price)
			res.Status = ShopEffectFailed
			res.Balance = ctx.Coins(p.ID)
			return res
		}
	}

	if item.CooldownSeconds > 0 {
		ctx.SetCooldown(p.ID, item.ID, now.Add(time.Duration(item.CooldownSeconds)*time.Second))
	}
	sc.ui.Tell(s.ID, p.ID, "shop_success", nil)
	res.Status = ShopOK
	res.Balance = ctx.Coins(p.ID)
	return res
}
