package game

// EconomyService keeps the coin ledger of an arena context.
type EconomyService struct {
	cfg ConfigSource
}

func NewEconomyService(cfg ConfigSource) *EconomyService { return &EconomyService{cfg: cfg} }

func (e *EconomyService) InitPlayer(ctx *ArenaContext, p PlayerID) { ctx.SetCoins(p, 0) }

// AwardKillReward credits the configured reward and returns it.
func (e *EconomyService) AwardKillReward(ctx *ArenaContext, p PlayerID) int {
	reward := e.cfg.Current().Economy.KillReward.Creeper
	e.AddCoins(ctx, p, reward)
	return reward
}

// ApplyDeathPenalty takes the configured percentage of the balance, rounded
// down, and returns the amount taken.
func (e *EconomyService) ApplyDeathPenalty(ctx *ArenaContext, p PlayerID) int {
	current := ctx.Coins(p)
	penalty := current * e.cfg.Current().Economy.DeathPenaltyPercent / 100
	if penalty <= 0 {
		return 0
	}
	ctx.SetCoins(p, current-penalty)
	return penalty
}

// Spend debits amount only when the balance covers it.
func (e *EconomyService) Spend(ctx *ArenaContext, p PlayerID, amount int) bool {
	if amount < 0 {
		return false
	}
	current := ctx.Coins(p)
	if current < amount {
		return false
	}
	ctx.SetCoins(p, current-amount)
	return true
}

func (e *EconomyService) AddCoins(ctx *ArenaContext, p PlayerID, amount int) {
	if amount <= 0 {
		return
	}
	ctx.SetCoins(p, ctx.Coins(p)+amount)
}

func (e *EconomyService) Coins(ctx *ArenaContext, p PlayerID) int { return ctx.Coins(p) }

func (e *EconomyService) ClearPlayer(ctx *ArenaContext, p PlayerID) { ctx.ClearCoins(p) }
