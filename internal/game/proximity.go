package game

import (
	"math"
	"time"

	"CreeperAttack/internal/ui"
)

// ProximityController primes units that reach the trader and detonates them
// when their countdown runs out.
type ProximityController struct {
	cfg   ConfigSource
	world WorldProvider
	ui    *UiController
	clock func() time.Time
}

func NewProximityController(cfg ConfigSource, world WorldProvider, uic *UiController, clock func() time.Time) *ProximityController {
	return &ProximityController{cfg: cfg, world: world, ui: uic, clock: clock}
}

func countdownLabel(seconds int) string { return ui.Colorize("&c&l" + itoa(seconds)) }

// CheckProximity starts a countdown for every live unit inside the trigger
// radius that is not primed yet. It returns the newly primed units.
func (p *ProximityController) CheckProximity(ctx *ArenaContext) []UnitID {
	if ctx.TraderLocation == nil {
		return nil
	}
	trader := *ctx.TraderLocation
	tcfg := p.cfg.Current().Trader
	radiusSq := tcfg.TriggerRadius * tcfg.TriggerRadius
	deadline := p.clock().Add(time.Duration(tcfg.CountdownSeconds) * time.Second)

	var primed []UnitID
	for _, id := range ctx.Units() {
		if !p.world.Alive(id) {
			continue
		}
		pos, ok := p.world.Position(id)
		if !ok || !pos.SameWorld(trader) || pos.DistSq(trader) > radiusSq {
			continue
		}
		if _, armed := ctx.Countdown(id); armed {
			continue
		}
		ctx.SetCountdown(id, deadline)
		p.world.SetLabel(id, countdownLabel(tcfg.CountdownSeconds))
		primed = append(primed, id)
	}
	return primed
}

// ProcessCountdowns ticks every primed unit. Units whose time is up are
// handed to explode; dead units lose their countdown.
func (p *ProximityController) ProcessCountdowns(s *Session, ctx *ArenaContext, explode func(UnitID)) {
	now := p.clock()
	for _, id := range ctx.Units() {
		if !p.world.Alive(id) {
			ctx.ClearCountdown(id)
			continue
		}
		deadline, ok := ctx.Countdown(id)
		if !ok {
			continue
		}
		secondsLeft := int(math.Ceil(deadline.Sub(now).Seconds()))
		if secondsLeft <= 0 {
			explode(id)
			continue
		}
		p.world.SetLabel(id, countdownLabel(secondsLeft))
		if secondsLeft <= CountdownWarnAt && s != nil {
			p.ui.SendCountdownWarning(s, secondsLeft)
		}
	}
}
