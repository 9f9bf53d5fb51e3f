package game

// MovementController walks units toward the trader, through the navigator
// when the unit has one.
type MovementController struct {
	cfg   ConfigSource
	world WorldProvider
}

func NewMovementController(cfg ConfigSource, world WorldProvider) *MovementController {
	return &MovementController{cfg: cfg, world: world}
}

// Step steers every live, unfrozen unit in the trader's world.
func (m *MovementController) Step(ctx *ArenaContext) {
	if ctx.TraderLocation == nil {
		return
	}
	trader := *ctx.TraderLocation
	speed := m.cfg.Current().Timing.UnitSpeed
	navigator, _ := m.world.(Navigator)
	traderUp := ctx.TraderUnit != 0 && m.world.Alive(ctx.TraderUnit)

	for _, id := range ctx.Units() {
		if !m.world.Alive(id) {
			continue
		}
		pos, ok := m.world.Position(id)
		if !ok || !pos.SameWorld(trader) {
			continue
		}
		if m.world.EffectLevel(id, EffectSlow) > FrozenSlowThreshold {
			continue
		}
		if navigator != nil && traderUp {
			if h, linked := ctx.NavOf(id); linked {
				target := trader
				if tpos, ok := m.world.Position(ctx.TraderUnit); ok {
					target = tpos
				}
				navigator.SetNavTarget(h, target)
				continue
			}
		}

		dir := trader.Pos.Sub(pos.Pos).Horizontal()
		dist := dir.Len()
		if dist <= MovementStopRadius {
			continue
		}
		vel := m.world.Velocity(id)
		step := dir.Scale(speed / dist)
		vel.X, vel.Z = step.X, step.Z
		m.world.SetVelocity(id, vel)
	}
}
