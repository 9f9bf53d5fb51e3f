package game

import (
	"time"

	"CreeperAttack/internal/config"
)

// FreezeCreepersEffect halts every live unit for a while. A lock task puts
// units that still drift back where they were frozen.
type FreezeCreepersEffect struct {
	cfg   ConfigSource
	world WorldProvider
	sched *Scheduler
	ui    *UiController
	locks map[string][]TaskHandle
}

func NewFreezeCreepersEffect(cfg ConfigSource, world WorldProvider, sched *Scheduler, uic *UiController) *FreezeCreepersEffect {
	return &FreezeCreepersEffect{cfg: cfg, world: world, sched: sched, ui: uic, locks: map[string][]TaskHandle{}}
}

func (f *FreezeCreepersEffect) EffectType() string { return EffectFreezeCreepers }

func (f *FreezeCreepersEffect) Apply(p *Player, s *Session, ctx *ArenaContext, eff config.EffectConfig) bool {
	seconds := eff.Int("duration_seconds", 5)
	units := ctx.AliveUnits(f.world)
	if len(units) == 0 {
		f.ui.Tell(s.ID, p.ID, "freeze_no_targets", nil)
		return false
	}

	duration := time.Duration(seconds) * time.Second
	frozenAt := make(map[UnitID]Location, len(units))
	for _, id := range units {
		pos, ok := f.world.Position(id)
		if !ok {
			continue
		}
		frozenAt[id] = pos
		f.world.ApplyEffect(id, EffectSlow, FreezeSlowLevel, duration)
	}

	period := f.cfg.Current().Timing.FreezeLockPeriodTicks
	totalTicks := int(f.sched.TicksFor(duration))
	elapsed := 0
	var handle TaskHandle
	handle = f.sched.Every(period, func() {
		if elapsed >= totalTicks {
			f.release(ctx.ArenaID, handle)
			return
		}
		for _, id := range ctx.Units() {
			if !f.world.Alive(id) {
				continue
			}
			origin, ok := frozenAt[id]
			if !ok {
				continue
			}
			pos, ok := f.world.Position(id)
			if ok && origin.SameWorld(pos) && pos.DistSq(origin) > FreezeDriftSq {
				f.world.Teleport(id, origin)
			}
		}
		elapsed += period
	})
	f.locks[ctx.ArenaID] = append(f.locks[ctx.ArenaID], handle)

	f.ui.BroadcastRaw(s, "freeze_activated", map[string]string{"seconds": itoa(seconds)})
	return true
}

func (f *FreezeCreepersEffect) release(arenaID string, h TaskHandle) {
	f.sched.Cancel(h)
	handles := f.locks[arenaID]
	for i, other := range handles {
		if other == h {
			f.locks[arenaID] = append(handles[:i], handles[i+1:]...)
			break
		}
	}
	if len(f.locks[arenaID]) == 0 {
		delete(f.locks, arenaID)
	}
}

// StopArena cancels the arena's lock tasks.
func (f *FreezeCreepersEffect) StopArena(arenaID string) {
	for _, h := range f.locks[arenaID] {
		f.sched.Cancel(h)
	}
	delete(f.locks, arenaID)
}

// ActiveLocks counts running lock tasks for an arena.
func (f *FreezeCreepersEffect) ActiveLocks(arenaID string) int { return len(f.locks[arenaID]) }
