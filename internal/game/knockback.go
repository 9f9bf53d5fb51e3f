package game

import "time"

type knockbackState struct {
	lastPos    Location
	hasPos     bool
	lastDamage time.Time
	damaged    bool
}

// KnockbackTracker keeps units on their approach after being hit. A unit hit
// within the window is put back where it was, but only when the hit pushed it
// away from the trader.
type KnockbackTracker struct {
	world  WorldProvider
	clock  func() time.Time
	window time.Duration
	units  map[UnitID]*knockbackState
}

func NewKnockbackTracker(world WorldProvider, clock func() time.Time, window time.Duration) *KnockbackTracker {
	return &KnockbackTracker{world: world, clock: clock, window: window, units: map[UnitID]*knockbackState{}}
}

func (k *KnockbackTracker) SetWindow(d time.Duration) { k.window = d }

func (k *KnockbackTracker) state(id UnitID) *knockbackState {
	st, ok := k.units[id]
	if !ok {
		st = &knockbackState{}
		k.units[id] = st
	}
	return st
}

// OnDamage records the position before the hit lands.
func (k *KnockbackTracker) OnDamage(id UnitID) {
	pos, ok := k.world.Position(id)
	if !ok {
		return
	}
	st := k.state(id)
	st.lastPos = pos
	st.hasPos = true
	st.lastDamage = k.clock()
	st.damaged = true
}

// Compensate runs one pass over the arena's units.
func (k *KnockbackTracker) Compensate(ctx *ArenaContext) {
	now := k.clock()
	for _, id := range ctx.Units() {
		if !k.world.Alive(id) {
			continue
		}
		current, ok := k.world.Position(id)
		if !ok {
			continue
		}
		st := k.state(id)
		if st.damaged && now.Sub(st.lastDamage) < k.window {
			if !st.hasPos || !st.lastPos.SameWorld(current) || ctx.TraderLocation == nil {
				continue
			}
			trader := *ctx.TraderLocation
			if current.DistSq(trader) > st.lastPos.DistSq(trader) {
				k.world.Teleport(id, st.lastPos)
			}
			continue
		}
		st.lastPos = current
		st.hasPos = true
	}
}

// Forget drops everything known about a unit.
func (k *KnockbackTracker) Forget(id UnitID) { delete(k.units, id) }

func (k *KnockbackTracker) Tracked() int { return len(k.units) }
