package game

import (
	"sort"
	"time"

	"CreeperAttack/internal/config"
)

// PlayerID is the uuid string issued when a player joins a session.
type PlayerID string

type cooldownKey struct {
	player PlayerID
	item   string
}

// ArenaContext is the state of one arena. It is owned by the scheduler
// goroutine and never locked.
type ArenaContext struct {
	ArenaID string
	Lanes   [config.LaneCount]*Lane

	TraderLocation *Location
	TraderUnit     UnitID
	TraderNav      NavHandle
	TraderMaxHP    int
	traderHP       int

	Wave            int
	WaveMax         int
	Fighting        bool
	ToSpawn         int
	SpawnedThisWave int
	NextWaveAt      time.Time

	countdowns map[UnitID]time.Time
	coins      map[PlayerID]int
	cooldowns  map[cooldownKey]time.Time
	units      []UnitID
	unitNav    map[UnitID]NavHandle

	MainLoop       TaskHandle
	ScoreboardLoop TaskHandle
}

func NewArenaContext(arenaID string) *ArenaContext {
	ctx := &ArenaContext{ArenaID: arenaID}
	for i := range ctx.Lanes {
		ctx.Lanes[i] = NewLane(i + 1)
	}
	ctx.clear()
	return ctx
}

func (c *ArenaContext) clear() {
	c.TraderLocation = nil
	c.TraderUnit = 0
	c.TraderNav = 0
	c.TraderMaxHP = 0
	c.traderHP = 0
	c.Wave = 0
	c.WaveMax = 0
	c.Fighting = false
	c.ToSpawn = 0
	c.SpawnedThisWave = 0
	c.NextWaveAt = time.Time{}
	c.countdowns = map[UnitID]time.Time{}
	c.coins = map[PlayerID]int{}
	c.cooldowns = map[cooldownKey]time.Time{}
	c.units = nil
	c.unitNav = map[UnitID]NavHandle{}
	c.MainLoop = 0
	c.ScoreboardLoop = 0
}

// Reset removes every tracked unit and the trader from w and zeroes the
// session state. Lanes and the arena id survive.
func (c *ArenaContext) Reset(w WorldProvider) {
	if w != nil {
		for _, id := range append([]UnitID(nil), c.units...) {
			c.RemoveUnit(w, id)
		}
		c.releaseTrader(w)
	}
	c.clear()
}

func (c *ArenaContext) releaseTrader(w WorldProvider) {
	if c.TraderNav != 0 {
		if nav, ok := w.(Navigator); ok {
			nav.ReleaseNav(c.TraderNav)
		}
	}
	if c.TraderUnit != 0 {
		w.Remove(c.TraderUnit)
	}
	c.TraderUnit = 0
	c.TraderNav = 0
}

func (c *ArenaContext) TraderHP() int { return c.traderHP }

// SetTraderHP stores hp clamped to [0, TraderMaxHP].
func (c *ArenaContext) SetTraderHP(hp int) {
	c.traderHP = ClampInt(hp, 0, max(c.TraderMaxHP, 0))
}

func (c *ArenaContext) Countdown(id UnitID) (time.Time, bool) {
	at, ok := c.countdowns[id]
	return at, ok
}

func (c *ArenaContext) SetCountdown(id UnitID, at time.Time) { c.countdowns[id] = at }

func (c *ArenaContext) ClearCountdown(id UnitID) { delete(c.countdowns, id) }

// Countdowns lists primed units in ascending id order.
func (c *ArenaContext) Countdowns() []UnitID {
	ids := make([]UnitID, 0, len(c.countdowns))
	for id := range c.countdowns {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *ArenaContext) Coins(p PlayerID) int { return c.coins[p] }

func (c *ArenaContext) SetCoins(p PlayerID, v int) { c.coins[p] = max(v, 0) }

func (c *ArenaContext) ClearCoins(p PlayerID) { delete(c.coins, p) }

func (c *ArenaContext) Cooldown(p PlayerID, item string) (time.Time, bool) {
	at, ok := c.cooldowns[cooldownKey{player: p, item: item}]
	return at, ok
}

func (c *ArenaContext) SetCooldown(p PlayerID, item string, until time.Time) {
	c.cooldowns[cooldownKey{player: p, item: item}] = until
}

// CooldownRemaining is how long item stays locked for p; zero when free.
func (c *ArenaContext) CooldownRemaining(p PlayerID, item string, now time.Time) time.Duration {
	until, ok := c.Cooldown(p, item)
	if !ok || !now.Before(until) {
		return 0
	}
	return until.Sub(now)
}

// TrackUnit registers a spawned unit; nav is zero for directly moved units.
func (c *ArenaContext) TrackUnit(id UnitID, nav NavHandle) {
	c.units = append(c.units, id)
	if nav != 0 {
		c.unitNav[id] = nav
	}
}

func (c *ArenaContext) Tracks(id UnitID) bool {
	for _, u := range c.units {
		if u == id {
			return true
		}
	}
	return false
}

func (c *ArenaContext) Units() []UnitID { return append([]UnitID(nil), c.units...) }

func (c *ArenaContext) NavOf(id UnitID) (NavHandle, bool) {
	h, ok := c.unitNav[id]
	return h, ok
}

func (c *ArenaContext) untrack(id UnitID) {
	for i, u := range c.units {
		if u == id {
			c.units = append(c.units[:i], c.units[i+1:]...)
			break
		}
	}
	delete(c.unitNav, id)
	delete(c.countdowns, id)
}

// RemoveUnit releases the unit's navigator, removes it from w and forgets it.
// Unknown ids are ignored.
func (c *ArenaContext) RemoveUnit(w WorldProvider, id UnitID) {
	if h, ok := c.unitNav[id]; ok {
		if nav, ok := w.(Navigator); ok {
			nav.ReleaseNav(h)
		}
	}
	if c.Tracks(id) {
		w.Remove(id)
	}
	c.untrack(id)
}

// AliveUnits returns the live tracked units and forgets the dead ones along
// with their countdowns.
func (c *ArenaContext) AliveUnits(w WorldProvider) []UnitID {
	alive := c.units[:0]
	var dead []UnitID
	for _, id := range c.units {
		if w.Alive(id) {
			alive = append(alive, id)
		} else {
			dead = append(dead, id)
		}
	}
	c.units = alive
	for _, id := range dead {
		if h, ok := c.unitNav[id]; ok {
			if nav, ok := w.(Navigator); ok {
				nav.ReleaseNav(h)
			}
		}
		delete(c.unitNav, id)
		delete(c.countdowns, id)
	}
	return append([]UnitID(nil), alive...)
}
