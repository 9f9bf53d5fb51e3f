package game

import "time"

type UnitID int64

type UnitKind string

const (
	UnitCreeper UnitKind = "creeper"
	UnitTrader  UnitKind = "trader"
)

type EffectKind string

const (
	EffectSlow  EffectKind = "slow"
	EffectSpeed EffectKind = "speed"
	EffectJump  EffectKind = "jump"
)

// WorldProvider is the simulation substrate units live in. Every call returns
// immediately; a stale id is reported as not alive and ignored by mutators.
type WorldProvider interface {
	HasWorld(name string) bool
	Spawn(kind UnitKind, at Location) (UnitID, error)
	Remove(id UnitID)
	Alive(id UnitID) bool
	Position(id UnitID) (Location, bool)
	Teleport(id UnitID, to Location)
	Velocity(id UnitID) Vec3
	SetVelocity(id UnitID, v Vec3)
	// ApplyEffect sets a status effect; d == Permanent never expires.
	ApplyEffect(id UnitID, kind EffectKind, level int, d time.Duration)
	EffectLevel(id UnitID, kind EffectKind) int
	SetLabel(id UnitID, label string)
	Tag(id UnitID, key, value string)
	SetProtected(id UnitID, protected bool)
	// Explode plays a blast effect at a point. Power zero damages nothing.
	Explode(at Location, power float64)
}

// NavHandle refers to an externally navigated actor bound to a unit.
type NavHandle int64

// Navigator is the optional pathfinding capability of a provider.
type Navigator interface {
	NavigationAvailable() bool
	SpawnNavigable(kind UnitKind, at Location) (UnitID, NavHandle, error)
	SetNavTarget(h NavHandle, target Location) bool
	ReleaseNav(h NavHandle)
}

// WorldListener receives substrate events. UnitDamaged returning false
// cancels the damage.
type WorldListener interface {
	UnitDamaged(id UnitID, attacker string) bool
	UnitDied(id UnitID, killer string)
}

// navigatorOf probes a provider for pathfinding once.
func navigatorOf(w WorldProvider) Navigator {
	nav, ok := w.(Navigator)
	if !ok || !nav.NavigationAvailable() {
		return nil
	}
	return nav
}
