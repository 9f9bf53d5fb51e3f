package game

import "time"

const (
	TickRate            = 20 // host ticks per second
	DefaultTickDuration = time.Second / TickRate
	UpdateRateHz        = 4.0 // status pushes per second on the event stream

	CreeperHealth      = 20.0
	KnockbackImpulse   = 0.4
	GroundFriction     = 0.6
	NavSpeed           = 0.2 // blocks per tick for navigator-driven units
	SlowPerLevel       = 0.15
	SpeedPerLevel      = 0.2
	ExplosionLogLimit  = 64
	ShopSlots          = 27
	MaxSpeedLevel      = 2
	SpeedLevelEvery    = 10 // waves per speed level
	CountdownWarnAt    = 3  // seconds left at which players are warned
	MovementStopRadius = 0.5

	FreezeSlowLevel     = 255
	FrozenSlowThreshold = 200
	FreezeDriftSq       = 0.25
	TraderJumpLevel     = 128

	HPBarGlyph = "█"
)

// Permanent marks a status effect that never expires.
const Permanent time.Duration = -1
