package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listenerStub struct {
	allow bool
	hits  []UnitID
	died  []UnitID
	by    []string
}

func (l *listenerStub) UnitDamaged(id UnitID, _ string) bool {
	l.hits = append(l.hits, id)
	return l.allow
}

func (l *listenerStub) UnitDied(id UnitID, killer string) {
	l.died = append(l.died, id)
	l.by = append(l.by, killer)
}

func newSim() (*Scheduler, *SimWorld) {
	s := NewScheduler(testEpoch, DefaultTickDuration, nil)
	return s, NewSimWorld(s.Now, testWorld)
}

func at(x, z float64) Location { return Location{World: testWorld, Pos: Vec3{X: x, Y: 64, Z: z}} }

func TestSimWorldSpawnRequiresKnownWorld(t *testing.T) {
	_, w := newSim()
	_, err := w.Spawn(UnitCreeper, Location{World: "nether"})
	assert.ErrorIs(t, err, ErrUnknownWorld)

	id, err := w.Spawn(UnitCreeper, at(1, 2))
	require.NoError(t, err)
	assert.True(t, w.Alive(id))
	assert.Equal(t, []UnitID{id}, w.Units())
}

func TestSimWorldDamageKillsAndNotifies(t *testing.T) {
	_, w := newSim()
	l := &listenerStub{allow: true}
	w.SetListener(l)
	id, _ := w.Spawn(UnitCreeper, at(5, 0))

	assert.True(t, w.Damage(id, 5, "alice"))
	assert.True(t, w.Alive(id))
	assert.True(t, w.Damage(id, CreeperHealth, "alice"))
	assert.False(t, w.Alive(id))
	assert.Equal(t, []UnitID{id}, l.died)
	assert.Equal(t, []string{"alice"}, l.by)
	assert.False(t, w.Damage(id, 1, "alice"), "dead units take no damage")
}

func TestSimWorldListenerCanCancelDamage(t *testing.T) {
	_, w := newSim()
	l := &listenerStub{allow: false}
	w.SetListener(l)
	id, _ := w.Spawn(UnitCreeper, at(5, 0))

	assert.False(t, w.Damage(id, 100, ""))
	assert.True(t, w.Alive(id))
	assert.Equal(t, []UnitID{id}, l.hits)
}

func TestSimWorldDamagePushesBackAlongHeading(t *testing.T) {
	_, w := newSim()
	id, _ := w.Spawn(UnitCreeper, at(5, 0))
	w.SetVelocity(id, Vec3{X: -1})

	w.Damage(id, 1, "")
	v := w.Velocity(id)
	assert.InDelta(t, -1+KnockbackImpulse, v.X, 1e-9)
}

func TestSimWorldStepAppliesVelocityAndFriction(t *testing.T) {
	_, w := newSim()
	id, _ := w.Spawn(UnitCreeper, at(0, 0))
	w.SetVelocity(id, Vec3{X: 1})

	w.Step()
	pos, _ := w.Position(id)
	assert.InDelta(t, 1, pos.Pos.X, 1e-9)
	assert.InDelta(t, GroundFriction, w.Velocity(id).X, 1e-9)
}

func TestSimWorldEffectsScaleMovementAndExpire(t *testing.T) {
	s, w := newSim()
	slowed, _ := w.Spawn(UnitCreeper, at(0, 0))
	w.ApplyEffect(slowed, EffectSlow, 2, time.Second)
	w.SetVelocity(slowed, Vec3{X: 1})
	frozen, _ := w.Spawn(UnitCreeper, at(0, 5))
	w.ApplyEffect(frozen, EffectSlow, FreezeSlowLevel, time.Second)
	w.SetVelocity(frozen, Vec3{X: 1})

	w.Step()
	pos, _ := w.Position(slowed)
	assert.InDelta(t, 1-2*SlowPerLevel, pos.Pos.X, 1e-9)
	pos, _ = w.Position(frozen)
	assert.Equal(t, 0.0, pos.Pos.X)
	assert.Equal(t, Vec3{}, w.Velocity(frozen))

	for i := 0; i < 20; i++ {
		s.Tick()
	}
	w.Step()
	assert.Zero(t, w.EffectLevel(slowed, EffectSlow))
	assert.Zero(t, w.EffectLevel(frozen, EffectSlow))

	w.ApplyEffect(slowed, EffectJump, 3, Permanent)
	for i := 0; i < 100; i++ {
		s.Tick()
	}
	assert.Equal(t, 3, w.EffectLevel(slowed, EffectJump))
	w.ApplyEffect(slowed, EffectJump, 0, Permanent)
	assert.Zero(t, w.EffectLevel(slowed, EffectJump))
}

func TestSimWorldNavigation(t *testing.T) {
	_, w := newSim()
	_, _, err := w.SpawnNavigable(UnitCreeper, at(0, 0))
	assert.Error(t, err)

	w.EnableNavigation(true)
	id, nav, err := w.SpawnNavigable(UnitCreeper, at(0, 0))
	require.NoError(t, err)
	assert.True(t, w.NavigationAvailable())
	assert.False(t, w.SetNavTarget(nav, Location{World: "nether"}))
	require.True(t, w.SetNavTarget(nav, at(1, 0)))

	w.Step()
	pos, _ := w.Position(id)
	assert.InDelta(t, NavSpeed, pos.Pos.X, 1e-9)
	for i := 0; i < 10; i++ {
		w.Step()
	}
	pos, _ = w.Position(id)
	assert.InDelta(t, 1, pos.Pos.X, 1e-9, "arrives and stops on the target")

	w.ReleaseNav(nav)
	_, ok := w.NavTarget(id)
	assert.False(t, ok)
	assert.False(t, w.SetNavTarget(nav, at(2, 0)))
}

func TestSimWorldExplosionLogIsBounded(t *testing.T) {
	_, w := newSim()
	for i := 0; i < ExplosionLogLimit+5; i++ {
		w.Explode(at(float64(i), 0), 0)
	}
	log := w.Explosions()
	require.Len(t, log, ExplosionLogLimit)
	assert.Equal(t, 5.0, log[0].At.Pos.X)
}

func TestSimWorldLabelsAndTags(t *testing.T) {
	_, w := newSim()
	id, _ := w.Spawn(UnitCreeper, at(0, 0))
	w.SetLabel(id, "hello")
	w.Tag(id, TagArena, "a")
	assert.Equal(t, "hello", w.Label(id))
	assert.Equal(t, "a", w.TagValue(id, TagArena))

	w.Remove(id)
	assert.Empty(t, w.Label(id))
	assert.False(t, w.Alive(id))
	_, ok := w.Position(id)
	assert.False(t, ok)
}
