package game

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnknownWorld is returned when spawning into a world the simulation does not host.
var ErrUnknownWorld = errors.New("unknown world")

// Explosion is one entry of the blast log.
type Explosion struct {
	At    Location
	Power float64
	Time  time.Time
}

// SimWorld is an in-memory WorldProvider and Navigator. It is not safe for
// concurrent use; drive it from the scheduler like everything else.
type SimWorld struct {
	world      *World
	clock      func() time.Time
	worlds     map[string]bool
	navigation bool
	nextNav    NavHandle
	navUnits   map[NavHandle]EntityID
	listener   WorldListener
	explosions []Explosion
	rejectFn   func(UnitKind, Location) error
}

func NewSimWorld(clock func() time.Time, worlds ...string) *SimWorld {
	s := &SimWorld{
		world:    newWorld(),
		clock:    clock,
		worlds:   map[string]bool{},
		navUnits: map[NavHandle]EntityID{},
	}
	for _, name := range worlds {
		s.AddWorld(name)
	}
	return s
}

func (s *SimWorld) AddWorld(name string) { s.worlds[name] = true }

func (s *SimWorld) HasWorld(name string) bool { return s.worlds[name] }

// EnableNavigation switches the pathfinding capability on or off.
func (s *SimWorld) EnableNavigation(on bool) { s.navigation = on }

func (s *SimWorld) SetListener(l WorldListener) { s.listener = l }

// RejectSpawns installs a hook that can veto placements; nil clears it.
func (s *SimWorld) RejectSpawns(fn func(UnitKind, Location) error) { s.rejectFn = fn }

func (s *SimWorld) Spawn(kind UnitKind, at Location) (UnitID, error) {
	if !s.HasWorld(at.World) {
		return 0, fmt.Errorf("spawn %s: %w: %q", kind, ErrUnknownWorld, at.World)
	}
	if s.rejectFn != nil {
		if err := s.rejectFn(kind, at); err != nil {
			return 0, fmt.Errorf("spawn %s: %w", kind, err)
		}
	}
	id := s.world.NewEntity()
	s.world.SetComponent(id, compTransform, &Transform{Loc: at})
	s.world.SetComponent(id, compUnit, &UnitComponent{Kind: kind, Health: CreeperHealth, Tags: map[string]string{}})
	s.world.SetComponent(id, compEffects, &EffectsComponent{Active: map[EffectKind]effectState{}})
	return UnitID(id), nil
}

func (s *SimWorld) Remove(id UnitID) {
	eid := EntityID(id)
	if nav := s.world.Nav(eid); nav != nil {
		delete(s.navUnits, nav.Handle)
	}
	s.world.RemoveEntity(eid)
}

func (s *SimWorld) Alive(id UnitID) bool {
	u := s.world.Unit(EntityID(id))
	return u != nil && u.Health > 0
}

func (s *SimWorld) Position(id UnitID) (Location, bool) {
	tr := s.world.Transform(EntityID(id))
	if tr == nil {
		return Location{}, false
	}
	return tr.Loc, true
}

func (s *SimWorld) Teleport(id UnitID, to Location) {
	if tr := s.world.Transform(EntityID(id)); tr != nil {
		tr.Loc = to
	}
}

func (s *SimWorld) Velocity(id UnitID) Vec3 {
	if tr := s.world.Transform(EntityID(id)); tr != nil {
		return tr.Vel
	}
	return Vec3{}
}

func (s *SimWorld) SetVelocity(id UnitID, v Vec3) {
	if tr := s.world.Transform(EntityID(id)); tr != nil {
		tr.Vel = v
	}
}

func (s *SimWorld) ApplyEffect(id UnitID, kind EffectKind, level int, d time.Duration) {
	fx := s.world.Effects(EntityID(id))
	if fx == nil {
		return
	}
	if level <= 0 || (d != Permanent && d <= 0) {
		delete(fx.Active, kind)
		return
	}
	state := effectState{Level: level, Permanent: d == Permanent}
	if !state.Permanent {
		state.Until = s.clock().Add(d)
	}
	fx.Active[kind] = state
}

func (s *SimWorld) EffectLevel(id UnitID, kind EffectKind) int {
	fx := s.world.Effects(EntityID(id))
	if fx == nil {
		return 0
	}
	state, ok := fx.Active[kind]
	if !ok || (!state.Permanent && !s.clock().Before(state.Until)) {
		return 0
	}
	return state.Level
}

func (s *SimWorld) SetLabel(id UnitID, label string) {
	if u := s.world.Unit(EntityID(id)); u != nil {
		u.Label = label
	}
}

func (s *SimWorld) Label(id UnitID) string {
	if u := s.world.Unit(EntityID(id)); u != nil {
		return u.Label
	}
	return ""
}

func (s *SimWorld) Tag(id UnitID, key, value string) {
	if u := s.world.Unit(EntityID(id)); u != nil {
		u.Tags[key] = value
	}
}

func (s *SimWorld) TagValue(id UnitID, key string) string {
	if u := s.world.Unit(EntityID(id)); u != nil {
		return u.Tags[key]
	}
	return ""
}

func (s *SimWorld) SetProtected(id UnitID, protected bool) {
	if u := s.world.Unit(EntityID(id)); u != nil {
		u.Protected = protected
	}
}

func (s *SimWorld) Explode(at Location, power float64) {
	s.explosions = append(s.explosions, Explosion{At: at, Power: power, Time: s.clock()})
	if over := len(s.explosions) - ExplosionLogLimit; over > 0 {
		s.explosions = append([]Explosion(nil), s.explosions[over:]...)
	}
}

func (s *SimWorld) Explosions() []Explosion {
	return append([]Explosion(nil), s.explosions...)
}

// Units lists live units in ascending id order.
func (s *SimWorld) Units() []UnitID {
	var out []UnitID
	s.world.ForEach([]ComponentKey{compUnit}, func(id EntityID) {
		if s.Alive(UnitID(id)) {
			out = append(out, UnitID(id))
		}
	})
	return out
}

func (s *SimWorld) NavigationAvailable() bool { return s.navigation }

func (s *SimWorld) SpawnNavigable(kind UnitKind, at Location) (UnitID, NavHandle, error) {
	if !s.navigation {
		return 0, 0, errors.New("navigation unavailable")
	}
	id, err := s.Spawn(kind, at)
	if err != nil {
		return 0, 0, err
	}
	s.nextNav++
	h := s.nextNav
	s.navUnits[h] = EntityID(id)
	s.world.SetComponent(EntityID(id), compNav, &NavComponent{Handle: h})
	return id, h, nil
}

func (s *SimWorld) SetNavTarget(h NavHandle, target Location) bool {
	eid, ok := s.navUnits[h]
	if !ok {
		return false
	}
	nav := s.world.Nav(eid)
	tr := s.world.Transform(eid)
	if nav == nil || tr == nil || !tr.Loc.SameWorld(target) {
		return false
	}
	nav.Target = target
	nav.HasTarget = true
	return true
}

func (s *SimWorld) ReleaseNav(h NavHandle) {
	eid, ok := s.navUnits[h]
	if !ok {
		return
	}
	delete(s.navUnits, h)
	s.world.RemoveComponent(eid, compNav)
}

// NavTarget reports where a navigated unit is heading.
func (s *SimWorld) NavTarget(id UnitID) (Location, bool) {
	nav := s.world.Nav(EntityID(id))
	if nav == nil || !nav.HasTarget {
		return Location{}, false
	}
	return nav.Target, true
}

// Damage hurts a unit on behalf of attacker. Protected units and damage the
// listener cancels are ignored. A hit pushes the unit back along its heading.
func (s *SimWorld) Damage(id UnitID, amount float64, attacker string) bool {
	eid := EntityID(id)
	u := s.world.Unit(eid)
	tr := s.world.Transform(eid)
	if u == nil || tr == nil || u.Health <= 0 || u.Protected {
		return false
	}
	if s.listener != nil && !s.listener.UnitDamaged(id, attacker) {
		return false
	}

	heading := tr.Vel.Horizontal()
	if nav := s.world.Nav(eid); nav != nil && nav.HasTarget {
		heading = nav.Target.Pos.Sub(tr.Loc.Pos).Horizontal()
	}
	if l := heading.Len(); l > 1e-9 {
		tr.Vel = tr.Vel.Add(heading.Scale(-KnockbackImpulse / l))
	}

	u.Health -= amount
	if u.Health > 0 {
		return true
	}
	u.Health = 0
	if s.listener != nil {
		s.listener.UnitDied(id, attacker)
	}
	s.Remove(id)
	return true
}

// Step advances every unit by one tick.
func (s *SimWorld) Step() {
	now := s.clock()
	s.world.ForEach([]ComponentKey{compTransform, compUnit}, func(id EntityID) {
		tr := s.world.Transform(id)
		if fx := s.world.Effects(id); fx != nil {
			for kind, state := range fx.Active {
				if !state.Permanent && !now.Before(state.Until) {
					delete(fx.Active, kind)
				}
			}
		}

		slow := s.EffectLevel(UnitID(id), EffectSlow)
		if slow > FrozenSlowThreshold {
			tr.Vel = Vec3{}
			return
		}
		mult := math.Max(0, 1-SlowPerLevel*float64(slow))
		mult *= 1 + SpeedPerLevel*float64(s.EffectLevel(UnitID(id), EffectSpeed))

		if nav := s.world.Nav(id); nav != nil && nav.HasTarget {
			dir := nav.Target.Pos.Sub(tr.Loc.Pos).Horizontal()
			dist := dir.Len()
			step := NavSpeed * mult
			if dist <= step {
				tr.Loc.Pos.X, tr.Loc.Pos.Z = nav.Target.Pos.X, nav.Target.Pos.Z
				tr.Vel = Vec3{}
				return
			}
			tr.Vel = dir.Scale(step / dist)
			tr.Loc.Pos = tr.Loc.Pos.Add(tr.Vel)
			return
		}

		move := tr.Vel.Horizontal().Scale(mult)
		tr.Loc.Pos = tr.Loc.Pos.Add(move)
		tr.Vel = Vec3{X: tr.Vel.X * GroundFriction, Z: tr.Vel.Z * GroundFriction}
	})
}
