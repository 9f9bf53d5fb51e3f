package game

import (
	"sort"
	"time"
)

type EntityID int64

type ComponentKey string

// World is a component store keyed by entity id.
type World struct {
	nextEntity EntityID
	components map[ComponentKey]map[EntityID]any
}

type Transform struct {
	Loc Location
	Vel Vec3
}

type UnitComponent struct {
	Kind      UnitKind
	Health    float64
	Label     string
	Tags      map[string]string
	Protected bool
}

type effectState struct {
	Level int
	Until time.Time
	// Permanent effects ignore Until.
	Permanent bool
}

type EffectsComponent struct {
	Active map[EffectKind]effectState
}

type NavComponent struct {
	Handle    NavHandle
	Target    Location
	HasTarget bool
}

const (
	compTransform ComponentKey = "transform"
	compUnit      ComponentKey = "unit"
	compEffects   ComponentKey = "effects"
	compNav       ComponentKey = "nav"
)

func (w *World) Transform(id EntityID) *Transform {
	if v, ok := w.GetComponent(id, compTransform); ok {
		if t, ok := v.(*Transform); ok {
			return t
		}
	}
	return nil
}

func (w *World) Unit(id EntityID) *UnitComponent {
	if v, ok := w.GetComponent(id, compUnit); ok {
		if t, ok := v.(*UnitComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) Effects(id EntityID) *EffectsComponent {
	if v, ok := w.GetComponent(id, compEffects); ok {
		if t, ok := v.(*EffectsComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) Nav(id EntityID) *NavComponent {
	if v, ok := w.GetComponent(id, compNav); ok {
		if t, ok := v.(*NavComponent); ok {
			return t
		}
	}
	return nil
}

func newWorld() *World {
	return &World{
		nextEntity: 0,
		components: make(map[ComponentKey]map[EntityID]any),
	}
}

func (w *World) NewEntity() EntityID {
	w.nextEntity++
	return w.nextEntity
}

func (w *World) SetComponent(id EntityID, key ComponentKey, value any) {
	store, ok := w.components[key]
	if !ok {
		store = make(map[EntityID]any)
		w.components[key] = store
	}
	store[id] = value
}

func (w *World) RemoveComponent(id EntityID, key ComponentKey) {
	if store, ok := w.components[key]; ok {
		delete(store, id)
	}
}

func (w *World) GetComponent(id EntityID, key ComponentKey) (any, bool) {
	if store, ok := w.components[key]; ok {
		val, ok := store[id]
		return val, ok
	}
	return nil, false
}

func (w *World) RemoveEntity(id EntityID) {
	for _, store := range w.components {
		delete(store, id)
	}
}

// ForEach visits entities holding every required component in ascending id
// order, so a step is reproducible.
func (w *World) ForEach(required []ComponentKey, fn func(EntityID)) {
	if len(required) == 0 {
		return
	}
	first := w.components[required[0]]
	if first == nil {
		return
	}
	ids := make([]EntityID, 0, len(first))
	for id := range first {
		match := true
		for _, key := range required[1:] {
			if store := w.components[key]; store == nil {
				match = false
				break
			} else if _, ok := store[id]; !ok {
				match = false
				break
			}
		}
		if match {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id)
	}
}

