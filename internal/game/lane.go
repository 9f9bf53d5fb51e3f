package game

import "CreeperAttack/internal/config"

// Lane is one hostile corridor. Its id never changes; the points are set
// from configuration when a game starts.
type Lane struct {
	id    int
	Spawn *Location
	End   *Location
}

func NewLane(id int) *Lane { return &Lane{id: id} }

func (l *Lane) ID() int { return l.id }

// SetPoints copies configured points; unset points clear the field.
func (l *Lane) SetPoints(p config.LanePoints) {
	l.Spawn = nil
	l.End = nil
	if loc, ok := LocationFromPoint(p.Spawn); ok {
		l.Spawn = &loc
	}
	if loc, ok := LocationFromPoint(p.End); ok {
		l.End = &loc
	}
}

// Valid reports whether both points are set and their worlds exist.
func (l *Lane) Valid(w WorldProvider) bool {
	if l.Spawn == nil || l.End == nil {
		return false
	}
	return w.HasWorld(l.Spawn.World) && w.HasWorld(l.End.World)
}
