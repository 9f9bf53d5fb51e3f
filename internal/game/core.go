package game

import (
	"log"
	"math"

	"CreeperAttack/internal/config"
)

type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) LenSq() float64       { return a.X*a.X + a.Y*a.Y + a.Z*a.Z }
func (a Vec3) Len() float64         { return math.Sqrt(a.LenSq()) }

// Horizontal drops the vertical component.
func (a Vec3) Horizontal() Vec3 { return Vec3{X: a.X, Z: a.Z} }

// Location is a position inside a named world.
type Location struct {
	World string
	Pos   Vec3
	Yaw   float64
	Pitch float64
}

func LocationFromPoint(p config.Point) (Location, bool) {
	if !p.IsSet() {
		return Location{}, false
	}
	return Location{
		World: p.World,
		Pos:   Vec3{X: p.X, Y: p.Y, Z: p.Z},
		Yaw:   p.Yaw,
		Pitch: p.Pitch,
	}, true
}

func (l Location) Point() config.Point {
	return config.Point{World: l.World, X: l.Pos.X, Y: l.Pos.Y, Z: l.Pos.Z, Yaw: l.Yaw, Pitch: l.Pitch}
}

func (l Location) SameWorld(o Location) bool { return l.World == o.World }

// DistSq ignores the world; callers check SameWorld first.
func (l Location) DistSq(o Location) float64 { return l.Pos.Sub(o.Pos).LenSq() }

func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Logger is the narrow logging surface the engine writes to.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a printf-style function to Logger.
type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) { f(format, args...) }

// StdLogger writes through the standard library logger.
func StdLogger() Logger { return LoggerFunc(log.Printf) }

func discardLogger() Logger { return LoggerFunc(func(string, ...any) {}) }

// ConfigSource yields the current arena configuration snapshot.
type ConfigSource interface {
	Current() *config.Config
}
