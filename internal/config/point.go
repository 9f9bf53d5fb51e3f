package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPoint reports a location string that cannot be parsed.
var ErrInvalidPoint = errors.New("invalid point")

// Point is a world-qualified position. It is written to the config file as
// "world,x,y,z[,yaw,pitch]"; the empty string means unset.
type Point struct {
	World string
	X     float64
	Y     float64
	Z     float64
	Yaw   float64
	Pitch float64
}

// IsSet reports whether the point names a world.
func (p Point) IsSet() bool { return p.World != "" }

func (p Point) String() string {
	if !p.IsSet() {
		return ""
	}
	return strings.Join([]string{
		p.World,
		formatCoord(p.X),
		formatCoord(p.Y),
		formatCoord(p.Z),
		formatCoord(p.Yaw),
		formatCoord(p.Pitch),
	}, ",")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParsePoint parses "world,x,y,z" with optional ",yaw,pitch".
func ParsePoint(raw string) (Point, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Point{}, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) < 4 {
		return Point{}, fmt.Errorf("%w: %q needs world,x,y,z", ErrInvalidPoint, raw)
	}
	world := strings.TrimSpace(parts[0])
	if world == "" {
		return Point{}, fmt.Errorf("%w: %q has no world", ErrInvalidPoint, raw)
	}
	coords := make([]float64, 0, 5)
	for _, part := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Point{}, fmt.Errorf("%w: %q: %v", ErrInvalidPoint, raw, err)
		}
		coords = append(coords, v)
	}
	p := Point{World: world, X: coords[0], Y: coords[1], Z: coords[2]}
	if len(coords) >= 5 {
		p.Yaw = coords[3]
		p.Pitch = coords[4]
	}
	return p, nil
}

func (p Point) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParsePoint(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Point) UnmarshalText(text []byte) error {
	parsed, err := ParsePoint(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// JSONSchema describes the string form used in the config file.
func (Point) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Title:       "Location",
		Description: "world,x,y,z with optional yaw,pitch; empty when unset",
	}
}
