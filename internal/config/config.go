package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LaneCount is the fixed number of hostile corridors in an arena.
const LaneCount = 4

// ErrInvalidLane reports a lane id outside 1..LaneCount or an unknown point kind.
var ErrInvalidLane = errors.New("invalid lane")

// Config is the whole arena file. Field tags follow the YAML layout on disk.
type Config struct {
	Trader     TraderConfig      `yaml:"trader" json:"trader"`
	Lanes      LanesConfig       `yaml:"lanes" json:"lanes"`
	Waves      WavesConfig       `yaml:"waves" json:"waves"`
	Economy    EconomyConfig     `yaml:"economy" json:"economy"`
	Shop       ShopConfig        `yaml:"shop" json:"shop"`
	UI         UIConfig          `yaml:"ui" json:"ui"`
	Messages   map[string]string `yaml:"messages" json:"messages"`
	Scoreboard ScoreboardConfig  `yaml:"scoreboard" json:"scoreboard"`
	Timing     TimingConfig      `yaml:"timing" json:"timing"`
}

type TraderConfig struct {
	Location               Point   `yaml:"location" json:"location"`
	Name                   string  `yaml:"name" json:"name"`
	MaxHealth              int     `yaml:"max_health" json:"max_health" jsonschema:"minimum=1"`
	ExplosionDamagePercent int     `yaml:"explosion_damage_percent" json:"explosion_damage_percent" jsonschema:"minimum=0"`
	TriggerRadius          float64 `yaml:"trigger_radius" json:"trigger_radius" jsonschema:"minimum=0"`
	CountdownSeconds       int     `yaml:"countdown_seconds" json:"countdown_seconds" jsonschema:"minimum=0"`
	Invulnerable           bool    `yaml:"invulnerable" json:"invulnerable"`
}

type LanePoints struct {
	Spawn Point `yaml:"spawn" json:"spawn"`
	End   Point `yaml:"end" json:"end"`
}

type LanesConfig struct {
	Lane1 LanePoints `yaml:"lane1" json:"lane1"`
	Lane2 LanePoints `yaml:"lane2" json:"lane2"`
	Lane3 LanePoints `yaml:"lane3" json:"lane3"`
	Lane4 LanePoints `yaml:"lane4" json:"lane4"`
}

// Lane returns the points for lane id (1-based).
func (l *LanesConfig) Lane(id int) (*LanePoints, error) {
	switch id {
	case 1:
		return &l.Lane1, nil
	case 2:
		return &l.Lane2, nil
	case 3:
		return &l.Lane3, nil
	case 4:
		return &l.Lane4, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidLane, id)
}

type SpawnPerWave struct {
	Base     int `yaml:"base" json:"base" jsonschema:"minimum=0"`
	Increase int `yaml:"increase" json:"increase" jsonschema:"minimum=0"`
}

type BatchSpawn struct {
	Size        int `yaml:"size" json:"size" jsonschema:"minimum=1"`
	PeriodTicks int `yaml:"period_ticks" json:"period_ticks" jsonschema:"minimum=1"`
}

type WavesConfig struct {
	MaxWaves            int          `yaml:"max_waves" json:"max_waves" jsonschema:"minimum=1"`
	IntervalSeconds     int          `yaml:"interval_seconds" json:"interval_seconds" jsonschema:"minimum=0"`
	InitialDelaySeconds int          `yaml:"initial_delay_seconds" json:"initial_delay_seconds" jsonschema:"minimum=0"`
	SpawnPerWave        SpawnPerWave `yaml:"spawn_per_wave" json:"spawn_per_wave"`
	BatchSpawn          BatchSpawn   `yaml:"batch_spawn" json:"batch_spawn"`
}

type KillReward struct {
	Creeper int `yaml:"creeper" json:"creeper" jsonschema:"minimum=0"`
}

type EconomyConfig struct {
	KillReward          KillReward `yaml:"kill_reward" json:"kill_reward"`
	DeathPenaltyPercent int        `yaml:"death_penalty_percent" json:"death_penalty_percent" jsonschema:"minimum=0,maximum=100"`
}

type ShopConfig struct {
	Enabled              bool       `yaml:"enabled" json:"enabled"`
	OpenBetweenWavesOnly bool       `yaml:"open_between_waves_only" json:"open_between_waves_only"`
	Items                []ShopItem `yaml:"items" json:"items"`
}

// Item looks up a catalog entry by id.
func (s *ShopConfig) Item(id string) (*ShopItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

type ShopItem struct {
	ID              string        `yaml:"id" json:"id"`
	Category        string        `yaml:"type,omitempty" json:"type,omitempty"`
	Name            string        `yaml:"name" json:"name"`
	Material        string        `yaml:"material" json:"material"`
	Amount          int           `yaml:"amount,omitempty" json:"amount,omitempty"`
	Lore            []string      `yaml:"lore,omitempty" json:"lore,omitempty"`
	Price           int           `yaml:"price" json:"price" jsonschema:"minimum=0"`
	CooldownSeconds int           `yaml:"cooldown_seconds,omitempty" json:"cooldown_seconds,omitempty" jsonschema:"minimum=0"`
	Effect          *EffectConfig `yaml:"effect,omitempty" json:"effect,omitempty"`
}

// EffectConfig names a handler and carries its free-form parameters.
// Item points back at the owning catalog entry once the config is sanitized.
type EffectConfig struct {
	Type   string         `yaml:"type" json:"type"`
	Params map[string]any `yaml:",inline" json:"-"`
	Item   *ShopItem      `yaml:"-" json:"-"`
}

// Int reads an integer parameter, accepting any numeric YAML scalar.
func (e EffectConfig) Int(key string, def int) int {
	v, ok := e.Params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return def
}

// String reads a string parameter.
func (e EffectConfig) String(key, def string) string {
	if v, ok := e.Params[key].(string); ok && v != "" {
		return v
	}
	return def
}

type Toggle struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

type ScoreboardToggle struct {
	Enabled        bool `yaml:"enabled" json:"enabled"`
	RefreshSeconds int  `yaml:"refresh_seconds" json:"refresh_seconds" jsonschema:"minimum=1"`
}

type UIConfig struct {
	Scoreboard            ScoreboardToggle `yaml:"scoreboard" json:"scoreboard"`
	Title                 Toggle           `yaml:"title" json:"title"`
	Chat                  Toggle           `yaml:"chat" json:"chat"`
	TraderLowHPThresholds []int            `yaml:"trader_lowhp_thresholds" json:"trader_lowhp_thresholds"`
}

type ScoreboardConfig struct {
	Title string   `yaml:"title" json:"title"`
	Lines []string `yaml:"lines" json:"lines"`
	Width int      `yaml:"width" json:"width" jsonschema:"minimum=0"`
}

// TimingConfig holds loop cadences in host ticks.
type TimingConfig struct {
	TickMillis            int     `yaml:"tick_millis" json:"tick_millis" jsonschema:"minimum=1"`
	ProximityPeriodTicks  int     `yaml:"proximity_period_ticks" json:"proximity_period_ticks" jsonschema:"minimum=1"`
	KnockbackPeriodTicks  int     `yaml:"knockback_period_ticks" json:"knockback_period_ticks" jsonschema:"minimum=1"`
	KnockbackWindowMillis int     `yaml:"knockback_window_millis" json:"knockback_window_millis" jsonschema:"minimum=0"`
	MovementPeriodTicks   int     `yaml:"movement_period_ticks" json:"movement_period_ticks" jsonschema:"minimum=1"`
	UnitSpeed             float64 `yaml:"unit_speed" json:"unit_speed" jsonschema:"minimum=0"`
	FreezeLockPeriodTicks int     `yaml:"freeze_lock_period_ticks" json:"freeze_lock_period_ticks" jsonschema:"minimum=1"`
}

// Message returns the prefixed template for key.
func (c *Config) Message(key string) string {
	return c.Messages["prefix"] + c.RawMessage(key)
}

// RawMessage returns the template for key without the prefix.
func (c *Config) RawMessage(key string) string {
	if msg, ok := c.Messages[key]; ok {
		return msg
	}
	return "&cMissing message: " + key
}

// Validate lists the required locations that are still unset.
func (c *Config) Validate() []string {
	var missing []string
	if !c.Trader.Location.IsSet() {
		missing = append(missing, "trader.location")
	}
	for id := 1; id <= LaneCount; id++ {
		lane, _ := c.Lanes.Lane(id)
		if !lane.Spawn.IsSet() {
			missing = append(missing, fmt.Sprintf("lanes.lane%d.spawn", id))
		}
		if !lane.End.IsSet() {
			missing = append(missing, fmt.Sprintf("lanes.lane%d.end", id))
		}
	}
	return missing
}

// Clone returns a deep copy safe to mutate.
func (c *Config) Clone() *Config {
	out := *c
	out.Messages = make(map[string]string, len(c.Messages))
	for k, v := range c.Messages {
		out.Messages[k] = v
	}
	out.UI.TraderLowHPThresholds = append([]int(nil), c.UI.TraderLowHPThresholds...)
	out.Scoreboard.Lines = append([]string(nil), c.Scoreboard.Lines...)
	out.Shop.Items = make([]ShopItem, len(c.Shop.Items))
	for i, item := range c.Shop.Items {
		item.Lore = append([]string(nil), item.Lore...)
		if item.Effect != nil {
			eff := *item.Effect
			eff.Params = make(map[string]any, len(item.Effect.Params))
			for k, v := range item.Effect.Params {
				eff.Params[k] = v
			}
			item.Effect = &eff
		}
		out.Shop.Items[i] = item
	}
	out.linkEffects()
	return &out
}

func (c *Config) linkEffects() {
	for i := range c.Shop.Items {
		if eff := c.Shop.Items[i].Effect; eff != nil {
			eff.Item = &c.Shop.Items[i]
		}
	}
}
