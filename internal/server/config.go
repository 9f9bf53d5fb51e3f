package server

import (
	"fmt"
	"strings"

	"CreeperAttack/internal/config"
	"CreeperAttack/internal/game"
)

type AppConfig struct {
	Addr       string
	ConfigPath string
	Overrides  config.Overrides
	// Worlds the simulated world provider hosts besides the ones the arena
	// file references.
	Worlds     []string
	Navigation bool
	Seed       int64
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Addr:       ":8080",
		ConfigPath: config.DefaultPath,
		Worlds:     []string{"world"},
		Navigation: true,
	}
}

// ParseWorlds splits a comma separated world list, dropping blanks.
func ParseWorlds(raw string) []string {
	var out []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func loadConfig(cfg AppConfig, logger game.Logger) (*config.Service, error) {
	svc := config.NewService(cfg.ConfigPath, cfg.Overrides)
	created, err := svc.LoadOrCreate()
	if err != nil {
		return nil, fmt.Errorf("arena config: %w", err)
	}
	if created {
		logger.Printf("wrote default arena config to %s", svc.Path())
	}
	if missing := svc.Validate(); len(missing) > 0 {
		logger.Printf("arena config incomplete, games cannot start until set: %s", strings.Join(missing, ", "))
	}
	return svc, nil
}

// worldNames merges the configured world list with every world the arena
// file points at.
func worldNames(cfg AppConfig, arena *config.Config) []string {
	seen := map[string]bool{}
	var out []string
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, w := range cfg.Worlds {
		add(w)
	}
	add(arena.Trader.Location.World)
	for id := 1; id <= config.LaneCount; id++ {
		if lane, err := arena.Lanes.Lane(id); err == nil {
			add(lane.Spawn.World)
			add(lane.End.World)
		}
	}
	return out
}
