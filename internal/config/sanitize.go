package config

import (
	"strings"
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func atLeast(v, lo int) int {
	if v < lo {
		return lo
	}
	return v
}

// Sanitize clamps out-of-range values back into their legal ranges and
// normalizes the shop catalog. It mutates and returns cfg.
func Sanitize(cfg *Config) *Config {
	def := Default()

	if cfg.Trader.MaxHealth <= 0 {
		cfg.Trader.MaxHealth = def.Trader.MaxHealth
	}
	if strings.TrimSpace(cfg.Trader.Name) == "" {
		cfg.Trader.Name = def.Trader.Name
	}
	cfg.Trader.ExplosionDamagePercent = atLeast(cfg.Trader.ExplosionDamagePercent, 0)
	if cfg.Trader.TriggerRadius < 0 {
		cfg.Trader.TriggerRadius = 0
	}
	cfg.Trader.CountdownSeconds = atLeast(cfg.Trader.CountdownSeconds, 0)

	cfg.Waves.MaxWaves = atLeast(cfg.Waves.MaxWaves, 1)
	cfg.Waves.IntervalSeconds = atLeast(cfg.Waves.IntervalSeconds, 0)
	cfg.Waves.InitialDelaySeconds = atLeast(cfg.Waves.InitialDelaySeconds, 0)
	cfg.Waves.SpawnPerWave.Base = atLeast(cfg.Waves.SpawnPerWave.Base, 0)
	cfg.Waves.SpawnPerWave.Increase = atLeast(cfg.Waves.SpawnPerWave.Increase, 0)
	cfg.Waves.BatchSpawn.Size = atLeast(cfg.Waves.BatchSpawn.Size, 1)
	cfg.Waves.BatchSpawn.PeriodTicks = atLeast(cfg.Waves.BatchSpawn.PeriodTicks, 1)

	cfg.Economy.KillReward.Creeper = atLeast(cfg.Economy.KillReward.Creeper, 0)
	cfg.Economy.DeathPenaltyPercent = clampInt(cfg.Economy.DeathPenaltyPercent, 0, 100)

	cfg.UI.Scoreboard.RefreshSeconds = atLeast(cfg.UI.Scoreboard.RefreshSeconds, 1)
	thresholds := cfg.UI.TraderLowHPThresholds[:0:0]
	for _, t := range cfg.UI.TraderLowHPThresholds {
		if t > 0 && t <= 100 {
			thresholds = append(thresholds, t)
		}
	}
	cfg.UI.TraderLowHPThresholds = thresholds

	if cfg.Messages == nil {
		cfg.Messages = map[string]string{}
	}
	for key, msg := range def.Messages {
		if _, ok := cfg.Messages[key]; !ok {
			cfg.Messages[key] = msg
		}
	}
	cfg.Scoreboard.Width = atLeast(cfg.Scoreboard.Width, 0)

	cfg.Timing.TickMillis = atLeast(cfg.Timing.TickMillis, 1)
	cfg.Timing.ProximityPeriodTicks = atLeast(cfg.Timing.ProximityPeriodTicks, 1)
	cfg.Timing.KnockbackPeriodTicks = atLeast(cfg.Timing.KnockbackPeriodTicks, 1)
	cfg.Timing.KnockbackWindowMillis = atLeast(cfg.Timing.KnockbackWindowMillis, 0)
	cfg.Timing.MovementPeriodTicks = atLeast(cfg.Timing.MovementPeriodTicks, 1)
	if cfg.Timing.UnitSpeed < 0 {
		cfg.Timing.UnitSpeed = 0
	}
	cfg.Timing.FreezeLockPeriodTicks = atLeast(cfg.Timing.FreezeLockPeriodTicks, 1)

	items := cfg.Shop.Items[:0]
	seen := make(map[string]bool, len(cfg.Shop.Items))
	for _, item := range cfg.Shop.Items {
		item.ID = strings.TrimSpace(item.ID)
		if item.ID == "" || seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		item.Price = atLeast(item.Price, 0)
		item.CooldownSeconds = atLeast(item.CooldownSeconds, 0)
		item.Amount = atLeast(item.Amount, 0)
		if item.Material == "" {
			item.Material = "STONE"
		}
		if item.Name == "" {
			item.Name = item.Material
		}
		if item.Effect != nil {
			item.Effect.Type = strings.ToUpper(strings.TrimSpace(item.Effect.Type))
			if item.Effect.Type == "" {
				item.Effect.Type = "GIVE_ITEM"
			}
			if item.Effect.Params == nil {
				item.Effect.Params = map[string]any{}
			}
		}
		items = append(items, item)
	}
	cfg.Shop.Items = items
	cfg.linkEffects()
	return cfg
}
