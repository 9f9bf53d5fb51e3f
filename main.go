package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"CreeperAttack/internal/config"
	"CreeperAttack/internal/server"
)

func main() {
	defaults := server.DefaultAppConfig()
	addr := flag.String("addr", defaults.Addr, "address to listen on (e.g., 127.0.0.1:8080)")
	configPath := flag.String("config", defaults.ConfigPath, "path to the arena YAML file")
	worlds := flag.String("worlds", "world", "comma separated worlds the simulated server hosts")
	navigation := flag.Bool("navigation", defaults.Navigation, "enable pathfinding for spawned units")
	seed := flag.Int64("seed", 0, "random seed for lane picks (0 = time based)")

	traderHealth := flag.Int("trader-health", 0, "override trader max health")
	explosionPct := flag.Int("explosion-damage", 0, "override explosion damage percent of max health")
	triggerRadius := flag.Float64("trigger-radius", math.NaN(), "override proximity trigger radius")
	countdown := flag.Int("countdown", 0, "override explosion countdown seconds")
	maxWaves := flag.Int("max-waves", 0, "override number of waves to win")
	interval := flag.Int("wave-interval", 0, "override seconds between waves")
	initialDelay := flag.Int("initial-delay", 0, "override seconds before the first wave")
	spawnBase := flag.Int("spawn-base", 0, "override base units per wave")
	spawnIncrease := flag.Int("spawn-increase", 0, "override extra units per wave")
	batchSize := flag.Int("batch-size", 0, "override units per spawn batch")
	batchPeriod := flag.Int("batch-period", 0, "override ticks between spawn batches")
	killReward := flag.Int("kill-reward", 0, "override coins per kill")
	deathPenalty := flag.Int("death-penalty", 0, "override percent of coins lost on death")
	shopEnabled := flag.Bool("shop", true, "override shop availability")
	shopBetween := flag.Bool("shop-between-waves", true, "override between-waves-only shop rule")
	tickMillis := flag.Int("tick-ms", 0, "override tick length in milliseconds")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	intFlag := func(name string, v *int) *int {
		if !set[name] {
			return nil
		}
		val := *v
		return &val
	}
	boolFlag := func(name string, v *bool) *bool {
		if !set[name] {
			return nil
		}
		val := *v
		return &val
	}

	var overrides config.Overrides
	overrides.TraderMaxHealth = intFlag("trader-health", traderHealth)
	overrides.ExplosionDamagePercent = intFlag("explosion-damage", explosionPct)
	if !math.IsNaN(*triggerRadius) {
		val := *triggerRadius
		overrides.TriggerRadius = &val
	}
	overrides.CountdownSeconds = intFlag("countdown", countdown)
	overrides.MaxWaves = intFlag("max-waves", maxWaves)
	overrides.IntervalSeconds = intFlag("wave-interval", interval)
	overrides.InitialDelaySeconds = intFlag("initial-delay", initialDelay)
	overrides.SpawnBase = intFlag("spawn-base", spawnBase)
	overrides.SpawnIncrease = intFlag("spawn-increase", spawnIncrease)
	overrides.BatchSize = intFlag("batch-size", batchSize)
	overrides.BatchPeriodTicks = intFlag("batch-period", batchPeriod)
	overrides.KillReward = intFlag("kill-reward", killReward)
	overrides.DeathPenaltyPercent = intFlag("death-penalty", deathPenalty)
	overrides.ShopEnabled = boolFlag("shop", shopEnabled)
	overrides.ShopBetweenWavesOnly = boolFlag("shop-between-waves", shopBetween)
	overrides.TickMillis = intFlag("tick-ms", tickMillis)

	cfg := defaults
	cfg.Addr = *addr
	cfg.ConfigPath = *configPath
	cfg.Worlds = server.ParseWorlds(*worlds)
	cfg.Navigation = *navigation
	cfg.Seed = *seed
	cfg.Overrides = overrides

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.StartApp(ctx, cfg); err != nil {
		log.Fatalf("creeperattack: %v", err)
	}
}
