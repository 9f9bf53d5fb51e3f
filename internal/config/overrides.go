package config

// Overrides represents optional command-line overrides applied after the file
// is loaded. Nil fields leave the file value alone.
type Overrides struct {
	TraderMaxHealth        *int
	ExplosionDamagePercent *int
	TriggerRadius          *float64
	CountdownSeconds       *int
	MaxWaves               *int
	IntervalSeconds        *int
	InitialDelaySeconds    *int
	SpawnBase              *int
	SpawnIncrease          *int
	BatchSize              *int
	BatchPeriodTicks       *int
	KillReward             *int
	DeathPenaltyPercent    *int
	ShopEnabled            *bool
	ShopBetweenWavesOnly   *bool
	TickMillis             *int
}

// Apply writes the set fields into cfg and re-sanitizes it.
func (o Overrides) Apply(cfg *Config) *Config {
	if o.TraderMaxHealth != nil {
		cfg.Trader.MaxHealth = *o.TraderMaxHealth
	}
	if o.ExplosionDamagePercent != nil {
		cfg.Trader.ExplosionDamagePercent = *o.ExplosionDamagePercent
	}
	if o.TriggerRadius != nil {
		cfg.Trader.TriggerRadius = *o.TriggerRadius
	}
	if o.CountdownSeconds != nil {
		cfg.Trader.CountdownSeconds = *o.CountdownSeconds
	}
	if o.MaxWaves != nil {
		cfg.Waves.MaxWaves = *o.MaxWaves
	}
	if o.IntervalSeconds != nil {
		cfg.Waves.IntervalSeconds = *o.IntervalSeconds
	}
	if o.InitialDelaySeconds != nil {
		cfg.Waves.InitialDelaySeconds = *o.InitialDelaySeconds
	}
	if o.SpawnBase != nil {
		cfg.Waves.SpawnPerWave.Base = *o.SpawnBase
	}
	if o.SpawnIncrease != nil {
		cfg.Waves.SpawnPerWave.Increase = *o.SpawnIncrease
	}
	if o.BatchSize != nil {
		cfg.Waves.BatchSpawn.Size = *o.BatchSize
	}
	if o.BatchPeriodTicks != nil {
		cfg.Waves.BatchSpawn.PeriodTicks = *o.BatchPeriodTicks
	}
	if o.KillReward != nil {
		cfg.Economy.KillReward.Creeper = *o.KillReward
	}
	if o.DeathPenaltyPercent != nil {
		cfg.Economy.DeathPenaltyPercent = *o.DeathPenaltyPercent
	}
	if o.ShopEnabled != nil {
		cfg.Shop.Enabled = *o.ShopEnabled
	}
	if o.ShopBetweenWavesOnly != nil {
		cfg.Shop.OpenBetweenWavesOnly = *o.ShopBetweenWavesOnly
	}
	if o.TickMillis != nil {
		cfg.Timing.TickMillis = *o.TickMillis
	}
	return Sanitize(cfg)
}

// Empty reports whether no override is set.
func (o Overrides) Empty() bool {
	return o == Overrides{}
}
