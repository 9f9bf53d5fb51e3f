package config

// Default returns the stock arena file: no locations, stock balancing.
func Default() *Config {
	cfg := &Config{
		Trader: TraderConfig{
			Name:                   "Trader",
			MaxHealth:              100,
			ExplosionDamagePercent: 10,
			TriggerRadius:          3.0,
			CountdownSeconds:       3,
			Invulnerable:           true,
		},
		Waves: WavesConfig{
			MaxWaves:            30,
			IntervalSeconds:     10,
			InitialDelaySeconds: 5,
			SpawnPerWave:        SpawnPerWave{Base: 8, Increase: 2},
			BatchSpawn:          BatchSpawn{Size: 4, PeriodTicks: 20},
		},
		Economy: EconomyConfig{
			KillReward:          KillReward{Creeper: 10},
			DeathPenaltyPercent: 33,
		},
		Shop: ShopConfig{
			Enabled:              true,
			OpenBetweenWavesOnly: false,
			Items:                defaultShopItems(),
		},
		UI: UIConfig{
			Scoreboard:            ScoreboardToggle{Enabled: true, RefreshSeconds: 1},
			Title:                 Toggle{Enabled: true},
			Chat:                  Toggle{Enabled: true},
			TraderLowHPThresholds: []int{25, 10},
		},
		Messages: defaultMessages(),
		Scoreboard: ScoreboardConfig{
			Title: "&6&lCreeperAttack",
			Lines: []string{
				"&7━━━━━━━━━━━━━━",
				"&fWave: &a%wave%/%maxwave%",
				"",
				"&fTrader HP:",
				"%trader_hp_bar%",
				"&c%trader_hp%&7/&c%trader_maxhp%",
				"",
				"&fCoins: &e%coins%",
				"&fKills: &a%kills%",
				"",
				"&fCreepers left: &c%creepers%",
				"&7━━━━━━━━━━━━━━",
			},
			Width: 24,
		},
		Timing: TimingConfig{
			TickMillis:            50,
			ProximityPeriodTicks:  5,
			KnockbackPeriodTicks:  2,
			KnockbackWindowMillis: 500,
			MovementPeriodTicks:   4,
			UnitSpeed:             0.15,
			FreezeLockPeriodTicks: 5,
		},
	}
	cfg.linkEffects()
	return cfg
}

func defaultMessages() map[string]string {
	return map[string]string{
		"prefix":              "&8[&6CreeperAttack&8] ",
		"wave_start":          "&aWave %wave% started!",
		"wave_end":            "&eWave %wave% cleared! Next wave in %seconds% seconds",
		"game_win":            "&a&lVictory! You survived all waves!",
		"game_lose":           "&c&lDefeat! Trader died!",
		"trader_low_hp":       "&c&lWarning! Trader low HP (%hp%/%maxhp%)",
		"creeper_countdown":   "&cCreeper will explode in %seconds%s!",
		"kill_reward":         "&a+%coins% coins",
		"death_penalty":       "&cDeath! Lost %percent%% coins",
		"shop_not_enough":     "&cNot enough coins!",
		"shop_cooldown":       "&cOn cooldown! %seconds%s left",
		"shop_success":        "&aPurchased!",
		"shop_closed":         "&cThe shop is closed during a wave.",
		"freeze_activated":    "&bFreeze activated! %seconds%s",
		"freeze_no_targets":   "&eNo creepers to freeze!",
		"heal_activated":      "&aHeal activated! +%percent%% HP",
		"heal_full":           "&eTrader is already at full HP!",
		"config_missing":      "&cMissing config: %missing%",
		"forcestart_success":  "&aGame started.",
		"forcestop_success":   "&cGame stopped.",
		"reload_success":      "&aReloaded.",
		"set_trader_success":  "&aTrader location set.",
		"set_lane_success":    "&aLane %lane% %type% set.",
		"title_wave_start":    "&a&lWave %wave%",
		"subtitle_wave_start": "&7Destroy every creeper!",
		"title_wave_end":      "&e&lWave cleared!",
		"subtitle_wave_end":   "&7Next wave in &a%seconds%&7 seconds",
		"title_win":           "&a&lVictory!",
		"subtitle_win":        "&7You held off every wave!",
		"title_lose":          "&c&lDefeat!",
		"subtitle_lose":       "&7The trader has fallen!",
		"trader_name":         "&6&l%name% %bar% &c%hp%&7/&c%maxhp%",
	}
}

func giveItem(id, category, name, material string, amount, price int, lore ...string) ShopItem {
	return ShopItem{
		ID:       id,
		Category: category,
		Name:     name,
		Material: material,
		Amount:   amount,
		Price:    price,
		Lore:     lore,
		Effect:   &EffectConfig{Type: "GIVE_ITEM", Params: map[string]any{}},
	}
}

func defaultShopItems() []ShopItem {
	return []ShopItem{
		giveItem("wooden_sword", "WEAPON", "&eWooden Sword", "WOOD_SWORD", 0, 10, "&7Basic weapon", "&aPrice: 10 coins"),
		giveItem("iron_sword", "WEAPON", "&fIron Sword", "IRON_SWORD", 0, 30, "&7Upgraded weapon", "&aPrice: 30 coins"),
		giveItem("diamond_sword", "WEAPON", "&bDiamond Sword", "DIAMOND_SWORD", 0, 80, "&7High tier weapon", "&aPrice: 80 coins"),
		giveItem("bow", "WEAPON", "&6Bow", "BOW", 0, 25, "&7Ranged weapon", "&aPrice: 25 coins"),
		giveItem("arrows", "CONSUMABLE", "&7Arrows x16", "ARROW", 16, 5, "&7Ammo for bow", "&aPrice: 5 coins"),
		giveItem("golden_apple", "CONSUMABLE", "&6Golden Apple", "GOLDEN_APPLE", 0, 20, "&7Heal yourself", "&aPrice: 20 coins"),
		{
			ID:              "freeze_creepers",
			Category:        "SPECIAL",
			Name:            "&bFreeze Creepers",
			Material:        "SNOW_BALL",
			Price:           50,
			CooldownSeconds: 30,
			Lore:            []string{"&7Freeze creepers for 5s", "&aPrice: 50 coins", "&cCooldown: 30s"},
			Effect: &EffectConfig{
				Type:   "FREEZE_CREEPERS",
				Params: map[string]any{"duration_seconds": 5},
			},
		},
		{
			ID:              "heal_trader",
			Category:        "SPECIAL",
			Name:            "&cHeal Trader",
			Material:        "RED_DYE",
			Price:           40,
			CooldownSeconds: 20,
			Lore:            []string{"&7Heal trader for 20% max HP", "&aPrice: 40 coins", "&cCooldown: 20s"},
			Effect: &EffectConfig{
				Type:   "HEAL_TRADER",
				Params: map[string]any{"heal_percent": 20},
			},
		},
	}
}
