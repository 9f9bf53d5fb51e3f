package game

import (
	"time"

	"CreeperAttack/internal/ui"
)

type PlayerStatus struct {
	ID        PlayerID        `json:"id" msgpack:"id"`
	Name      string          `json:"name" msgpack:"name"`
	Coins     int             `json:"coins" msgpack:"coins"`
	Kills     int             `json:"kills" msgpack:"kills"`
	Inventory []InventoryItem `json:"inventory" msgpack:"inventory"`
}

// ArenaStatus is the admin view of one arena.
type ArenaStatus struct {
	Arena         string         `json:"arena" msgpack:"arena"`
	Phase         Phase          `json:"phase" msgpack:"phase"`
	Wave          int            `json:"wave" msgpack:"wave"`
	WaveMax       int            `json:"wave_max" msgpack:"wave_max"`
	Fighting      bool           `json:"fighting" msgpack:"fighting"`
	TraderHP      int            `json:"trader_hp" msgpack:"trader_hp"`
	TraderMaxHP   int            `json:"trader_max_hp" msgpack:"trader_max_hp"`
	TraderHPColor string         `json:"trader_hp_color" msgpack:"trader_hp_color"`
	ToSpawn       int            `json:"to_spawn" msgpack:"to_spawn"`
	SpawnedInWave int            `json:"spawned_in_wave" msgpack:"spawned_in_wave"`
	Alive         int            `json:"alive" msgpack:"alive"`
	Primed        int            `json:"primed" msgpack:"primed"`
	NextWaveIn    int            `json:"next_wave_in" msgpack:"next_wave_in"`
	LastOutcome   Outcome        `json:"last_outcome,omitempty" msgpack:"last_outcome,omitempty"`
	MissingConfig []string       `json:"missing_config,omitempty" msgpack:"missing_config,omitempty"`
	Players       []PlayerStatus `json:"players" msgpack:"players"`
	At            time.Time      `json:"at" msgpack:"at"`
}

// Status snapshots an arena. Unknown arenas report ErrUnknownArena.
func (m *ArenaManager) Status(arenaID string) (ArenaStatus, error) {
	s, ok := m.hub.Session(arenaID)
	if !ok {
		return ArenaStatus{}, ErrUnknownArena
	}
	ctx := m.GetOrCreateContext(arenaID)
	st := ArenaStatus{
		Arena:         arenaID,
		Phase:         s.Phase,
		Wave:          ctx.Wave,
		WaveMax:       ctx.WaveMax,
		Fighting:      ctx.Fighting,
		TraderHP:      ctx.TraderHP(),
		TraderMaxHP:   ctx.TraderMaxHP,
		TraderHPColor: ui.HPColor(ui.HPPercent(ctx.TraderHP(), ctx.TraderMaxHP)),
		ToSpawn:       ctx.ToSpawn,
		SpawnedInWave: ctx.SpawnedThisWave,
		Alive:         len(ctx.AliveUnits(m.world)),
		Primed:        len(ctx.Countdowns()),
		LastOutcome:   m.outcomes[arenaID],
		MissingConfig: m.cfg.Current().Validate(),
		Players:       []PlayerStatus{},
		At:            m.sched.Now(),
	}
	if s.InGame() && !ctx.Fighting {
		st.NextWaveIn = m.waves.SecondsUntilNextWave(ctx)
	}
	for _, p := range s.Players() {
		st.Players = append(st.Players, PlayerStatus{
			ID:        p.ID,
			Name:      p.Name,
			Coins:     ctx.Coins(p.ID),
			Kills:     m.ui.Kills(arenaID, p.ID),
			Inventory: append([]InventoryItem(nil), p.Inventory.Items...),
		})
	}
	return st, nil
}
