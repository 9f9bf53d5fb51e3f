package game

import (
	"strconv"
	"strings"
	"time"

	"CreeperAttack/internal/ui"
)

type NoticeKind string

const (
	NoticeChat            NoticeKind = "chat"
	NoticeTitle           NoticeKind = "title"
	NoticeActionBar       NoticeKind = "actionbar"
	NoticeScoreboard      NoticeKind = "scoreboard"
	NoticeScoreboardReset NoticeKind = "scoreboard_reset"
	NoticeExplosion       NoticeKind = "explosion"
)

// Notice is one presentation event. Text fields carry wire colour codes.
type Notice struct {
	Kind     NoticeKind `json:"kind" msgpack:"kind"`
	Arena    string     `json:"arena" msgpack:"arena"`
	Players  []PlayerID `json:"players,omitempty" msgpack:"players,omitempty"`
	Text     string     `json:"text,omitempty" msgpack:"text,omitempty"`
	Title    string     `json:"title,omitempty" msgpack:"title,omitempty"`
	Subtitle string     `json:"subtitle,omitempty" msgpack:"subtitle,omitempty"`
	Lines    []string   `json:"lines,omitempty" msgpack:"lines,omitempty"`
	FadeIn   int        `json:"fade_in,omitempty" msgpack:"fade_in,omitempty"`
	Stay     int        `json:"stay,omitempty" msgpack:"stay,omitempty"`
	FadeOut  int        `json:"fade_out,omitempty" msgpack:"fade_out,omitempty"`
	At       time.Time  `json:"at" msgpack:"at"`
	Location *Location  `json:"location,omitempty" msgpack:"location,omitempty"`
}

// Presenter delivers notices to players.
type Presenter interface {
	Present(n Notice)
}

type PresenterFunc func(Notice)

func (f PresenterFunc) Present(n Notice) { f(n) }

// UiController turns game events into notices using the configured templates.
type UiController struct {
	cfg   ConfigSource
	out   Presenter
	clock func() time.Time
	kills map[string]map[PlayerID]int
}

func NewUiController(cfg ConfigSource, out Presenter, clock func() time.Time) *UiController {
	if out == nil {
		out = PresenterFunc(func(Notice) {})
	}
	return &UiController{cfg: cfg, out: out, clock: clock, kills: map[string]map[PlayerID]int{}}
}

func (u *UiController) emit(n Notice) {
	n.At = u.clock()
	u.out.Present(n)
}

func itoa(n int) string { return strconv.Itoa(n) }

// UpdateScoreboards renders every player's sidebar.
func (u *UiController) UpdateScoreboards(s *Session, ctx *ArenaContext, w WorldProvider) {
	cfg := u.cfg.Current()
	if !cfg.UI.Scoreboard.Enabled {
		return
	}
	alive := len(ctx.AliveUnits(w))
	pct := ui.HPPercent(ctx.TraderHP(), ctx.TraderMaxHP)
	shared := map[string]string{
		"wave":          itoa(ctx.Wave),
		"maxwave":       itoa(ctx.WaveMax),
		"trader_hp":     itoa(ctx.TraderHP()),
		"trader_maxhp":  itoa(ctx.TraderMaxHP),
		"trader_hp_bar": ui.HPBar(pct, HPBarGlyph),
		"creepers":      itoa(alive + ctx.ToSpawn),
		"players":       itoa(s.PlayerCount()),
	}
	for _, p := range s.Players() {
		vars := make(map[string]string, len(shared)+2)
		for k, v := range shared {
			vars[k] = v
		}
		vars["coins"] = ui.Number(ctx.Coins(p.ID))
		vars["kills"] = itoa(u.Kills(s.ID, p.ID))
		board := ui.Scoreboard(cfg.Scoreboard.Title, cfg.Scoreboard.Lines, vars, cfg.Scoreboard.Width)
		u.emit(Notice{
			Kind:    NoticeScoreboard,
			Arena:   s.ID,
			Players: []PlayerID{p.ID},
			Title:   board.Title,
			Lines:   board.Lines,
		})
	}
}

// ResetScoreboards clears sidebars and kill counts for the arena.
func (u *UiController) ResetScoreboards(s *Session) {
	delete(u.kills, s.ID)
	if s.PlayerCount() == 0 {
		return
	}
	u.emit(Notice{Kind: NoticeScoreboardReset, Arena: s.ID, Players: s.PlayerIDs()})
}

func (u *UiController) title(s *Session, key string, vars map[string]string, fadeIn, stay, fadeOut int) {
	cfg := u.cfg.Current()
	if !cfg.UI.Title.Enabled || s.PlayerCount() == 0 {
		return
	}
	u.emit(Notice{
		Kind:     NoticeTitle,
		Arena:    s.ID,
		Players:  s.PlayerIDs(),
		Title:    ui.Colorize(ui.Render(cfg.RawMessage("title_"+key), vars)),
		Subtitle: ui.Colorize(ui.Render(cfg.RawMessage("subtitle_"+key), vars)),
		FadeIn:   fadeIn,
		Stay:     stay,
		FadeOut:  fadeOut,
	})
}

func (u *UiController) SendWaveStartTitle(s *Session, ctx *ArenaContext) {
	u.title(s, "wave_start", map[string]string{"wave": itoa(ctx.Wave)}, 10, 40, 10)
}

func (u *UiController) SendWaveEndTitle(s *Session, ctx *ArenaContext, seconds int) {
	u.title(s, "wave_end", map[string]string{"wave": itoa(ctx.Wave), "seconds": itoa(seconds)}, 10, 40, 10)
}

func (u *UiController) SendWinTitle(s *Session) { u.title(s, "win", nil, 10, 60, 20) }

func (u *UiController) SendLoseTitle(s *Session) { u.title(s, "lose", nil, 10, 60, 20) }

// Broadcast sends a prefixed chat message to the arena when chat is enabled.
func (u *UiController) Broadcast(s *Session, key string, vars map[string]string) {
	if !u.cfg.Current().UI.Chat.Enabled {
		return
	}
	u.BroadcastAlways(s, key, vars)
}

// BroadcastAlways ignores the chat toggle; admin replies use it.
func (u *UiController) BroadcastAlways(s *Session, key string, vars map[string]string) {
	if s.PlayerCount() == 0 {
		return
	}
	u.chat(s.ID, s.PlayerIDs(), u.cfg.Current().Message(key), vars)
}

// BroadcastRaw sends an unprefixed template to everyone in the arena.
func (u *UiController) BroadcastRaw(s *Session, key string, vars map[string]string) {
	if s.PlayerCount() == 0 {
		return
	}
	u.chat(s.ID, s.PlayerIDs(), u.cfg.Current().RawMessage(key), vars)
}

// Tell replies to one player with a prefixed template.
func (u *UiController) Tell(arena string, p PlayerID, key string, vars map[string]string) {
	u.chat(arena, []PlayerID{p}, u.cfg.Current().Message(key), vars)
}

// TellText replies with literal text.
func (u *UiController) TellText(arena string, p PlayerID, text string) {
	u.chat(arena, []PlayerID{p}, text, nil)
}

func (u *UiController) chat(arena string, to []PlayerID, tmpl string, vars map[string]string) {
	u.emit(Notice{
		Kind:    NoticeChat,
		Arena:   arena,
		Players: to,
		Text:    ui.Colorize(ui.Render(tmpl, vars)),
	})
}

func (u *UiController) SendTraderLowHPWarning(s *Session, ctx *ArenaContext) {
	u.Broadcast(s, "trader_low_hp", map[string]string{
		"hp":    itoa(ctx.TraderHP()),
		"maxhp": itoa(ctx.TraderMaxHP),
	})
}

// SendCountdownWarning puts the explosion countdown on every action bar.
func (u *UiController) SendCountdownWarning(s *Session, seconds int) {
	cfg := u.cfg.Current()
	if !cfg.UI.Chat.Enabled || s.PlayerCount() == 0 {
		return
	}
	u.actionBar(s.ID, s.PlayerIDs(), cfg.RawMessage("creeper_countdown"), map[string]string{"seconds": itoa(seconds)})
}

func (u *UiController) SendKillReward(arena string, p PlayerID, coins int) {
	cfg := u.cfg.Current()
	if !cfg.UI.Chat.Enabled {
		return
	}
	u.actionBar(arena, []PlayerID{p}, cfg.RawMessage("kill_reward"), map[string]string{"coins": itoa(coins)})
}

func (u *UiController) actionBar(arena string, to []PlayerID, tmpl string, vars map[string]string) {
	u.emit(Notice{
		Kind:    NoticeActionBar,
		Arena:   arena,
		Players: to,
		Text:    ui.Colorize(ui.Render(tmpl, vars)),
	})
}

// Explosion tells clients where a unit blew up.
func (u *UiController) Explosion(arena string, at Location) {
	loc := at
	u.emit(Notice{Kind: NoticeExplosion, Arena: arena, Location: &loc})
}

func (u *UiController) IncrementKills(arena string, p PlayerID) {
	byPlayer, ok := u.kills[arena]
	if !ok {
		byPlayer = map[PlayerID]int{}
		u.kills[arena] = byPlayer
	}
	byPlayer[p]++
}

func (u *UiController) Kills(arena string, p PlayerID) int { return u.kills[arena][p] }

func (u *UiController) ClearPlayer(arena string, p PlayerID) {
	delete(u.kills[arena], p)
}

// joinMissing renders the missing-field list for config_missing.
func joinMissing(fields []string) string { return strings.Join(fields, ", ") }
