package ui

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const hpBarSegments = 10

// HPPercent is the integer percentage of cur over max; zero when max is not positive.
func HPPercent(cur, max int) int {
	if max <= 0 {
		return 0
	}
	return cur * 100 / max
}

// BandCode picks the shorthand colour for a health percentage.
func BandCode(pct int) string {
	switch {
	case pct > 50:
		return "&a"
	case pct > 25:
		return "&e"
	default:
		return "&c"
	}
}

// HPBar draws ten segments of glyph, the filled ones in the band colour and
// the rest grey. The result uses '&' codes.
func HPBar(pct int, glyph string) string {
	filled := pct * hpBarSegments / 100
	if filled < 0 {
		filled = 0
	}
	if filled > hpBarSegments {
		filled = hpBarSegments
	}
	band := BandCode(pct)
	var b strings.Builder
	for i := 0; i < hpBarSegments; i++ {
		if i < filled {
			b.WriteString(band)
		} else {
			b.WriteString("&7")
		}
		b.WriteString(glyph)
	}
	return b.String()
}

// Nameplate is the bracketed bar shown above the trader.
func Nameplate(pct int) string {
	return "&8[" + HPBar(pct, "|") + "&8]"
}

var (
	hpFull = colorful.Color{R: 0.33, G: 1, B: 0.33}
	hpHalf = colorful.Color{R: 1, G: 1, B: 0.33}
	hpNone = colorful.Color{R: 1, G: 0.33, B: 0.33}
)

// HPColor blends green through yellow to red for clients that draw their own bar.
func HPColor(pct int) string {
	t := float64(pct) / 100
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if t >= 0.5 {
		return hpHalf.BlendLab(hpFull, (t-0.5)*2).Clamped().Hex()
	}
	return hpNone.BlendLab(hpHalf, t*2).Clamped().Hex()
}
