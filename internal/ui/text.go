package ui

import (
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SectionSign starts a formatting code on the wire.
const SectionSign = '§'

const formatCodes = "0123456789abcdefklmnorABCDEFKLMNOR"

// Colorize turns '&' shorthand codes into wire codes. A '&' not followed by a
// known code is left alone.
func Colorize(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '&' && i+1 < len(runes) && strings.ContainsRune(formatCodes, runes[i+1]) {
			b.WriteRune(SectionSign)
			b.WriteRune(toLower(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// Strip removes wire codes, leaving the visible text.
func Strip(s string) string {
	if !strings.ContainsRune(s, SectionSign) {
		return s
	}
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == SectionSign && i+1 < len(runes) {
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// Render substitutes %key% placeholders. Unknown placeholders are kept.
func Render(tmpl string, vars map[string]string) string {
	if len(vars) == 0 || !strings.ContainsRune(tmpl, '%') {
		return tmpl
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "%"+k+"%", vars[k])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Number formats n with thousands separators.
func Number(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// MaterialName renders DIAMOND_SWORD as "Diamond Sword".
func MaterialName(material string) string {
	return cases.Title(language.English).String(strings.ToLower(strings.ReplaceAll(material, "_", " ")))
}

// Width is the visible cell width of s, ignoring wire codes.
func Width(s string) int {
	return runewidth.StringWidth(Strip(s))
}

// Fit pads or truncates s to exactly width visible cells while keeping its
// formatting codes. A width of zero returns s unchanged.
func Fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	var b strings.Builder
	used := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == SectionSign && i+1 < len(runes) {
			b.WriteRune(r)
			b.WriteRune(runes[i+1])
			i++
			continue
		}
		w := runewidth.RuneWidth(r)
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}
