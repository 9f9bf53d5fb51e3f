package ui

// Board is a rendered sidebar: colourized title and lines ready for the wire.
type Board struct {
	Title string   `json:"title" msgpack:"title"`
	Lines []string `json:"lines" msgpack:"lines"`
}

// Scoreboard renders title and line templates with vars, colourizes them
// and fits every line to width cells. Blank lines stay blank.
func Scoreboard(title string, lines []string, vars map[string]string, width int) Board {
	out := Board{
		Title: Colorize(Render(title, vars)),
		Lines: make([]string, 0, len(lines)),
	}
	for _, line := range lines {
		rendered := Colorize(Render(line, vars))
		if rendered != "" {
			rendered = Fit(rendered, width)
		}
		out.Lines = append(out.Lines, rendered)
	}
	return out
}
