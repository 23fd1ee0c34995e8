// cmd/gridprint
//
// Prints a generated grid to the terminal, for checking the generator and
// previewing daily boards.
//
//	gridprint -level 3 -seed 42 -reveal
//	gridprint -level 1 -daily -date 2026-03-14
//
// Without -seed or -daily a random seed is used and printed so the board can
// be reproduced. -reveal highlights Primary words in one colour and Secondary
// words in another and lists them under the board.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/robalobadob/wordhunt/internal/config"
	"github.com/robalobadob/wordhunt/internal/daily"
	"github.com/robalobadob/wordhunt/internal/grid"
	"github.com/robalobadob/wordhunt/internal/levels"
	"github.com/robalobadob/wordhunt/internal/words"
)

var (
	stylePrimary   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Green
	styleSecondary = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))            // Yellow
	styleFiller    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeader    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleBoard     = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 1)
	styleWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func main() {
	var (
		level   = flag.Int("level", 1, "level number (1-8)")
		seed    = flag.Int64("seed", 0, "generator seed (0 picks one)")
		isDaily = flag.Bool("daily", false, "use the daily seed")
		date    = flag.String("date", "", "daily date as YYYY-MM-DD (default today, UTC)")
		salt    = flag.String("salt", "", "daily salt (default DAILY_SALT)")
		reveal  = flag.Bool("reveal", false, "highlight and list placed words")
	)
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	lvl, err := levels.Get(*level)
	if err != nil {
		fatal(err)
	}
	pools, err := words.Load(cfg.Game.PrimaryFile, cfg.Game.SecondaryFile)
	if err != nil {
		fatal(err)
	}

	switch {
	case *isDaily:
		day := time.Now().UTC()
		if *date != "" {
			if day, err = time.Parse("2006-01-02", *date); err != nil {
				fatal(fmt.Errorf("bad -date: %w", err))
			}
		}
		if *salt == "" {
			*salt = cfg.Game.DailySalt
		}
		*seed = daily.Seed(day, *salt, lvl.Number)
	case *seed == 0:
		*seed = time.Now().UnixNano()
	}

	g := grid.NewGenerator(grid.NewRand(*seed)).Generate(lvl.GridConfig(), pools.Primary, pools.Secondary)
	fmt.Println(render(g, lvl, *seed, *reveal))
}

// render draws the header, the board and, with reveal, the word legend.
func render(g *grid.Grid, lvl levels.Level, seed int64, reveal bool) string {
	st := g.Stats()
	header := styleHeader.Render(fmt.Sprintf("Level %d · %s   seed %d", lvl.Number, lvl.Name, seed))
	summary := fmt.Sprintf("%d primary (need %d), %d secondary, %ds, target %d",
		st.PrimaryWords, lvl.MinWords, st.SecondaryWords, lvl.TimeLimit, lvl.TargetScore)

	rows := make([]string, g.Size)
	for r := 0; r < g.Size; r++ {
		cells := make([]string, g.Size)
		for c := 0; c < g.Size; c++ {
			at := grid.Coord{Row: r, Col: c}
			l, _ := g.LetterAt(at)
			cells[c] = cellStyle(g.WordAt(at), reveal).Render(string(l))
		}
		rows[r] = strings.Join(cells, " ")
	}

	parts := []string{header, styleBoard.Render(strings.Join(rows, "\n")), summary}
	if st.PrimaryWords < lvl.MinWords {
		parts = append(parts, styleWarn.Render("warning: fewer primary words than the level requires"))
	}
	if reveal {
		parts = append(parts, legend(g))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func cellStyle(w *grid.PlacedWord, reveal bool) lipgloss.Style {
	switch {
	case !reveal || w == nil:
		return styleFiller
	case w.Category == grid.Primary:
		return stylePrimary
	default:
		return styleSecondary
	}
}

func legend(g *grid.Grid) string {
	of := func(cat grid.Category) []*grid.PlacedWord {
		return lo.Filter(g.Words, func(w *grid.PlacedWord, _ int) bool { return w.Category == cat })
	}
	primary, secondary := of(grid.Primary), of(grid.Secondary)
	line := func(w *grid.PlacedWord, _ int) string {
		return fmt.Sprintf("  %-12s %3d pts  at %d,%d", w.Text, w.Points, w.Path[0].Row, w.Path[0].Col)
	}
	out := []string{stylePrimary.Render("Primary")}
	out = append(out, lo.Map(primary, line)...)
	out = append(out, styleSecondary.Render("Secondary"))
	out = append(out, lo.Map(secondary, line)...)
	return strings.Join(out, "\n")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, styleWarn.Render("gridprint: "+err.Error()))
	os.Exit(1)
}
