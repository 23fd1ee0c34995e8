// internal/words/words.go
//
// Word pool management for the grid generator.
//
// Responsibilities:
//   - Load the Primary (themed) and Secondary (bonus) pools from
//     environment-provided files or fall back to the embedded defaults.
//   - Normalize entries (uppercase A–Z, at least 3 letters, deduplicated).
//   - Expose read-only copies plus small lookup helpers.
//
// Pool formats:
//   - Primary:   one "WORD MULTIPLIER" per line; a missing multiplier means 1.
//   - Secondary: one WORD per line.
//   - Blank lines and lines starting with '#' are ignored.
//
// Override files come from config (WORDS_PRIMARY_FILE, WORDS_SECONDARY_FILE).
//
// Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/wordhunt/assets"
)

// MinWordLength is the shortest word either pool may contain.
const MinWordLength = 3

// Entry is a Primary pool word and its score multiplier.
type Entry struct {
	Word       string `json:"word"`
	Multiplier int    `json:"multiplier"`
}

// Pools holds both word lists.
type Pools struct {
	Primary   []Entry
	Secondary []string
}

var (
	initOnce   sync.Once
	pools      Pools
	initialErr error
)

// Init loads the package-level pools exactly once; later calls return the
// first result whatever paths they pass.
// Returns an error if the Primary pool ends up empty.
func Init(primaryPath, secondaryPath string) error {
	initOnce.Do(func() {
		p, err := Load(primaryPath, secondaryPath)
		if err != nil {
			initialErr = err
			return
		}
		pools = p
	})
	return initialErr
}

// Load reads both pools. An empty path selects the embedded default.
func Load(primaryPath, secondaryPath string) (Pools, error) {
	var (
		primLines, secLines []string
		err                 error
	)
	if primaryPath != "" {
		primLines, err = readFile(primaryPath)
	} else {
		primLines, err = assets.PrimaryLines()
	}
	if err != nil {
		return Pools{}, fmt.Errorf("words: primary pool: %w", err)
	}
	if secondaryPath != "" {
		secLines, err = readFile(secondaryPath)
	} else {
		secLines, err = assets.SecondaryList()
	}
	if err != nil {
		return Pools{}, fmt.Errorf("words: secondary pool: %w", err)
	}

	p := Pools{
		Primary:   ParsePrimary(primLines),
		Secondary: ParseSecondary(secLines),
	}
	if len(p.Primary) == 0 {
		return Pools{}, errors.New("words: primary pool is empty")
	}
	return p, nil
}

// ParsePrimary turns "WORD [MULTIPLIER]" lines into entries, dropping
// malformed words and later duplicates.
func ParsePrimary(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		w := strings.ToUpper(fields[0])
		if !valid(w) {
			continue
		}
		mult := 1
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				mult = n
			}
		}
		out = append(out, Entry{Word: w, Multiplier: mult})
	}
	return lo.UniqBy(out, func(e Entry) string { return e.Word })
}

// ParseSecondary normalizes and deduplicates bonus words.
func ParseSecondary(lines []string) []string {
	out := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		w := strings.ToUpper(strings.TrimSpace(line))
		return w, valid(w)
	})
	return lo.Uniq(out)
}

// readFile loads non-blank, non-comment lines from a file.
func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// valid reports whether w is at least MinWordLength uppercase ASCII letters.
func valid(w string) bool {
	if len(w) < MinWordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// Primary returns a copy of the themed pool.
func Primary() []Entry {
	return append([]Entry(nil), pools.Primary...)
}

// Secondary returns a copy of the bonus pool.
func Secondary() []string {
	return append([]string(nil), pools.Secondary...)
}

// PrimarySet returns the themed words as a set for membership checks.
func (p Pools) PrimarySet() mapset.Set[string] {
	set := mapset.New[string]()
	for _, e := range p.Primary {
		set.Put(e.Word)
	}
	return set
}

// Stats returns counts of loaded words: (primary, secondary).
func Stats() (primaryCount int, secondaryCount int) {
	return len(pools.Primary), len(pools.Secondary)
}
