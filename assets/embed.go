// assets/embed.go
//
// Embedded game data: the default word pools and the SQL migrations for
// the attempt log.

package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed primary.txt secondary.txt sql/*.sql
var FS embed.FS

// readLines returns the non-blank, non-comment lines of an embedded file,
// trimmed and uppercased.
func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
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
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}

// PrimaryLines returns the raw "WORD MULTIPLIER" lines of the themed pool.
func PrimaryLines() ([]string, error) {
	return readLines("primary.txt")
}

// SecondaryList returns the bonus word pool.
func SecondaryList() ([]string, error) {
	return readLines("secondary.txt")
}

// Migrations exposes the sql directory for the results store.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
