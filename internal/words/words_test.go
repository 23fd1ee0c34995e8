package words

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	p, err := Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Primary) == 0 || len(p.Secondary) == 0 {
		t.Fatalf("expected both pools populated, got %d/%d", len(p.Primary), len(p.Secondary))
	}
	seen := map[string]bool{}
	for _, e := range p.Primary {
		if seen[e.Word] {
			t.Fatalf("duplicate primary word %q", e.Word)
		}
		seen[e.Word] = true
		if e.Multiplier < 1 {
			t.Fatalf("%s: multiplier %d < 1", e.Word, e.Multiplier)
		}
	}
}

func TestParsePrimary(t *testing.T) {
	got := ParsePrimary([]string{"data 1", "NEURAL 2", "ab 1", "DATA 2", "x-ray", "CODE", "NODE zero"})
	want := []Entry{{"DATA", 1}, {"NEURAL", 2}, {"CODE", 1}, {"NODE", 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseSecondary(t *testing.T) {
	got := ParseSecondary([]string{"able", " BACK ", "ABLE", "no", "c4t"})
	if len(got) != 2 || got[0] != "ABLE" || got[1] != "BACK" {
		t.Fatalf("unexpected secondary pool: %v", got)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	prim := filepath.Join(dir, "p.txt")
	sec := filepath.Join(dir, "s.txt")
	if err := os.WriteFile(prim, []byte("# themed\nTOKEN 2\nCHAIN\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sec, []byte("ABLE\n\nBEAR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(prim, sec)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Primary) != 2 || p.Primary[0].Multiplier != 2 {
		t.Fatalf("unexpected primary pool: %v", p.Primary)
	}
	if len(p.Secondary) != 2 {
		t.Fatalf("unexpected secondary pool: %v", p.Secondary)
	}
}

func TestLoadEmptyPrimaryFails(t *testing.T) {
	prim := filepath.Join(t.TempDir(), "p.txt")
	if err := os.WriteFile(prim, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(prim, ""); err == nil {
		t.Fatal("expected error for empty primary pool")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPrimarySet(t *testing.T) {
	p := Pools{Primary: ParsePrimary([]string{"ALPHA 2", "beta"}), Secondary: []string{"GAMMA"}}
	set := p.PrimarySet()
	if !set.Has("ALPHA") || !set.Has("BETA") || set.Has("GAMMA") || set.Size() != 2 {
		t.Fatalf("set = %v", set)
	}
}
