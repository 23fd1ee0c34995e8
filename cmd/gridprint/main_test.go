package main

import (
	"strings"
	"testing"

	"github.com/robalobadob/wordhunt/internal/grid"
	"github.com/robalobadob/wordhunt/internal/levels"
	"github.com/robalobadob/wordhunt/internal/words"
)

func TestRender(t *testing.T) {
	pools, err := words.Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	lvl, _ := levels.Get(1)
	g := grid.NewGenerator(grid.NewRand(7)).Generate(lvl.GridConfig(), pools.Primary, pools.Secondary)

	plain := render(g, lvl, 7, false)
	if !strings.Contains(plain, "Level 1") || !strings.Contains(plain, "seed 7") {
		t.Fatalf("header missing:\n%s", plain)
	}
	if strings.Contains(plain, "Primary") {
		t.Fatal("legend shown without -reveal")
	}

	revealed := render(g, lvl, 7, true)
	for _, w := range g.Words {
		if !strings.Contains(revealed, w.Text) {
			t.Errorf("legend lacks %s", w.Text)
		}
	}
}
