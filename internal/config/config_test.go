package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "TICK_INTERVAL_MS", "SESSION_TTL_MINUTES", "LOG_FORMAT", "NODE_ENV"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Addr() != ":5175" {
		t.Fatalf("addr = %s", c.Addr())
	}
	if c.Game.TickInterval != time.Second || c.Game.SessionTTL != time.Hour {
		t.Fatalf("game = %+v", c.Game)
	}
	if c.Logging.Format != "json" || c.IsProduction() {
		t.Fatalf("logging %+v env %s", c.Logging, c.Server.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("GEMINI_API_KEY", "k")

	c := Load()
	if c.Addr() != ":9000" || c.Game.TickInterval != 250*time.Millisecond {
		t.Fatalf("config = %+v", c)
	}
	if c.Game.SessionTTL != time.Hour {
		t.Fatalf("bad int should fall back to default, got %v", c.Game.SessionTTL)
	}
	if !c.IsProduction() || c.Definition.APIKey != "k" {
		t.Fatalf("server %+v definition %+v", c.Server, c.Definition)
	}
}
