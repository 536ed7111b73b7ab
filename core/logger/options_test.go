package logger

import (
	"log/slog"
	"slices"
	"testing"

	coreconfig "github.com/m3rciful/tourbot/core/config"
)

func TestResolveOptionsDefaults(t *testing.T) {
	o := resolveOptions(nil)
	if o.format != formatJSON || o.level != slog.LevelInfo {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.sampleNum != 1 || o.sampleDen != defaultDebugSample {
		t.Fatalf("sample = %d/%d", o.sampleNum, o.sampleDen)
	}
	if !slices.Equal(o.keyOrder, defaultKeyOrder) {
		t.Fatalf("key order = %v", o.keyOrder)
	}
}

func TestResolveOptionsFromConfig(t *testing.T) {
	cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{
		Level:       "warning",
		Profile:     "Dev",
		KeysOrder:   " ts, ,event ",
		DebugSample: "2/10",
	}}
	o := resolveOptions(cfg)
	if o.format != formatKV {
		t.Fatalf("dev profile should select kv, got %s", o.format)
	}
	if o.level != slog.LevelWarn {
		t.Fatalf("level = %v", o.level)
	}
	if o.profile != "dev" {
		t.Fatalf("profile = %q", o.profile)
	}
	if !slices.Equal(o.keyOrder, []string{"ts", "event"}) {
		t.Fatalf("key order = %v", o.keyOrder)
	}
	if o.sampleNum != 2 || o.sampleDen != 10 {
		t.Fatalf("sample = %d/%d", o.sampleNum, o.sampleDen)
	}

	cfg.Logging.Format = "json"
	if o := resolveOptions(cfg); o.format != formatJSON {
		t.Fatalf("explicit json ignored: %s", o.format)
	}
}

func TestResolveOptionsSampleEdgeCases(t *testing.T) {
	cases := map[string][2]int{
		"off":  {0, 0},
		"0/5":  {1, defaultDebugSample},
		"1/0":  {1, defaultDebugSample},
		"20":   {1, 20},
		"":     {1, defaultDebugSample},
		"3/-1": {1, defaultDebugSample},
	}
	for spec, want := range cases {
		cfg := &coreconfig.Config{Logging: coreconfig.LoggingConfig{DebugSample: spec}}
		o := resolveOptions(cfg)
		if got := [2]int{o.sampleNum, o.sampleDen}; got != want {
			t.Fatalf("%q: got %v want %v", spec, got, want)
		}
	}
}

func TestResolveOptionsProdProfileDefault(t *testing.T) {
	o := resolveOptions(&coreconfig.Config{})
	if o.profile != "prod" || o.format != formatJSON {
		t.Fatalf("unexpected: profile=%q format=%s", o.profile, o.format)
	}
}
