package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corrigan-dev/bnfgrammar/generate"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("could not write temp config: %v", err)
	}
	return path
}

func TestLoadParsesAllFields(t *testing.T) {
	path := writeTemp(t, `
strategy = "GreedyTerminals"
seed = 42
corpus_dir = "/tmp/corpus"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy != "GreedyTerminals" || cfg.Seed != 42 || cfg.CorpusDir != "/tmp/corpus" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadDefaultsStrategyWhenUnset(t *testing.T) {
	path := writeTemp(t, `seed = 7`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy != generate.UniformRHSSampling.String() {
		t.Fatalf("expected default strategy, got %q", cfg.Strategy)
	}
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestStrategyValueResolvesKnownNames(t *testing.T) {
	cfg := Config{Strategy: "RecursionAvoidance"}
	s, err := cfg.StrategyValue()
	if err != nil || s != generate.RecursionAvoidance {
		t.Fatalf("expected RecursionAvoidance, got %v err=%v", s, err)
	}
}

func TestStrategyValueRejectsUnknownName(t *testing.T) {
	cfg := Config{Strategy: "NotAStrategy"}
	if _, err := cfg.StrategyValue(); err == nil {
		t.Fatalf("expected an error for an unknown strategy name")
	}
}
