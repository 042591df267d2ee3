package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/coregx/seqmatch"
)

func TestLoadAndResolveNamedPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
events:
  login: 1
  purchase: 2
patterns:
  login-then-purchase: "(?login)(?t<=300)(?purchase)"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.EventCount() != 2 {
		t.Fatalf("EventCount() = %d, want 2", cfg.EventCount())
	}

	resolved, err := cfg.Resolve("login-then-purchase")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := "(?1)(?t<=300)(?2)"; resolved != want {
		t.Fatalf("Resolve() = %q, want %q", resolved, want)
	}
}

func TestResolveFallsBackToLiteralPattern(t *testing.T) {
	cfg := &Config{Events: map[string]int{"login": 1}}
	resolved, err := cfg.Resolve("(?login)")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := "(?1)"; resolved != want {
		t.Fatalf("Resolve() = %q, want %q", resolved, want)
	}
}

func TestResolveNumericReferencesPassThrough(t *testing.T) {
	cfg := &Config{Events: map[string]int{}}
	resolved, err := cfg.Resolve("(?1)(?t<=5)(?2)")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if want := "(?1)(?t<=5)(?2)"; resolved != want {
		t.Fatalf("Resolve() = %q, want %q", resolved, want)
	}
}

func TestResolveUnknownEventName(t *testing.T) {
	cfg := &Config{Events: map[string]int{"login": 1}}
	if _, err := cfg.Resolve("(?checkout)"); err == nil {
		t.Error("Resolve() with an unknown event name should error")
	}
}

func TestResolveUnterminatedReference(t *testing.T) {
	cfg := &Config{Events: map[string]int{}}
	if _, err := cfg.Resolve("(?login"); err == nil {
		t.Error("Resolve() with an unterminated reference should error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	cfg := &Config{
		Events:   map[string]int{"login": 1, "purchase": 2},
		Patterns: map[string]string{"p": "(?login)(?purchase)"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.EventCount() != 2 {
		t.Fatalf("EventCount() after round-trip = %d, want 2", loaded.EventCount())
	}
	if loaded.Patterns["p"] != "(?login)(?purchase)" {
		t.Fatalf("Patterns[\"p\"] after round-trip = %q", loaded.Patterns["p"])
	}
}

func TestLoadRejectsOutOfRangeBitPosition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "events:\n  login: 0\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); !errors.Is(err, seqmatch.ErrIllegalArgumentType) {
		t.Fatalf("Load() error = %v, want seqmatch.ErrIllegalArgumentType", err)
	}
}

func TestLoadRejectsCollidingBitPositions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "events:\n  login: 1\n  signup: 1\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(path); !errors.Is(err, seqmatch.ErrIllegalArgumentType) {
		t.Fatalf("Load() error = %v, want seqmatch.ErrIllegalArgumentType", err)
	}
}

func TestIsAllDigits(t *testing.T) {
	cases := map[string]bool{
		"123": true,
		"":    false,
		"1a":  false,
		"007": true,
	}
	for input, want := range cases {
		if got := isAllDigits(input); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", input, got, want)
		}
	}
}
