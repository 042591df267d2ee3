// Package config loads named pattern definitions: a YAML file mapping
// human-readable event names to 1-based bit positions and friendly
// pattern names to pattern strings written against those names, e.g.
//
//	events:
//	  login: 1
//	  purchase: 2
//	patterns:
//	  login-then-purchase: "(?login)(?t<=300)(?purchase)"
//
// This has no analogue in the original ClickHouse operator, which only
// ever takes 1-based numeric event indices; it exists purely as
// ergonomics for callers who would rather author patterns against names,
// grounded on projectdiscovery-alterx's named-pattern YAML config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coregx/seqmatch"
	"github.com/coregx/seqmatch/seqerr"
)

// DefaultConfigFilePath is where Load looks when not given an explicit
// path, mirroring the teacher's convention of a well-known path under
// the user's config directory.
var DefaultConfigFilePath = filepath.Join(getUserHomeDir(), ".config", "seqmatch", "config.yaml")

// Config is a loaded event-name table plus a set of named patterns.
type Config struct {
	Events   map[string]int    `yaml:"events"`
	Patterns map[string]string `yaml:"patterns"`
}

// Load reads and parses a config file. An empty filePath means
// DefaultConfigFilePath.
func Load(filePath string) (*Config, error) {
	if filePath == "" {
		filePath = DefaultConfigFilePath
	}
	bin, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(bin, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validateEvents(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateEvents rejects an event table with a bit position outside
// [1, seqerr.MaxEvents] or a position reused by two different names —
// either one would compile into a pattern.Compile call with a
// malformed or colliding event index. This is the config package's
// analogue of the original operator's ILLEGAL_TYPE_OF_ARGUMENT class:
// a caller-supplied value that is structurally present but not a legal
// argument, wrapping seqmatch.ErrIllegalArgumentType so callers can test
// for it with errors.Is regardless of which field was at fault.
func (c *Config) validateEvents() error {
	seen := make(map[int]string, len(c.Events))
	for name, pos := range c.Events {
		if pos < 1 || pos > seqerr.MaxEvents {
			return fmt.Errorf("config: event %q has bit position %d outside [1, %d]: %w",
				name, pos, seqerr.MaxEvents, seqmatch.ErrIllegalArgumentType)
		}
		if other, ok := seen[pos]; ok {
			return fmt.Errorf("config: events %q and %q both claim bit position %d: %w",
				other, name, pos, seqmatch.ErrIllegalArgumentType)
		}
		seen[pos] = name
	}
	return nil
}

// Save writes cfg back out as YAML, useful for generating a starter
// file.
func Save(filePath string, cfg *Config) error {
	bin, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bin, 0o644)
}

// EventCount returns the highest bit position claimed by a named event
// (0 for an empty table), the value to pass as NewMatcher's eventCount.
func (c *Config) EventCount() int {
	highest := 0
	for _, pos := range c.Events {
		if pos > highest {
			highest = pos
		}
	}
	return highest
}

// Resolve looks patternOrName up in c.Patterns (falling back to treating
// it as a literal pattern string if not found there) and expands every
// "(?name)" reference into the numeric "(?N)" form pattern.Compile
// expects. References that are already numeric, like "(?3)", pass
// through unchanged.
func (c *Config) Resolve(patternOrName string) (string, error) {
	src, ok := c.Patterns[patternOrName]
	if !ok {
		src = patternOrName
	}
	return c.substituteNames(src)
}

func (c *Config) substituteNames(src string) (string, error) {
	var out strings.Builder
	pos := 0
	for pos < len(src) {
		if strings.HasPrefix(src[pos:], "(?") && !strings.HasPrefix(src[pos:], "(?t") {
			start := pos + 2
			rel := strings.IndexByte(src[start:], ')')
			if rel < 0 {
				return "", fmt.Errorf("config: unterminated event reference at offset %d", pos)
			}
			name := src[start : start+rel]
			if !isAllDigits(name) {
				num, ok := c.Events[name]
				if !ok {
					return "", fmt.Errorf("config: unknown event name %q", name)
				}
				out.WriteString("(?")
				out.WriteString(strconv.Itoa(num))
				out.WriteByte(')')
				pos = start + rel + 1
				continue
			}
		}
		out.WriteByte(src[pos])
		pos++
	}
	return out.String(), nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func getUserHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return homeDir
}
