// Package config loads region inference problems from TOML files.
//
//	[[func]]
//	name = "longest"
//	universal = ["'a", "'b"]
//	regions = ["'1"]
//
//	[[func.block]]
//	statements = ["_3 = &'1 (*_1)", "_0 = _3"]
//	return = true
//
//	[[func.live]]
//	region = "'1"
//	block = 0
//	from = 0
//	to = 2
//
//	[[func.outlives]]
//	sup = "'a"
//	sub = "'1"
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

// File is the decoded form of a problem file.
type File struct {
	Path  string       `toml:"-"`
	Funcs []FuncConfig `toml:"func"`
}

type FuncConfig struct {
	Name      string           `toml:"name"`
	Universal []string         `toml:"universal"`
	Regions   []string         `toml:"regions"`
	Blocks    []BlockConfig    `toml:"block"`
	Live      []LiveConfig     `toml:"live"`
	Outlives  []OutlivesConfig `toml:"outlives"`
	Known     []KnownConfig    `toml:"known"`
	Within    []WithinConfig   `toml:"within"`
}

// BlockConfig describes a block; exactly one terminator field must be set.
type BlockConfig struct {
	Statements  []string `toml:"statements"`
	Goto        *int     `toml:"goto"`
	Then        *int     `toml:"then"`
	Else        *int     `toml:"else"`
	Return      bool     `toml:"return"`
	Unreachable bool     `toml:"unreachable"`
}

// LiveConfig marks region live at statements from..to (inclusive) of block.
// to defaults to from.
type LiveConfig struct {
	Region string `toml:"region"`
	Block  int    `toml:"block"`
	From   int    `toml:"from"`
	To     *int   `toml:"to"`
}

type OutlivesConfig struct {
	Sup string `toml:"sup"`
	Sub string `toml:"sub"`
}

type KnownConfig struct {
	Longer  string `toml:"longer"`
	Shorter string `toml:"shorter"`
}

type WithinConfig struct {
	Region string `toml:"region"`
	Scope  string `toml:"scope"`
}

// Load reads and checks the problem file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode reads a problem file from r.
func Decode(r io.Reader) (*File, error) {
	var cfg File
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("func") || len(cfg.Funcs) == 0 {
		return nil, fmt.Errorf("missing [[func]]")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for i := range cfg.Funcs {
		fn := &cfg.Funcs[i]
		fn.Name = strings.TrimSpace(fn.Name)
		if fn.Name == "" {
			return nil, fmt.Errorf("[[func]] #%d: missing name", i)
		}
		if len(fn.Blocks) == 0 {
			return nil, fmt.Errorf("func %s: missing [[func.block]]", fn.Name)
		}
	}
	return &cfg, nil
}

// normalizeName trims and NFC-normalises a region name so that visually
// identical names written with different code points resolve to one region.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
