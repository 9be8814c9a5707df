package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml"

	"regionc/lower"
	"regionc/report"
)

// ProfileFileName is the name of the profile file looked up next to a source
// file.
const ProfileFileName = "regionc.toml"

// Enumeration of emit modes: what is output for each lowered function.
const (
	EmitSource = "source" // The lowered source text.
	EmitAST    = "ast"    // A dump of the lowered syntax tree.
	EmitIR     = "ir"     // The traced region IR.
	EmitLLVM   = "llvm"   // The LLVM IR generated from the traced IR.
)

// EmitModes lists the valid emit modes.
var EmitModes = []string{EmitSource, EmitAST, EmitIR, EmitLLVM}

// tomlProfile represents a profile as it is encoded in TOML.
type tomlProfile struct {
	Passes       []string `toml:"passes"`
	UpTo         string   `toml:"up-to"`
	Emit         string   `toml:"emit"`
	LogLevel     string   `toml:"loglevel"`
	HandlePrefix string   `toml:"handle-prefix"`
	Functions    []string `toml:"functions"`
}

// Profile is a validated lowering profile.
type Profile struct {
	// The path the profile was loaded from.  This is empty for the default
	// profile.
	Path string

	// The passes to run in order.
	Passes []lower.Pass

	// Emit must be one of the enumerated emit modes.
	Emit string

	// LogLevel must be one of the log levels of the reporter.
	LogLevel int

	// The prefix of minted handle names.
	HandlePrefix string

	// The names of the functions to lower.  If this is empty, every function
	// is lowered.
	Functions []string
}

// Default returns the default profile: the full pipeline emitting source.
func Default() *Profile {
	return &Profile{
		Passes:       lower.Full(),
		Emit:         EmitSource,
		LogLevel:     report.LogLevelVerbose,
		HandlePrefix: lower.DefaultHandlePrefix,
	}
}

// Load loads and validates a profile.  path may either be the path to the
// profile file or to the directory containing it.
func Load(path string) (*Profile, error) {
	if finfo, err := os.Stat(path); err == nil && finfo.IsDir() {
		path = filepath.Join(path, ProfileFileName)
	}

	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open profile at `%s`: %w", path, err)
	}

	prof, err := Parse(buff)
	if err != nil {
		return nil, fmt.Errorf("error loading profile at `%s`: %w", path, err)
	}

	prof.Path = path
	return prof, nil
}

// Find loads the profile in a directory if there is one.  Otherwise, the
// default profile is returned.
func Find(dir string) (*Profile, error) {
	path := filepath.Join(dir, ProfileFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return Load(path)
}

// Parse parses and validates the contents of a profile file.
func Parse(buff []byte) (*Profile, error) {
	tp := &tomlProfile{}
	if err := toml.Unmarshal(buff, tp); err != nil {
		return nil, err
	}

	prof := Default()
	if err := validateProfile(prof, tp); err != nil {
		return nil, err
	}

	return prof, nil
}

// validateProfile checks that the profile contents are valid and moves them
// over to prof.
func validateProfile(prof *Profile, tp *tomlProfile) error {
	if len(tp.Passes) > 0 && tp.UpTo != "" {
		return errors.New("`passes` and `up-to` cannot both be specified")
	}

	if len(tp.Passes) > 0 {
		passes, err := lower.Select(tp.Passes)
		if err != nil {
			return err
		}

		prof.Passes = passes
	} else if tp.UpTo != "" {
		passes, err := lower.UpTo(tp.UpTo)
		if err != nil {
			return err
		}

		prof.Passes = passes
	}

	if tp.Emit != "" {
		if err := prof.SetEmit(tp.Emit); err != nil {
			return err
		}
	}

	if tp.LogLevel != "" {
		level, ok := report.LogLevelNames[tp.LogLevel]
		if !ok {
			return fmt.Errorf("unknown log level: `%s`", tp.LogLevel)
		}

		prof.LogLevel = level
	}

	if tp.HandlePrefix != "" {
		if !isIdentifier(tp.HandlePrefix) {
			return fmt.Errorf("handle prefix `%s` must be a valid identifier", tp.HandlePrefix)
		}

		prof.HandlePrefix = tp.HandlePrefix
	}

	prof.Functions = tp.Functions
	return nil
}

// SetEmit sets the emit mode of the profile.
func (p *Profile) SetEmit(emit string) error {
	if !slices.Contains(EmitModes, emit) {
		return fmt.Errorf("unknown emit mode: `%s`", emit)
	}

	p.Emit = emit
	return nil
}

// SetUpTo truncates the passes of the profile to the full pipeline up to the
// named pass.
func (p *Profile) SetUpTo(name string) error {
	passes, err := lower.UpTo(name)
	if err != nil {
		return err
	}

	p.Passes = passes
	return nil
}

// Selects returns whether the named function should be lowered.
func (p *Profile) Selects(name string) bool {
	return len(p.Functions) == 0 || slices.Contains(p.Functions, name)
}

// isIdentifier returns whether s is a valid identifier.
func isIdentifier(s string) bool {
	for i, c := range s {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}

	return s != ""
}
