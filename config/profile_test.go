package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regionc/lower"
	"regionc/report"
)

func TestDefault(t *testing.T) {
	prof := Default()
	assert.Equal(t, EmitSource, prof.Emit)
	assert.Equal(t, report.LogLevelVerbose, prof.LogLevel)
	assert.Equal(t, lower.DefaultHandlePrefix, prof.HandlePrefix)
	assert.Len(t, prof.Passes, len(lower.Names()))
	assert.True(t, prof.Selects("anything"))
}

func TestParse(t *testing.T) {
	prof, err := Parse([]byte(`
up-to = "rewrite-conditions"
emit = "ir"
loglevel = "warn"
handle-prefix = "_h"
functions = ["f", "g"]
`))
	require.NoError(t, err)

	assert.Len(t, prof.Passes, 5)
	assert.Equal(t, "rewrite-conditions", prof.Passes[4].Name())
	assert.Equal(t, EmitIR, prof.Emit)
	assert.Equal(t, report.LogLevelWarn, prof.LogLevel)
	assert.Equal(t, "_h", prof.HandlePrefix)
	assert.True(t, prof.Selects("g"))
	assert.False(t, prof.Selects("h"))
}

func TestParsePasses(t *testing.T) {
	prof, err := Parse([]byte(`passes = ["check-results", "insert-implicit-results"]`))
	require.NoError(t, err)
	assert.Equal(t, []lower.Pass{lower.CheckResults, lower.InsertImplicitResults}, prof.Passes)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{`emit = "wasm"`, "unknown emit mode: `wasm`"},
		{`loglevel = "loud"`, "unknown log level: `loud`"},
		{`passes = ["fold"]`, "unknown pass: `fold`"},
		{`up-to = "fold"`, "unknown pass: `fold`"},
		{"passes = [\"check-results\"]\nup-to = \"check-results\"", "`passes` and `up-to` cannot both be specified"},
		{`handle-prefix = "1x"`, "handle prefix `1x` must be a valid identifier"},
	}

	for _, c := range cases {
		_, err := Parse([]byte(c.src))
		if assert.Error(t, err, c.src) {
			assert.Equal(t, c.msg, err.Error())
		}
	}

	_, err := Parse([]byte(`emit = `))
	assert.Error(t, err)
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()

	prof, err := Find(dir)
	require.NoError(t, err)
	assert.Empty(t, prof.Path)

	path := filepath.Join(dir, ProfileFileName)
	require.NoError(t, os.WriteFile(path, []byte(`emit = "llvm"`), 0o644))

	prof, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, EmitLLVM, prof.Emit)
	assert.Equal(t, path, prof.Path)

	prof, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, path, prof.Path)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestSetters(t *testing.T) {
	prof := Default()
	require.NoError(t, prof.SetUpTo("rewrite-results"))
	assert.Len(t, prof.Passes, 3)
	assert.Error(t, prof.SetUpTo("nope"))

	require.NoError(t, prof.SetEmit(EmitAST))
	assert.Equal(t, EmitAST, prof.Emit)
	assert.Error(t, prof.SetEmit("bin"))
}
