package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-detrend/detrend"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "--list")
	require.NoError(t, err)
	for _, e := range registry {
		assert.Contains(t, out, e.name)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(registry))
	assert.True(t, strings.HasPrefix(lines[0], "constant"))
}

func TestRunConstant(t *testing.T) {
	out, _, err := execute(t, "constant")
	require.NoError(t, err)
	lower := strings.ToLower(out)
	assert.Contains(t, lower, "scenario")
	assert.Contains(t, out, "constant")
	assert.Contains(t, out, "2001")
	assert.NotContains(t, out, "smooth")
}

func TestRunStepFindsBreakpoint(t *testing.T) {
	out, _, err := execute(t, "step")
	require.NoError(t, err)
	assert.Regexp(t, `\b(19\.99\d|20\.0[0-3]\d)\b`, out)
}

func TestUnknownScenario(t *testing.T) {
	_, errOut, err := execute(t, "nope")
	require.Error(t, err)
	assert.Contains(t, errOut, `unknown scenario "nope"`)
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "--maxditer", "0", "constant")
	require.ErrorIs(t, err, detrend.ErrInvalidConfig)

	_, _, err = execute(t, "--preset", "tess", "constant")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}

func newTestViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse(args))
	v := viper.New()
	require.NoError(t, v.BindPFlags(cmd.Flags()))
	v.SetEnvPrefix("TRENDINFO")
	v.AutomaticEnv()
	return v
}

func TestLoadSettingsPresetAndOverrides(t *testing.T) {
	s, err := loadSettings(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, detrend.PresetProfile(detrend.PresetDefault), s.profile)
	assert.Equal(t, int64(1), s.seed)

	s, err = loadSettings(newTestViper(t, "--preset", "kepler", "--dt", "2"))
	require.NoError(t, err)
	assert.Equal(t, detrend.PresetKepler, s.preset)
	assert.Equal(t, 4.0, s.profile.Q)
	assert.Equal(t, 2.0, s.profile.Dt)
	assert.Greater(t, s.profile.FillTimes, 0.0)
	assert.NotEmpty(t, s.options(nil))
}

func TestLoadSettingsFromEnv(t *testing.T) {
	t.Setenv("TRENDINFO_Q", "3.5")
	t.Setenv("TRENDINFO_SEED", "9")

	s, err := loadSettings(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, 3.5, s.profile.Q)
	assert.Equal(t, int64(9), s.seed)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendinfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxditer: 0\n"), 0o600))

	_, _, err := execute(t, "--config", path, "constant")
	require.ErrorIs(t, err, detrend.ErrInvalidConfig)
}

func TestFormatBreakpoints(t *testing.T) {
	assert.Equal(t, "-", formatBreakpoints(nil))
	assert.Equal(t, "1.500,20.025", formatBreakpoints([]float64{1.5, 20.025}))
}

func TestBinaryImportsNoTestHelpers(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		require.NoError(t, err)
		for _, imp := range f.Imports {
			assert.NotContains(t, imp.Path.Value, "internal/testutil", name)
		}
	}
}

func TestScenariosAreDeterministic(t *testing.T) {
	for _, e := range registry {
		a, b := e.gen(3), e.gen(3)
		require.Equal(t, a.Len(), len(a.Y), e.name)
		assert.Equal(t, a.Y, b.Y, e.name)
	}
	assert.Less(t, gapScenario(1).Len(), smoothScenario(1).Len())
}
