package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	return path
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, Defaults().Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "machines.yaml", `
log_level: debug
metrics_file: /tmp/machines.prom
cube:
  dimensions: 4
  new_life_spawn: [3, 6]
console:
  step_budget: 500
  trace: true
`)

	cf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cf.LogLevel)
	assert.Equal(t, "auto", cf.LogFormat)
	assert.Equal(t, "/tmp/machines.prom", cf.MetricsFile)
	assert.Equal(t, 4, cf.Cube.Dimensions)
	assert.Equal(t, 6, cf.Cube.Generations)
	assert.Equal(t, []int{3, 6}, cf.Cube.NewLifeSpawn)
	assert.Equal(t, []int{2, 3}, cf.Cube.ExistingLifeRemain)
	assert.Equal(t, 500, cf.Console.StepBudget)
	assert.True(t, cf.Console.Trace)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "machines.toml", `
log_format = "json"

[cube]
input_file = "day17.txt"
generations = 3
existing_life_remain = [1, 2]
`)

	cf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cf.LogFormat)
	assert.Equal(t, "day17.txt", cf.Cube.InputFile)
	assert.Equal(t, 3, cf.Cube.Generations)
	assert.Equal(t, 3, cf.Cube.Dimensions)
	assert.Equal(t, []int{1, 2}, cf.Cube.ExistingLifeRemain)
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cf, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cf)
}

func TestLoadUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "bad.yaml", "cube:\n  ticks: 4\n"))
	assert.ErrorContains(t, err, "decoding configuration YAML")

	_, err = Load(writeFile(t, "bad.toml", "[cube]\nticks = 4\n"))
	assert.ErrorContains(t, err, "unknown keys cube.ticks")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"dimensions", "cube:\n  dimensions: 9\n", "File.Cube.Dimensions"},
		{"generations", "cube:\n  generations: 0\n", "File.Cube.Generations"},
		{"negative rule", "cube:\n  new_life_spawn: [-1]\n", "File.Cube.NewLifeSpawn[0]"},
		{"log level", "log_level: loud\n", "File.LogLevel"},
		{"budget", "console:\n  step_budget: -5\n", "File.Console.StepBudget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "machines.yaml", tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
