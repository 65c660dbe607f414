package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

const scenarioYAML = `
name: smoke
description: two small clouds
runs:
  - name: sparse-short
    preset: sparse
    params:
      particles: 20
      steps: 4
  - preset: cloud
    repeat: 2
    params:
      particles: 15
      steps: 3
      seed: 100
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "smoke", sc.Name)
	require.Len(t, sc.Runs, 2)
	assert.Equal(t, "sparse", sc.Runs[0].Preset)
	assert.Equal(t, 2, sc.Runs[1].Repeat)
	assert.Equal(t, 100.0, sc.Runs[1].Params["seed"])

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.Error(t, err)
	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	cfg, err := RunSpec{Preset: "dense", Params: map[string]float64{"g": 2}}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Particles)
	assert.Equal(t, 2.0, cfg.G)

	_, err = RunSpec{Preset: "nope"}.Resolve()
	assert.Error(t, err)
	_, err = RunSpec{Params: map[string]float64{"colour": 1}}.Resolve()
	assert.Error(t, err)
	_, err = RunSpec{Params: map[string]float64{"particles": 0}}.Resolve()
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	st := storage.New(filepath.Join(t.TempDir(), "data"))

	outcomes, err := RunScenario(context.Background(), sc, st)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "sparse-short", outcomes[0].Spec)
	assert.Equal(t, 4, outcomes[0].Steps)
	assert.Equal(t, "run-2", outcomes[1].Spec)
	assert.Equal(t, uint64(100), outcomes[1].Seed)
	assert.Equal(t, uint64(101), outcomes[2].Seed)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	frames, err := st.LoadFrames(outcomes[2].RunID)
	require.NoError(t, err)
	assert.Len(t, frames, 4)

	stable, unstable := StableCount(outcomes)
	assert.Equal(t, 3, stable+unstable)
}

func TestStableCount(t *testing.T) {
	stable, unstable := StableCount([]Outcome{
		{Final: sim.Frame{Particles: 5, Tracked: 5}},
		{Final: sim.Frame{Particles: 5, Tracked: 4}},
	})
	assert.Equal(t, 1, stable)
	assert.Equal(t, 1, unstable)
}
