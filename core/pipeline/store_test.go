package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline(id string) Pipeline {
	return Pipeline{
		ID:      id,
		Name:    "Pipeline " + id,
		Enabled: true,
		Steps: []Step{
			step("collect_devices", StepCollect, "devices"),
			step("sync_devices", StepSync, "devices", "collect_devices"),
		},
	}
}

func TestStoreSaveGetRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), knownCollectors)
	p := testPipeline("nightly")

	require.NoError(t, store.Save(p))

	got, err := store.Get("nightly")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Lookup by name works too, case-insensitively.
	got, err = store.Get("pipeline NIGHTLY")
	require.NoError(t, err)
	assert.Equal(t, "nightly", got.ID)
}

func TestStoreRefusesInvalidPipeline(t *testing.T) {
	store := NewStore(t.TempDir(), knownCollectors)

	err := store.Save(Pipeline{ID: "bad", Name: "Bad"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no steps")
}

func TestStoreRefusesPathSeparatorsInID(t *testing.T) {
	store := NewStore(t.TempDir(), knownCollectors)
	p := testPipeline("../escape")

	err := store.Save(p)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "path separators")
}

func TestStoreReadsYAMLDefinitions(t *testing.T) {
	dir := t.TempDir()
	yamlDef := `
id: weekly
name: Weekly audit
enabled: true
steps:
  - id: collect_devices
    type: collect
    target: devices
    enabled: true
  - id: sync_devices
    type: sync
    target: devices
    enabled: true
    options:
      update_existing: true
    depends_on: [collect_devices]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weekly.yaml"), []byte(yamlDef), 0o644))
	store := NewStore(dir, knownCollectors)

	p, err := store.Get("weekly")

	require.NoError(t, err)
	assert.Equal(t, "Weekly audit", p.Name)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, StepSync, p.Steps[1].Type)
	assert.Equal(t, true, p.Steps[1].Options["update_existing"])
	assert.Equal(t, []string{"collect_devices"}, p.Steps[1].DependsOn)
}

func TestStoreSavePreservesYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weekly.yml"), []byte(`
id: weekly
name: Weekly
steps:
  - {id: s, type: collect, target: devices, enabled: true}
`), 0o644))
	store := NewStore(dir, knownCollectors)

	p, err := store.Get("weekly")
	require.NoError(t, err)
	p.Description = "updated"
	require.NoError(t, store.Save(p))

	data, err := os.ReadFile(filepath.Join(dir, "weekly.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "description: updated")
	assert.NotContains(t, string(data), "{")
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir(), knownCollectors)
	require.NoError(t, store.Save(testPipeline("beta")))
	require.NoError(t, store.Save(testPipeline("alpha")))

	pipelines, err := store.List()

	require.NoError(t, err)
	require.Len(t, pipelines, 2)
	assert.Equal(t, "alpha", pipelines[0].ID)
	assert.Equal(t, "beta", pipelines[1].ID)
}

func TestStoreListMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"), knownCollectors)

	pipelines, err := store.List()

	require.NoError(t, err)
	assert.Empty(t, pipelines)
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(t.TempDir(), knownCollectors)
	require.NoError(t, store.Save(testPipeline("gone")))

	require.NoError(t, store.Delete("gone"))

	_, err := store.Get("gone")
	assert.ErrorIs(t, err, ErrPipelineNotFound)

	err = store.Delete("gone")
	assert.ErrorIs(t, err, ErrPipelineNotFound)
}
