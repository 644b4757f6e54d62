package pipeline

import (
	"context"
	"fmt"
	"testing"

	"fabric-sync/core/collect"
	"fabric-sync/core/export"
	"fabric-sync/core/inventory"
	"fabric-sync/core/reconcile"
	"fabric-sync/core/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type engineCall struct {
	category inventory.Category
	scope    registry.Scope
	count    int
	opts     reconcile.Options
}

// fakeEngine records calls and replies with one created entity per local
// entity, or fails for a configured category.
type fakeEngine struct {
	calls  []engineCall
	failOn inventory.Category
}

func (f *fakeEngine) Sync(_ context.Context, category inventory.Category, scope registry.Scope, local []inventory.Entity, opts reconcile.Options) (*reconcile.Result, error) {
	f.calls = append(f.calls, engineCall{category: category, scope: scope, count: len(local), opts: opts})
	if category == f.failOn {
		return nil, fmt.Errorf("registry unreachable")
	}
	return &reconcile.Result{
		Category: category,
		Stats:    reconcile.Stats{Created: len(local)},
	}, nil
}

type stubRecords struct {
	name    string
	records []collect.Record
	opts    []collect.Options
	panics  bool
}

func (s *stubRecords) Name() string { return s.name }

func (s *stubRecords) Collect(_ context.Context, _ []collect.DeviceTarget, opts collect.Options) ([]collect.Record, error) {
	if s.panics {
		panic("collector exploded")
	}
	s.opts = append(s.opts, opts)
	return s.records, nil
}

type fakeExporter struct {
	calls int
}

func (f *fakeExporter) Export(_ context.Context, target string, _ []inventory.Entity, format string) (export.Artifact, error) {
	f.calls++
	return export.Artifact{
		Path:   fmt.Sprintf("/exports/%s.%s", target, format),
		Object: fmt.Sprintf("%s.%s", target, format),
	}, nil
}

type executorFixture struct {
	executor *Executor
	engine   *fakeEngine
	exporter *fakeExporter
	stubs    map[string]*stubRecords
}

func newFixture(t *testing.T, stubs ...*stubRecords) *executorFixture {
	t.Helper()
	collectors := collect.NewRegistry(collect.Config{}, zap.NewNop())
	byName := make(map[string]*stubRecords, len(stubs))
	for _, stub := range stubs {
		collectors.Register(stub)
		byName[stub.name] = stub
	}
	engine := &fakeEngine{}
	exporter := &fakeExporter{}
	executor := NewExecutor(Deps{
		Collectors: collectors,
		Targets:    []collect.DeviceTarget{{Name: "sw1", Site: "main"}},
		Engine:     engine,
		Exporter:   exporter,
		Logger:     zap.NewNop(),
	})
	return &executorFixture{executor: executor, engine: engine, exporter: exporter, stubs: byName}
}

func deviceRecord(name string) collect.Record {
	return collect.Record{collect.KeyDevice: name, "hostname": name, "site": "main"}
}

func TestRunCollectThenSyncDryRun(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := Pipeline{
		ID:   "nightly",
		Name: "Nightly",
		Steps: []Step{
			step("collect_devices", StepCollect, "devices"),
			step("sync_devices", StepSync, "devices", "collect_devices"),
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{DryRun: true})

	assert.Equal(t, RunCompleted, result.Status)
	assert.True(t, result.DryRun)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, StatusCompleted, result.Steps[0].Status)
	assert.Equal(t, StatusCompleted, result.Steps[1].Status)

	syncResult, ok := result.StepResultFor("sync_devices")
	require.True(t, ok)
	assert.Equal(t, 1, syncResult.Data["created"])
	assert.Equal(t, 0, syncResult.Data["failed"])

	require.Len(t, fixture.engine.calls, 1)
	assert.True(t, fixture.engine.calls[0].opts.DryRun)
	// The collector ran once, for the explicit collect step.
	assert.Len(t, fixture.stubs["devices"].opts, 1)
}

func TestRunImplicitCollectInheritsOptions(t *testing.T) {
	stub := &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}}
	fixture := newFixture(t, stub)
	p := Pipeline{
		ID:   "lean",
		Name: "Lean",
		Steps: []Step{{
			ID: "sync_devices", Type: StepSync, Target: "devices", Enabled: true,
			Options: map[string]any{
				"collect_options": map[string]any{"community": "lab"},
			},
		}},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunCompleted, result.Status)
	require.Len(t, stub.opts, 1)
	assert.Equal(t, "lab", stub.opts[0]["community"])
	require.Len(t, fixture.engine.calls, 1)
	assert.Equal(t, 1, fixture.engine.calls[0].count)
}

func TestRunSyncOptionsReachEngine(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := Pipeline{
		ID:   "scoped",
		Name: "Scoped",
		Steps: []Step{{
			ID: "sync_devices", Type: StepSync, Target: "devices", Enabled: true,
			Options: map[string]any{
				"cleanup":         true,
				"update_existing": true,
				"tenant":          "acme",
				"site":            "main",
			},
		}},
	}

	fixture.executor.Run(context.Background(), p, RunOptions{})

	require.Len(t, fixture.engine.calls, 1)
	call := fixture.engine.calls[0]
	assert.True(t, call.opts.Cleanup)
	assert.True(t, call.opts.UpdateExisting)
	assert.Equal(t, "acme", call.scope.Tenant)
	assert.Equal(t, "main", call.scope.Site)
}

func TestRunCleanupOptionCoversEverySyncStep(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := Pipeline{
		ID:   "scrub",
		Name: "Scrub",
		Steps: []Step{{
			ID: "sync_devices", Type: StepSync, Target: "devices", Enabled: true,
			Options: map[string]any{"tenant": "acme"},
		}},
	}

	fixture.executor.Run(context.Background(), p, RunOptions{Cleanup: true})

	require.Len(t, fixture.engine.calls, 1)
	assert.True(t, fixture.engine.calls[0].opts.Cleanup)
}

func TestRunDeviceScopedSyncGroupsPerDevice(t *testing.T) {
	fixture := newFixture(t,
		&stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}},
		&stubRecords{name: "interfaces", records: []collect.Record{
			{collect.KeyDevice: "sw2", "name": "Gi0/1"},
			{collect.KeyDevice: "sw1", "name": "Gi0/1"},
			{collect.KeyDevice: "sw1", "name": "Gi0/2"},
		}},
	)
	p := Pipeline{
		ID:   "full",
		Name: "Full",
		Steps: []Step{
			step("sync_devices", StepSync, "devices"),
			step("sync_interfaces", StepSync, "interfaces", "sync_devices"),
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunCompleted, result.Status)
	require.Len(t, fixture.engine.calls, 3)
	assert.Equal(t, inventory.CategoryDevices, fixture.engine.calls[0].category)
	assert.Equal(t, "", fixture.engine.calls[0].scope.Device)
	// Device-scoped groups run in sorted device order.
	assert.Equal(t, "sw1", fixture.engine.calls[1].scope.Device)
	assert.Equal(t, 2, fixture.engine.calls[1].count)
	assert.Equal(t, "sw2", fixture.engine.calls[2].scope.Device)
	assert.Equal(t, 1, fixture.engine.calls[2].count)
}

func TestRunHaltsAfterFailedStep(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	fixture.engine.failOn = inventory.CategoryDevices
	p := Pipeline{
		ID:   "halting",
		Name: "Halting",
		Steps: []Step{
			step("collect_devices", StepCollect, "devices"),
			step("sync_devices", StepSync, "devices", "collect_devices"),
			step("export_devices", StepExport, "devices"),
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunFailed, result.Status)
	assert.Equal(t, "sync_devices", result.FailedStep)
	assert.Contains(t, result.Error, "registry unreachable")
	require.Len(t, result.Steps, 3)

	assert.Equal(t, StatusCompleted, result.Steps[0].Status)
	// Completed step data is preserved after the failure.
	assert.Equal(t, 1, result.Steps[0].Data["entities"])
	assert.Equal(t, StatusFailed, result.Steps[1].Status)
	assert.Equal(t, StatusSkipped, result.Steps[2].Status)
	assert.Equal(t, ReasonRunHalted, result.Steps[2].Reason)
	assert.Zero(t, fixture.exporter.calls)
}

func TestRunDependencyOnDisabledStepSkips(t *testing.T) {
	stub := &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}}
	fixture := newFixture(t, stub)
	p := Pipeline{
		ID:   "dep",
		Name: "Dep",
		Steps: []Step{
			{ID: "collect_devices", Type: StepCollect, Target: "devices", Enabled: false},
			step("sync_devices", StepSync, "devices", "collect_devices"),
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	// Disabled steps do not appear in the result at all.
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StatusSkipped, result.Steps[0].Status)
	assert.Equal(t, ReasonDependencyNotMet, result.Steps[0].Reason)
	// The sync step never started, so nothing was collected or synced.
	assert.Empty(t, stub.opts)
	assert.Empty(t, fixture.engine.calls)
}

func TestRunSkipReasonPrefersDependencyOverHalt(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	fixture.engine.failOn = inventory.CategoryDevices
	p := Pipeline{
		ID:   "reasons",
		Name: "Reasons",
		Steps: []Step{
			step("sync_devices", StepSync, "devices"),
			step("export_devices", StepExport, "devices", "sync_devices"),
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	require.Len(t, result.Steps, 2)
	assert.Equal(t, StatusFailed, result.Steps[0].Status)
	assert.Equal(t, ReasonDependencyNotMet, result.Steps[1].Reason)
}

func TestRunExport(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := Pipeline{
		ID:   "exporting",
		Name: "Exporting",
		Steps: []Step{
			step("collect_devices", StepCollect, "devices"),
			{ID: "export_devices", Type: StepExport, Target: "devices", Enabled: true,
				Options: map[string]any{"format": "json"}, DependsOn: []string{"collect_devices"}},
		},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunCompleted, result.Status)
	exportResult, ok := result.StepResultFor("export_devices")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, exportResult.Status)
	assert.Equal(t, "/exports/devices.json", exportResult.Data["destination"])
	assert.Equal(t, "devices.json", exportResult.Data["object"])
	assert.Equal(t, 1, exportResult.Data["count"])
}

func TestRunExportWithoutDataSkips(t *testing.T) {
	fixture := newFixture(t)
	p := Pipeline{
		ID:    "empty-export",
		Name:  "Empty export",
		Steps: []Step{step("export_devices", StepExport, "devices")},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunCompleted, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StatusSkipped, result.Steps[0].Status)
	assert.Equal(t, ReasonNoData, result.Steps[0].Reason)
	assert.Zero(t, fixture.exporter.calls)
}

func TestRunSyncWithoutRegistryFails(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	fixture.executor.deps.Engine = nil
	p := Pipeline{
		ID:    "no-registry",
		Name:  "No registry",
		Steps: []Step{step("sync_devices", StepSync, "devices")},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunFailed, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Contains(t, result.Steps[0].Error, "registry is not configured")
}

func TestRunRecoversFromPanic(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", panics: true})
	p := Pipeline{
		ID:    "panicking",
		Name:  "Panicking",
		Steps: []Step{step("collect_devices", StepCollect, "devices")},
	}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunFailed, result.Status)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, StatusFailed, result.Steps[0].Status)
	assert.Contains(t, result.Steps[0].Error, "step panicked")
}

func TestRunRefusesInvalidPipeline(t *testing.T) {
	fixture := newFixture(t)
	p := Pipeline{ID: "invalid", Name: "Invalid"}

	result := fixture.executor.Run(context.Background(), p, RunOptions{})

	assert.Equal(t, RunFailed, result.Status)
	assert.Contains(t, result.Error, "pipeline is invalid")
	assert.Empty(t, result.Steps)
}

func TestRunUnknownTargetFilter(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := testPipeline("filtered")

	result := fixture.executor.Run(context.Background(), p, RunOptions{Targets: []string{"ghost"}})

	assert.Equal(t, RunFailed, result.Status)
	assert.Contains(t, result.Error, "ghost")
	assert.Empty(t, result.Steps)
}

func TestRunProgressCallbacks(t *testing.T) {
	fixture := newFixture(t, &stubRecords{name: "devices", records: []collect.Record{deviceRecord("sw1")}})
	p := Pipeline{
		ID:   "observed",
		Name: "Observed",
		Steps: []Step{
			step("collect_devices", StepCollect, "devices"),
			step("sync_devices", StepSync, "devices", "collect_devices"),
		},
	}

	var events []string
	fixture.executor.Run(context.Background(), p, RunOptions{
		OnProgress: func(stepID string, status StepStatus, _ *StepResult) {
			events = append(events, stepID+":"+string(status))
		},
	})

	assert.Equal(t, []string{
		"collect_devices:running",
		"collect_devices:completed",
		"sync_devices:running",
		"sync_devices:completed",
	}, events)
}
