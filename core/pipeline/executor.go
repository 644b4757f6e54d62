package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fabric-sync/core/collect"
	"fabric-sync/core/export"
	"fabric-sync/core/inventory"
	"fabric-sync/core/reconcile"
	"fabric-sync/core/registry"
	"fabric-sync/core/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Skip reasons reported on step results.
const (
	ReasonDependencyNotMet = "dependency not met"
	ReasonRunHalted        = "run halted"
	ReasonNoData           = "no data"
)

// SyncEngine reconciles one category within one scope.
type SyncEngine interface {
	Sync(ctx context.Context, category inventory.Category, scope registry.Scope, local []inventory.Entity, opts reconcile.Options) (*reconcile.Result, error)
}

// Exporter writes an entity list somewhere and reports what it produced.
type Exporter interface {
	Export(ctx context.Context, target string, entities []inventory.Entity, format string) (export.Artifact, error)
}

// ProgressFunc observes step execution. It fires with StatusRunning and a
// nil result when a step starts, and once more with the final result when it
// finishes. Steps skipped before starting only fire the final call.
type ProgressFunc func(stepID string, status StepStatus, result *StepResult)

// Deps wires the executor's collaborators.
type Deps struct {
	// Collectors resolves collect targets.
	Collectors *collect.Registry
	// Targets is the device set runs operate on.
	Targets []collect.DeviceTarget
	// Engine reconciles sync steps; nil means no registry is configured.
	Engine SyncEngine
	// Exporter handles export steps; nil fails them.
	Exporter Exporter
	// Logger must be set.
	Logger *zap.Logger
}

// RunOptions tune a single run.
type RunOptions struct {
	// DryRun propagates into every reconciler call of the run.
	DryRun bool
	// Cleanup turns delete candidates on for every sync step of the run,
	// on top of whatever the individual steps opt into.
	Cleanup bool
	// Targets narrows the run to the named devices; empty keeps all.
	Targets []string
	// OnProgress observes step execution; optional.
	OnProgress ProgressFunc
}

// Executor runs pipelines one step at a time.
type Executor struct {
	deps Deps
}

// NewExecutor builds an executor over the given collaborators.
func NewExecutor(deps Deps) *Executor {
	return &Executor{deps: deps}
}

// Run executes the pipeline and always returns a result; errors surface in
// the result, never as a panic or a bare error.
func (e *Executor) Run(ctx context.Context, p Pipeline, opts RunOptions) *RunResult {
	result := &RunResult{
		PipelineID: p.ID,
		RunID:      uuid.NewString(),
		Status:     RunCompleted,
		DryRun:     opts.DryRun,
		StartedAt:  time.Now(),
	}
	defer func() {
		result.TotalDuration = time.Since(result.StartedAt)
	}()

	if problems := Validate(p, e.deps.Collectors.Known()); len(problems) > 0 {
		result.Status = RunFailed
		result.Error = "pipeline is invalid: " + strings.Join(problems, "; ")
		return result
	}

	targets, err := collect.FilterTargets(e.deps.Targets, opts.Targets)
	if err != nil {
		result.Status = RunFailed
		result.Error = err.Error()
		return result
	}
	runCtx := newRunContext(targets)

	e.deps.Logger.Info("Pipeline run started",
		zap.String("pipeline", p.ID),
		zap.String("run_id", result.RunID),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("devices", len(targets)))

	steps := p.EnabledSteps()
	statuses := make(map[string]StepStatus, len(steps))
	for _, step := range steps {
		statuses[step.ID] = StatusPending
	}

	halted := false
	for _, step := range steps {
		var stepResult StepResult
		switch {
		case !dependenciesMet(step, statuses):
			stepResult = StepResult{StepID: step.ID, Status: StatusSkipped, Reason: ReasonDependencyNotMet}
		case halted:
			stepResult = StepResult{StepID: step.ID, Status: StatusSkipped, Reason: ReasonRunHalted}
		default:
			stepResult = e.runStep(ctx, step, runCtx, opts)
		}

		if opts.OnProgress != nil {
			opts.OnProgress(step.ID, stepResult.Status, &stepResult)
		}
		result.Steps = append(result.Steps, stepResult)
		statuses[step.ID] = stepResult.Status

		if stepResult.Status == StatusFailed && !halted {
			halted = true
			result.Status = RunFailed
			result.FailedStep = step.ID
			result.Error = stepResult.Error
		}
	}

	e.deps.Logger.Info("Pipeline run finished",
		zap.String("pipeline", p.ID),
		zap.String("run_id", result.RunID),
		zap.String("status", result.Status),
		zap.Duration("duration", time.Since(result.StartedAt)))
	return result
}

// dependenciesMet reports whether every dependency of the step has reached
// StatusCompleted. Dependencies on disabled steps never appear in the status
// map and therefore never count as met.
func dependenciesMet(step Step, statuses map[string]StepStatus) bool {
	for _, dep := range step.DependsOn {
		if statuses[dep] != StatusCompleted {
			return false
		}
	}
	return true
}

// runStep executes one step, converting panics and errors into a failed
// result at this boundary.
func (e *Executor) runStep(ctx context.Context, step Step, runCtx *runContext, opts RunOptions) (stepResult StepResult) {
	started := time.Now()
	stepResult = StepResult{StepID: step.ID, Status: StatusRunning}
	if opts.OnProgress != nil {
		opts.OnProgress(step.ID, StatusRunning, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			stepResult.Status = StatusFailed
			stepResult.Error = fmt.Sprintf("step panicked: %v", r)
		}
		stepResult.Duration = time.Since(started)
		if stepResult.Status == StatusFailed {
			e.deps.Logger.Error("Step failed",
				zap.String("step", step.ID),
				zap.String("error", stepResult.Error))
		}
	}()

	var data map[string]any
	var reason string
	var err error
	switch step.Type {
	case StepCollect:
		data, err = e.runCollect(ctx, step, runCtx, step.Options)
	case StepSync:
		data, err = e.runSync(ctx, step, runCtx, opts)
	case StepExport:
		data, reason, err = e.runExport(ctx, step, runCtx)
	default:
		err = fmt.Errorf("unknown step type %q", step.Type)
	}

	stepResult.Data = data
	switch {
	case err != nil:
		stepResult.Status = StatusFailed
		stepResult.Error = err.Error()
	case reason != "":
		stepResult.Status = StatusSkipped
		stepResult.Reason = reason
	default:
		stepResult.Status = StatusCompleted
	}
	return stepResult
}

// runCollect gathers entities for the step target and stores them in the run
// context, overwriting any prior value. The option bag is handed to the
// collector as string options.
func (e *Executor) runCollect(ctx context.Context, step Step, runCtx *runContext, optionBag map[string]any) (map[string]any, error) {
	records, err := e.deps.Collectors.Collect(ctx, step.Target, runCtx.targets, collectOptions(optionBag))
	if err != nil {
		return nil, err
	}

	entities, skipped := collect.MapRecords(inventory.Category(step.Target), records)
	runCtx.set(step.Target, entities)

	data := map[string]any{
		"records":  len(records),
		"entities": len(entities),
	}
	var failures []string
	for _, rec := range skipped {
		if rec.IsError() {
			failures = append(failures, fmt.Sprintf("%s: %s", rec.Device(), rec[collect.KeyError]))
		}
	}
	if len(failures) > 0 {
		data["errors"] = failures
	}
	return data, nil
}

// runSync reconciles the step's category. Missing data triggers an implicit
// collect first. Scopes run sequentially; the first engine error fails the
// step but keeps the statistics gathered so far.
func (e *Executor) runSync(ctx context.Context, step Step, runCtx *runContext, opts RunOptions) (map[string]any, error) {
	if e.deps.Engine == nil {
		return nil, fmt.Errorf("registry is not configured")
	}
	category := inventory.Category(step.Target)

	entities, ok := runCtx.get(step.Target)
	if !ok {
		data, err := e.runCollect(ctx, step, runCtx, nestedOptions(step.Options, "collect_options"))
		if err != nil {
			return nil, fmt.Errorf("implicit collect: %w", err)
		}
		e.deps.Logger.Info("Implicit collect before sync",
			zap.String("step", step.ID),
			zap.String("target", step.Target),
			zap.Any("collected", data["entities"]))
		entities, _ = runCtx.get(step.Target)
	}

	engineOpts := reconcile.Options{
		DryRun:         opts.DryRun,
		Cleanup:        opts.Cleanup || utils.ToBool(step.Options["cleanup"]),
		UpdateExisting: utils.ToBool(step.Options["update_existing"]),
	}
	baseScope := registry.Scope{
		Site:   stringOption(step.Options, "site"),
		Tenant: stringOption(step.Options, "tenant"),
	}

	var stats reconcile.Stats
	var details []reconcile.Detail
	var syncErr error
	for _, group := range groupByScope(category, baseScope, entities) {
		result, err := e.deps.Engine.Sync(ctx, category, group.scope, group.entities, engineOpts)
		if err != nil {
			syncErr = fmt.Errorf("sync %s %s: %w", category, group.label(), err)
			break
		}
		stats.Add(result.Stats)
		details = append(details, result.Details...)
	}

	data := map[string]any{
		"created": stats.Created,
		"updated": stats.Updated,
		"deleted": stats.Deleted,
		"skipped": stats.Skipped,
		"failed":  stats.Failed,
	}
	if len(details) > 0 {
		data["details"] = details
	}
	return data, syncErr
}

// runExport writes entities already collected for the target. Absent data is
// a skip, not a failure.
func (e *Executor) runExport(ctx context.Context, step Step, runCtx *runContext) (map[string]any, string, error) {
	entities, ok := runCtx.get(step.Target)
	if !ok || len(entities) == 0 {
		return nil, ReasonNoData, nil
	}
	if e.deps.Exporter == nil {
		return nil, "", fmt.Errorf("no exporter configured")
	}

	format := stringOption(step.Options, "format")
	if format == "" {
		format = "csv"
	}
	artifact, err := e.deps.Exporter.Export(ctx, step.Target, entities, format)
	if err != nil {
		return nil, "", err
	}
	data := map[string]any{
		"destination": artifact.Path,
		"count":       len(entities),
	}
	if artifact.Object != "" {
		data["object"] = artifact.Object
	}
	return data, "", nil
}

// scopeGroup is one reconciler invocation: a scope plus its entities.
type scopeGroup struct {
	scope    registry.Scope
	entities []inventory.Entity
}

func (g scopeGroup) label() string {
	switch {
	case g.scope.Device != "":
		return g.scope.Device
	case g.scope.Site != "":
		return g.scope.Site
	default:
		return "global"
	}
}

// groupByScope splits entities into the per-scope calls the reconciler
// expects: per device for device-scoped categories, per site for VLANs, one
// global call for devices. Groups come back in sorted scope order.
func groupByScope(category inventory.Category, base registry.Scope, entities []inventory.Entity) []scopeGroup {
	switch {
	case category.DeviceScoped():
		byDevice := make(map[string][]inventory.Entity)
		for _, entity := range entities {
			device := inventory.ScopeDevice(entity)
			byDevice[device] = append(byDevice[device], entity)
		}
		return sortedGroups(byDevice, func(device string) registry.Scope {
			scope := base
			scope.Device = device
			return scope
		})
	case category == inventory.CategoryVLANs:
		bySite := make(map[string][]inventory.Entity)
		for _, entity := range entities {
			site := ""
			if vlan, ok := entity.(inventory.VLAN); ok {
				site = vlan.Site
			}
			bySite[site] = append(bySite[site], entity)
		}
		return sortedGroups(bySite, func(site string) registry.Scope {
			scope := base
			scope.Site = site
			return scope
		})
	default:
		return []scopeGroup{{scope: base, entities: entities}}
	}
}

func sortedGroups(groups map[string][]inventory.Entity, scopeFor func(string) registry.Scope) []scopeGroup {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]scopeGroup, 0, len(keys))
	for _, key := range keys {
		out = append(out, scopeGroup{scope: scopeFor(key), entities: groups[key]})
	}
	return out
}

// collectOptions converts a step option bag into collector options.
func collectOptions(bag map[string]any) collect.Options {
	if len(bag) == 0 {
		return nil
	}
	opts := make(collect.Options, len(bag))
	for key, value := range bag {
		if value == nil {
			continue
		}
		opts[key] = utils.ToString(value)
	}
	return opts
}

// nestedOptions extracts a nested option map from a step option bag.
func nestedOptions(bag map[string]any, key string) map[string]any {
	nested, ok := bag[key].(map[string]any)
	if !ok {
		return nil
	}
	return nested
}

// stringOption reads an option as a string, "" when absent.
func stringOption(bag map[string]any, key string) string {
	value, ok := bag[key]
	if !ok || value == nil {
		return ""
	}
	return utils.ToString(value)
}
