package reconcile

import (
	"context"
	"fmt"

	"fabric-sync/core/diff"
	"fabric-sync/core/inventory"
	"fabric-sync/core/registry"

	"go.uber.org/zap"
)

// Engine reconciles observed entity sets into the registry.
type Engine struct {
	client registry.Client
	logger *zap.Logger
}

// NewEngine creates a reconcile engine.
func NewEngine(client registry.Client, logger *zap.Logger) *Engine {
	return &Engine{client: client, logger: logger}
}

// Sync reconciles one category within one scope. It resolves the scope,
// diffs local against the registry, and applies creates, updates, and
// deletes in that order. Per-item mutation failures are recorded in the
// result; the returned error is reserved for scope, safety-gate, and
// transport failures, which leave the registry unmutated by this call.
func (e *Engine) Sync(ctx context.Context, category inventory.Category, scope registry.Scope, local []inventory.Entity, opts Options) (*Result, error) {
	// Safety gate first: device cleanup without a tenant is refused before
	// any work, so the same call never behaves differently between preview
	// and apply.
	if category == inventory.CategoryDevices && opts.Cleanup && scope.Tenant == "" {
		return nil, ErrCleanupRequiresTenant
	}

	if err := e.resolveScope(ctx, category, scope); err != nil {
		return nil, err
	}

	remote, err := e.client.List(ctx, category, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", category, err)
	}

	d := diff.Calculate(category, local, remote)

	if opts.DryRun {
		return e.preview(d, opts), nil
	}

	result := &Result{Category: category}
	e.applyCreates(ctx, d, result)
	e.applyUpdates(ctx, d, opts, result)
	e.applyDeletes(ctx, d, opts, result)

	e.logger.Info("Sync applied",
		zap.String("category", string(category)),
		zap.String("device", scope.Device),
		zap.Int("created", result.Stats.Created),
		zap.Int("updated", result.Stats.Updated),
		zap.Int("deleted", result.Stats.Deleted),
		zap.Int("skipped", result.Stats.Skipped),
		zap.Int("failed", result.Stats.Failed),
	)
	return result, nil
}

// resolveScope verifies the parent object a scoped sync hangs off of.
// Device-scoped categories need their device present in the registry;
// VLAN syncs with a site scope need that site.
func (e *Engine) resolveScope(ctx context.Context, category inventory.Category, scope registry.Scope) error {
	if category.DeviceScoped() {
		if scope.Device == "" {
			return fmt.Errorf("%w: %s sync requires a device scope", ErrScopeNotFound, category)
		}
		item, err := e.client.LookupDevice(ctx, scope.Device)
		if err != nil {
			return fmt.Errorf("failed to resolve device %q: %w", scope.Device, err)
		}
		if item == nil {
			return fmt.Errorf("%w: device %q", ErrScopeNotFound, scope.Device)
		}
		return nil
	}

	if category == inventory.CategoryVLANs && scope.Site != "" {
		exists, err := e.client.LookupSite(ctx, scope.Site)
		if err != nil {
			return fmt.Errorf("failed to resolve site %q: %w", scope.Site, err)
		}
		if !exists {
			return fmt.Errorf("%w: site %q", ErrScopeNotFound, scope.Site)
		}
	}
	return nil
}

// preview builds the result a dry run reports: the same counts and details
// an apply would produce, with zero mutations.
func (e *Engine) preview(d diff.Diff, opts Options) *Result {
	result := &Result{Category: d.Category}

	for _, entity := range d.Creates {
		result.Stats.Created++
		result.Details = append(result.Details, Detail{Action: ActionCreate, Key: entity.Label()})
	}
	for _, change := range d.Updates {
		if opts.UpdateExisting {
			result.Stats.Updated++
			result.Details = append(result.Details, Detail{Action: ActionUpdate, Key: change.Desired.Label(), Fields: change.Fields})
		} else {
			result.Stats.Skipped++
			result.Details = append(result.Details, Detail{Action: ActionSkip, Key: change.Desired.Label(), Fields: change.Fields})
		}
	}
	for _, item := range d.DeleteCandidates {
		if opts.Cleanup {
			result.Stats.Deleted++
			result.Details = append(result.Details, Detail{Action: ActionDelete, Key: item.Entity.Label()})
		} else {
			result.Stats.Skipped++
			result.Details = append(result.Details, Detail{Action: ActionSkip, Key: item.Entity.Label()})
		}
	}
	return result
}

// applyCreates applies the create bucket. Interface creates run in two
// phases: aggregates first, then members, so LAG parent references resolve.
func (e *Engine) applyCreates(ctx context.Context, d diff.Diff, result *Result) {
	if d.Category == inventory.CategoryInterfaces {
		lags, members := splitLAGEntities(d.Creates)
		e.createBatch(ctx, d.Category, lags, result)
		e.createBatch(ctx, d.Category, members, result)
		return
	}
	e.createBatch(ctx, d.Category, d.Creates, result)
}

// applyUpdates applies the update bucket with the same LAG-before-members
// ordering as creates. When update_existing is off, pending updates are
// counted as skipped.
func (e *Engine) applyUpdates(ctx context.Context, d diff.Diff, opts Options, result *Result) {
	if !opts.UpdateExisting {
		for _, change := range d.Updates {
			result.Stats.Skipped++
			result.Details = append(result.Details, Detail{Action: ActionSkip, Key: change.Desired.Label(), Fields: change.Fields})
		}
		return
	}

	if d.Category == inventory.CategoryInterfaces {
		lags, members := splitLAGChanges(d.Updates)
		e.updateBatch(ctx, d.Category, lags, result)
		e.updateBatch(ctx, d.Category, members, result)
		return
	}
	e.updateBatch(ctx, d.Category, d.Updates, result)
}

// applyDeletes applies the delete bucket when cleanup is enabled; otherwise
// delete candidates are counted as skipped.
func (e *Engine) applyDeletes(ctx context.Context, d diff.Diff, opts Options, result *Result) {
	if !opts.Cleanup {
		for _, item := range d.DeleteCandidates {
			result.Stats.Skipped++
			result.Details = append(result.Details, Detail{Action: ActionSkip, Key: item.Entity.Label()})
		}
		return
	}
	e.deleteBatch(ctx, d.Category, d.DeleteCandidates, result)
}

// createBatch attempts one bulk create, falling back to per-item creates
// when the bulk call fails.
func (e *Engine) createBatch(ctx context.Context, category inventory.Category, entities []inventory.Entity, result *Result) {
	if len(entities) == 0 {
		return
	}

	_, batchErr := e.client.CreateMany(ctx, category, entities)
	if batchErr == nil {
		for _, entity := range entities {
			result.Stats.Created++
			result.Details = append(result.Details, Detail{Action: ActionCreate, Key: entity.Label()})
		}
		return
	}
	e.logger.Warn("Bulk create failed, retrying per item",
		zap.String("category", string(category)),
		zap.Int("count", len(entities)),
		zap.Error(batchErr),
	)

	for _, entity := range entities {
		if _, err := e.client.Create(ctx, entity); err != nil {
			result.Stats.Failed++
			result.Details = append(result.Details, Detail{Action: ActionCreate, Key: entity.Label(), Error: err.Error()})
			continue
		}
		result.Stats.Created++
		result.Details = append(result.Details, Detail{Action: ActionCreate, Key: entity.Label()})
	}
}

// updateBatch attempts one bulk update, falling back to per-item updates
// when the bulk call fails.
func (e *Engine) updateBatch(ctx context.Context, category inventory.Category, changes []diff.Change, result *Result) {
	if len(changes) == 0 {
		return
	}

	updates := make([]registry.Update, 0, len(changes))
	for _, change := range changes {
		updates = append(updates, registry.Update{ID: change.ID, Entity: change.Desired, Fields: change.Fields})
	}

	batchErr := e.client.UpdateMany(ctx, category, updates)
	if batchErr == nil {
		for _, change := range changes {
			result.Stats.Updated++
			result.Details = append(result.Details, Detail{Action: ActionUpdate, Key: change.Desired.Label(), Fields: change.Fields})
		}
		return
	}
	e.logger.Warn("Bulk update failed, retrying per item",
		zap.String("category", string(category)),
		zap.Int("count", len(changes)),
		zap.Error(batchErr),
	)

	for _, change := range changes {
		update := registry.Update{ID: change.ID, Entity: change.Desired, Fields: change.Fields}
		if err := e.client.Update(ctx, update); err != nil {
			result.Stats.Failed++
			result.Details = append(result.Details, Detail{Action: ActionUpdate, Key: change.Desired.Label(), Fields: change.Fields, Error: err.Error()})
			continue
		}
		result.Stats.Updated++
		result.Details = append(result.Details, Detail{Action: ActionUpdate, Key: change.Desired.Label(), Fields: change.Fields})
	}
}

// deleteBatch attempts one bulk delete, falling back to per-item deletes
// when the bulk call fails.
func (e *Engine) deleteBatch(ctx context.Context, category inventory.Category, items []registry.Item, result *Result) {
	if len(items) == 0 {
		return
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	batchErr := e.client.DeleteMany(ctx, category, ids)
	if batchErr == nil {
		for _, item := range items {
			result.Stats.Deleted++
			result.Details = append(result.Details, Detail{Action: ActionDelete, Key: item.Entity.Label()})
		}
		return
	}
	e.logger.Warn("Bulk delete failed, retrying per item",
		zap.String("category", string(category)),
		zap.Int("count", len(items)),
		zap.Error(batchErr),
	)

	for _, item := range items {
		if err := e.client.Delete(ctx, category, item.ID); err != nil {
			result.Stats.Failed++
			result.Details = append(result.Details, Detail{Action: ActionDelete, Key: item.Entity.Label(), Error: err.Error()})
			continue
		}
		result.Stats.Deleted++
		result.Details = append(result.Details, Detail{Action: ActionDelete, Key: item.Entity.Label()})
	}
}

// splitLAGEntities partitions interface entities into aggregates and the
// rest, preserving relative order inside each partition.
func splitLAGEntities(entities []inventory.Entity) (lags, members []inventory.Entity) {
	for _, entity := range entities {
		if iface, ok := entity.(inventory.Interface); ok && iface.IsLAG() {
			lags = append(lags, entity)
			continue
		}
		members = append(members, entity)
	}
	return lags, members
}

// splitLAGChanges partitions interface updates into aggregates and the rest.
func splitLAGChanges(changes []diff.Change) (lags, members []diff.Change) {
	for _, change := range changes {
		if iface, ok := change.Desired.(inventory.Interface); ok && iface.IsLAG() {
			lags = append(lags, change)
			continue
		}
		members = append(members, change)
	}
	return lags, members
}
