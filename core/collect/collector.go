package collect

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Collector walks one category of device state across a set of targets.
type Collector interface {
	// Name returns the collection target name, matching the entity category.
	Name() string

	// Collect gathers records from the given targets. Per-device failures
	// are returned inline as error records, not as the error value.
	Collect(ctx context.Context, targets []DeviceTarget, opts Options) ([]Record, error)
}

// Registry holds the known collectors keyed by target name.
type Registry struct {
	collectors map[string]Collector
	logger     *zap.Logger
}

// NewRegistry builds a registry populated with the shipped SNMP collectors.
func NewRegistry(cfg Config, logger *zap.Logger) *Registry {
	r := &Registry{
		collectors: make(map[string]Collector),
		logger:     logger,
	}
	for _, c := range snmpCollectors(cfg) {
		r.Register(c)
	}
	return r
}

// Register adds or replaces a collector under its name.
func (r *Registry) Register(c Collector) {
	r.collectors[c.Name()] = c
}

// Known returns the sorted collector names, used by pipeline validation.
func (r *Registry) Known() []string {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a collector exists for the target name.
func (r *Registry) Has(name string) bool {
	_, ok := r.collectors[name]
	return ok
}

// Collect runs the named collector against the targets.
func (r *Registry) Collect(ctx context.Context, name string, targets []DeviceTarget, opts Options) ([]Record, error) {
	c, ok := r.collectors[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection target %q", name)
	}
	records, err := c.Collect(ctx, targets, opts)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", name, err)
	}
	failed := 0
	for _, rec := range records {
		if rec.IsError() {
			failed++
		}
	}
	r.logger.Info("Collection finished",
		zap.String("target", name),
		zap.Int("devices", len(targets)),
		zap.Int("records", len(records)-failed),
		zap.Int("failed_devices", failed))
	return records, nil
}
