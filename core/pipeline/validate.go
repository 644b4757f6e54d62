package pipeline

import (
	"fmt"

	"fabric-sync/core/inventory"
)

// syncPrerequisites maps a sync category to the category whose sync step
// must exist in the same pipeline. Presence is checked, not order.
var syncPrerequisites = map[inventory.Category]inventory.Category{
	inventory.CategoryInterfaces:     inventory.CategoryDevices,
	inventory.CategoryCables:         inventory.CategoryInterfaces,
	inventory.CategoryIPAddresses:    inventory.CategoryInterfaces,
	inventory.CategoryVLANs:          inventory.CategoryDevices,
	inventory.CategoryInventoryItems: inventory.CategoryDevices,
}

// Validate checks a pipeline definition and returns every violation found.
// An empty result means the pipeline may run. collectors is the set of
// registered collector names collect steps may target.
func Validate(p Pipeline, collectors []string) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if p.ID == "" {
		report("pipeline id is required")
	}
	if p.Name == "" {
		report("pipeline name is required")
	}
	if len(p.Steps) == 0 {
		report("pipeline has no steps")
		return problems
	}

	known := make(map[string]bool, len(collectors))
	for _, name := range collectors {
		known[name] = true
	}

	ids := make(map[string]bool, len(p.Steps))
	syncTargets := make(map[inventory.Category]bool)
	for i, step := range p.Steps {
		if step.ID == "" {
			report("step %d has no id", i+1)
			continue
		}
		if ids[step.ID] {
			report("duplicate step id %q", step.ID)
		}
		ids[step.ID] = true
		if step.Type == StepSync {
			syncTargets[inventory.Category(step.Target)] = true
		}
	}

	for _, step := range p.Steps {
		if step.ID == "" {
			continue
		}
		switch step.Type {
		case StepCollect:
			if !known[step.Target] {
				report("step %q: unknown collect target %q", step.ID, step.Target)
			}
		case StepSync:
			if !inventory.ValidCategory(step.Target) {
				report("step %q: unknown sync category %q", step.ID, step.Target)
			} else if prereq, ok := syncPrerequisites[inventory.Category(step.Target)]; ok && !syncTargets[prereq] {
				report("sync step %q (%s) requires a %s sync step in the same pipeline", step.ID, step.Target, prereq)
			}
		case StepExport:
			if step.Target == "" {
				report("step %q: export target is required", step.ID)
			}
		default:
			report("step %q has unknown type %q", step.ID, step.Type)
		}

		for _, dep := range step.DependsOn {
			if !ids[dep] {
				report("step %q depends on unknown step %q", step.ID, dep)
			}
		}
	}

	return problems
}
