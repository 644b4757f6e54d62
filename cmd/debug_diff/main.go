package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"fabric-sync/core/collect"
	"fabric-sync/core/config"
	"fabric-sync/core/diff"
	"fabric-sync/core/inventory"
	"fabric-sync/core/logger"
	"fabric-sync/core/registry"
)

// Standalone probe for the diff layer: collects devices, lists the registry,
// and prints how the two key sets line up before any reconciliation.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	if !cfg.Registry.Configured() {
		log.Fatal("registry is not configured (set REGISTRY_URL and REGISTRY_TOKEN)")
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		log.Fatal(err)
	}

	targets, err := collect.LoadTargets(cfg.Collect.TargetsFile)
	if err != nil {
		log.Fatal(err)
	}

	collectors := collect.NewRegistry(cfg.Collect, logg)
	client := registry.NewClient(cfg.Registry, logg)
	ctx := context.Background()

	fmt.Println("=== Local side: collect devices ===")
	records, err := collectors.Collect(ctx, "devices", targets, nil)
	if err != nil {
		log.Fatal(err)
	}
	local, skipped := collect.MapRecords(inventory.CategoryDevices, records)
	fmt.Printf("Collected %d device entities (%d records skipped)\n", len(local), len(skipped))

	fmt.Println("\n=== Remote side: list registry devices ===")
	remote, err := client.List(ctx, inventory.CategoryDevices, registry.Scope{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Registry holds %d device objects\n", len(remote))

	fmt.Println("\n=== Diff ===")
	d := diff.Calculate(inventory.CategoryDevices, local, remote)
	fmt.Printf("Creates: %d, Updates: %d, Delete candidates: %d\n",
		len(d.Creates), len(d.Updates), len(d.DeleteCandidates))

	for _, entity := range d.Creates {
		fmt.Printf("  would create: %s\n", entity.Key())
	}
	for _, change := range d.Updates {
		fmt.Printf("  would update %s (id %d): %s\n",
			change.Desired.Key(), change.ID, strings.Join(change.Fields, ", "))
	}
	for _, item := range d.DeleteCandidates {
		fmt.Printf("  only in registry: %s (id %d)\n", item.Key(), item.ID)
	}

	if !d.HasChanges(true) {
		fmt.Println("Local and registry state match.")
	}
}
