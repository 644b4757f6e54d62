package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"fabric-sync/core/collect"
	"fabric-sync/core/config"
	"fabric-sync/core/inventory"
	"fabric-sync/core/logger"
)

// Standalone probe for the collection layer: runs one collector against the
// configured targets and shows exactly what the mapper makes of the records.
func main() {
	target := "devices"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
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
	if !collectors.Has(target) {
		log.Fatalf("unknown collector %q (known: %s)", target, strings.Join(collectors.Known(), ", "))
	}
	ctx := context.Background()

	fmt.Printf("=== TEST 1: Collect %q from %d device(s) ===\n", target, len(targets))
	records, err := collectors.Collect(ctx, target, targets, nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total records collected: %d\n", len(records))

	failures := 0
	for _, rec := range records {
		if rec.IsError() {
			failures++
			fmt.Printf("  device %s failed: %s\n", rec.Device(), rec[collect.KeyError])
		}
	}
	fmt.Printf("Failed devices: %d\n", failures)

	fmt.Println("\n=== TEST 2: Map records to entities ===")
	entities, skipped := collect.MapRecords(inventory.Category(target), records)
	fmt.Printf("Entities mapped: %d, records skipped: %d\n", len(entities), len(skipped))

	for i, entity := range entities {
		fmt.Printf("  %s\n", entity.Key())
		if i >= 19 {
			fmt.Printf("  ... %d more\n", len(entities)-20)
			break
		}
	}

	// Save detailed output
	output := map[string]interface{}{
		"target":         target,
		"devices":        len(targets),
		"records":        len(records),
		"failed_devices": failures,
		"entities":       len(entities),
		"skipped":        len(skipped),
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	os.WriteFile("debug_collect.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_collect.json for details.")
}
