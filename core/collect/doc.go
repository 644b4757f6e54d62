// Package collect gathers raw device state and maps it into canonical
// inventory entities.
//
// Collection is organized per entity category: a Collector walks one kind of
// state (devices, interfaces, ip_addresses, vlans, cables, inventory_items)
// across a set of device targets and emits flat string records. The Registry
// maps category names to collectors so pipelines can validate their steps
// against the known set.
//
// # Records
//
// A Record is a flat map[string]string. Two keys are reserved: "_device"
// names the target the record came from, and "_error" marks a record that
// carries a per-device collection failure instead of data. Failed devices
// never abort a collect; their errors travel inline as records so a run can
// report them next to the data that did arrive.
//
// # Fan-out
//
// Collectors fan out across targets with a bounded worker pool
// (Config.Workers goroutines). Each worker handles one device at a time and
// converts its failure, if any, into an "_error" record.
//
// # Sources
//
// The shipped collectors speak SNMP (standard MIBs only: system and
// ENTITY-MIB for devices, IF-MIB for interfaces, IP-MIB for addresses,
// Q-BRIDGE for VLANs, LLDP for cables) and only poll targets whose declared
// transport is snmp. Targets declaring ssh are served by CommandCollector,
// which runs a platform-specific show command over the CommandTransport
// boundary and parses the output through an external TemplateParser; no
// parser templates ship here, so command collectors are registered by the
// embedding program.
//
// # Usage
//
//	targets, err := collect.LoadTargets("targets.yml")
//	registry := collect.NewRegistry(cfg, logger)
//	records, err := registry.Collect(ctx, "interfaces", targets, nil)
//	entities, failures := collect.MapRecords(inventory.CategoryInterfaces, records)
package collect
