package diff

import (
	"fmt"

	"fabric-sync/core/inventory"
)

// compareEntities returns descriptions of the comparable fields that differ
// between the local and remote representation of the same entity. Both
// arguments are guaranteed to share an identity key; a type mismatch means
// the remote store returned something unexpected and compares as unchanged.
func compareEntities(local, remote inventory.Entity) []string {
	switch l := local.(type) {
	case inventory.Device:
		if r, ok := remote.(inventory.Device); ok {
			return compareDevices(l, r)
		}
	case inventory.Interface:
		if r, ok := remote.(inventory.Interface); ok {
			return compareInterfaces(l, r)
		}
	case inventory.IPAddress:
		if r, ok := remote.(inventory.IPAddress); ok {
			return compareIPAddresses(l, r)
		}
	case inventory.VLAN:
		if r, ok := remote.(inventory.VLAN); ok {
			return compareVLANs(l, r)
		}
	case inventory.Cable:
		// Cables have no mutable fields beyond existence.
		return nil
	case inventory.InventoryItem:
		if r, ok := remote.(inventory.InventoryItem); ok {
			return compareInventoryItems(l, r)
		}
	}
	return nil
}

func compareDevices(local, remote inventory.Device) []string {
	var diffs []string
	diffs = appendStringDiff(diffs, "platform", local.Platform, remote.Platform)
	diffs = appendStringDiff(diffs, "model", local.Model, remote.Model)
	diffs = appendStringDiff(diffs, "serial", local.Serial, remote.Serial)
	diffs = appendStringDiff(diffs, "version", local.Version, remote.Version)
	diffs = appendSlugDiff(diffs, "site", local.Site, remote.Site)
	diffs = appendSlugDiff(diffs, "role", local.Role, remote.Role)
	diffs = appendSlugDiff(diffs, "tenant", local.Tenant, remote.Tenant)
	return diffs
}

func compareInterfaces(local, remote inventory.Interface) []string {
	var diffs []string
	diffs = appendStringDiff(diffs, "description", local.Description, remote.Description)
	diffs = appendStringDiff(diffs, "type", local.Type, remote.Type)
	if local.Enabled != remote.Enabled {
		diffs = append(diffs, fmt.Sprintf("enabled: local=%t remote=%t", local.Enabled, remote.Enabled))
	}
	if local.Speed != remote.Speed {
		diffs = append(diffs, fmt.Sprintf("speed: local=%d remote=%d", local.Speed, remote.Speed))
	}
	if local.MTU != remote.MTU {
		diffs = append(diffs, fmt.Sprintf("mtu: local=%d remote=%d", local.MTU, remote.MTU))
	}
	if lm, rm := inventory.NormalizeMode(local.Mode), inventory.NormalizeMode(remote.Mode); lm != rm {
		diffs = append(diffs, fmt.Sprintf("mode: local=%q remote=%q", lm, rm))
	}
	if local.UntaggedVLAN != remote.UntaggedVLAN {
		diffs = append(diffs, fmt.Sprintf("untagged_vlan: local=%d remote=%d", local.UntaggedVLAN, remote.UntaggedVLAN))
	}
	if !equalVLANSets(local.TaggedVLANs, remote.TaggedVLANs) {
		diffs = append(diffs, fmt.Sprintf("tagged_vlans: local=%v remote=%v",
			inventory.SortedVLANs(local.TaggedVLANs), inventory.SortedVLANs(remote.TaggedVLANs)))
	}
	if ll, rl := inventory.NormalizeInterfaceName(local.LAG), inventory.NormalizeInterfaceName(remote.LAG); ll != rl {
		diffs = append(diffs, fmt.Sprintf("lag: local=%q remote=%q", ll, rl))
	}
	if lm, rm := inventory.NormalizeMAC(local.MAC), inventory.NormalizeMAC(remote.MAC); lm != rm {
		diffs = append(diffs, fmt.Sprintf("mac: local=%q remote=%q", lm, rm))
	}
	if local.MgmtOnly != remote.MgmtOnly {
		diffs = append(diffs, fmt.Sprintf("mgmt_only: local=%t remote=%t", local.MgmtOnly, remote.MgmtOnly))
	}
	// OperUp is observe-only and never compared.
	return diffs
}

func compareIPAddresses(local, remote inventory.IPAddress) []string {
	var diffs []string
	diffs = appendStringDiff(diffs, "description", local.Description, remote.Description)
	if local.Primary != remote.Primary {
		diffs = append(diffs, fmt.Sprintf("primary: local=%t remote=%t", local.Primary, remote.Primary))
	}
	return diffs
}

func compareVLANs(local, remote inventory.VLAN) []string {
	var diffs []string
	diffs = appendStringDiff(diffs, "name", local.Name, remote.Name)
	return diffs
}

func compareInventoryItems(local, remote inventory.InventoryItem) []string {
	var diffs []string
	diffs = appendStringDiff(diffs, "part_id", local.PartID, remote.PartID)
	diffs = appendStringDiff(diffs, "serial", local.Serial, remote.Serial)
	diffs = appendStringDiff(diffs, "description", local.Description, remote.Description)
	diffs = appendStringDiff(diffs, "manufacturer", local.Manufacturer, remote.Manufacturer)
	return diffs
}

func appendStringDiff(diffs []string, name, local, remote string) []string {
	if local != remote {
		diffs = append(diffs, fmt.Sprintf("%s: local=%q remote=%q", name, local, remote))
	}
	return diffs
}

func appendSlugDiff(diffs []string, name, local, remote string) []string {
	if inventory.Slugify(local) != inventory.Slugify(remote) {
		diffs = append(diffs, fmt.Sprintf("%s: local=%q remote=%q", name, local, remote))
	}
	return diffs
}

func equalVLANSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := inventory.SortedVLANs(a), inventory.SortedVLANs(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
