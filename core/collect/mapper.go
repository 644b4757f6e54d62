package collect

import (
	"strings"

	"fabric-sync/core/inventory"
	"fabric-sync/core/utils"
)

// MapRecords turns collected records into canonical entities. Error records
// and records that do not form a valid identity key come back in the second
// slice so callers can report them instead of silently dropping data.
func MapRecords(category inventory.Category, records []Record) ([]inventory.Entity, []Record) {
	var entities []inventory.Entity
	var skipped []Record
	for _, rec := range records {
		if rec.IsError() {
			skipped = append(skipped, rec)
			continue
		}
		entity := mapRecord(category, rec)
		if entity == nil || entity.Key() == "" {
			skipped = append(skipped, rec)
			continue
		}
		entities = append(entities, entity)
	}
	return entities, skipped
}

func mapRecord(category inventory.Category, rec Record) inventory.Entity {
	switch category {
	case inventory.CategoryDevices:
		hostname := rec["hostname"]
		if hostname == "" {
			hostname = rec.Device()
		}
		return inventory.Device{
			Hostname: hostname,
			Platform: rec["platform"],
			Model:    rec["model"],
			Serial:   rec["serial"],
			Version:  rec["version"],
			Site:     rec["site"],
			Role:     rec["role"],
			Tenant:   rec["tenant"],
		}
	case inventory.CategoryInterfaces:
		return inventory.Interface{
			Device:       rec.Device(),
			Name:         rec["name"],
			Description:  rec["description"],
			Type:         rec["type"],
			Enabled:      utils.ToBool(rec["enabled"]),
			OperUp:       utils.ToBool(rec["oper_up"]),
			Speed:        utils.ToInt(rec["speed"]),
			MTU:          utils.ToInt(rec["mtu"]),
			Mode:         rec["mode"],
			UntaggedVLAN: utils.ToInt(rec["untagged_vlan"]),
			TaggedVLANs:  splitVIDs(rec["tagged_vlans"]),
			LAG:          rec["lag"],
			MAC:          rec["mac"],
			MgmtOnly:     utils.ToBool(rec["mgmt_only"]),
		}
	case inventory.CategoryIPAddresses:
		return inventory.IPAddress{
			Device:      rec.Device(),
			Interface:   rec["interface"],
			Address:     rec["address"],
			Description: rec["description"],
			Primary:     utils.ToBool(rec["primary"]),
		}
	case inventory.CategoryVLANs:
		return inventory.VLAN{
			Site: rec["site"],
			VID:  utils.ToInt(rec["vid"]),
			Name: rec["name"],
		}
	case inventory.CategoryCables:
		return inventory.Cable{
			DeviceA:    rec["device_a"],
			InterfaceA: rec["interface_a"],
			DeviceB:    rec["device_b"],
			InterfaceB: rec["interface_b"],
		}
	case inventory.CategoryInventoryItems:
		return inventory.InventoryItem{
			Device:       rec.Device(),
			Name:         rec["name"],
			PartID:       rec["part_id"],
			Serial:       rec["serial"],
			Description:  rec["description"],
			Manufacturer: rec["manufacturer"],
		}
	default:
		return nil
	}
}

// splitVIDs parses a comma-separated VLAN ID list.
func splitVIDs(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	vids := make([]int, 0, len(parts))
	for _, part := range parts {
		if vid := utils.ToInt(strings.TrimSpace(part)); vid > 0 {
			vids = append(vids, vid)
		}
	}
	if len(vids) == 0 {
		return nil
	}
	return vids
}
