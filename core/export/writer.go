package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fabric-sync/core/inventory"
)

// columnTables fixes the CSV header per category. Row rendering in rowFor
// must stay in the same order.
var columnTables = map[inventory.Category][]string{
	inventory.CategoryDevices: {
		"hostname", "platform", "model", "serial", "version", "site", "role", "tenant",
	},
	inventory.CategoryInterfaces: {
		"device", "name", "description", "type", "enabled", "oper_up", "speed",
		"mtu", "mode", "untagged_vlan", "tagged_vlans", "lag", "mac", "mgmt_only",
	},
	inventory.CategoryIPAddresses: {
		"device", "interface", "address", "description", "primary",
	},
	inventory.CategoryVLANs: {
		"site", "vid", "name",
	},
	inventory.CategoryCables: {
		"device_a", "interface_a", "device_b", "interface_b",
	},
	inventory.CategoryInventoryItems: {
		"device", "name", "part_id", "serial", "description", "manufacturer",
	},
}

func writeCSV(w io.Writer, category inventory.Category, entities []inventory.Entity) error {
	columns, ok := columnTables[category]
	if !ok {
		return fmt.Errorf("no column table for category %q", category)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, entity := range entities {
		row, err := rowFor(entity)
		if err != nil {
			return err
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func rowFor(entity inventory.Entity) ([]string, error) {
	switch v := entity.(type) {
	case inventory.Device:
		return []string{v.Hostname, v.Platform, v.Model, v.Serial, v.Version, v.Site, v.Role, v.Tenant}, nil
	case inventory.Interface:
		return []string{
			v.Device, v.Name, v.Description, v.Type,
			strconv.FormatBool(v.Enabled), strconv.FormatBool(v.OperUp),
			strconv.Itoa(v.Speed), strconv.Itoa(v.MTU), v.Mode,
			strconv.Itoa(v.UntaggedVLAN), joinVIDs(v.TaggedVLANs),
			v.LAG, v.MAC, strconv.FormatBool(v.MgmtOnly),
		}, nil
	case inventory.IPAddress:
		return []string{v.Device, v.Interface, v.Address, v.Description, strconv.FormatBool(v.Primary)}, nil
	case inventory.VLAN:
		return []string{v.Site, strconv.Itoa(v.VID), v.Name}, nil
	case inventory.Cable:
		return []string{v.DeviceA, v.InterfaceA, v.DeviceB, v.InterfaceB}, nil
	case inventory.InventoryItem:
		return []string{v.Device, v.Name, v.PartID, v.Serial, v.Description, v.Manufacturer}, nil
	default:
		return nil, fmt.Errorf("no row rendering for %T", entity)
	}
}

func joinVIDs(vids []int) string {
	if len(vids) == 0 {
		return ""
	}
	parts := make([]string, len(vids))
	for i, vid := range vids {
		parts[i] = strconv.Itoa(vid)
	}
	return strings.Join(parts, ",")
}

func writeJSON(w io.Writer, entities []inventory.Entity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entities)
}
