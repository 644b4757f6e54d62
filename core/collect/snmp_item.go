package collect

import (
	"fmt"
	"sort"
)

// walkItems emits one record per replaceable hardware component: power
// supplies, fans, and modules from the ENTITY-MIB physical table. Ports and
// sensors stay out; they are not tracked as inventory.
func walkItems(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	classes, err := walkColumn(s, oidEntPhysicalClass)
	if err != nil {
		return nil, fmt.Errorf("entity table: %w", err)
	}

	wanted := make([]int, 0, len(classes))
	for idx, pdu := range classes {
		switch pduInt(pdu) {
		case entClassPowerSupply, entClassFan, entClassModule:
			wanted = append(wanted, idx)
		}
	}
	if len(wanted) == 0 {
		return nil, nil
	}
	sort.Ints(wanted)

	names, err := walkColumn(s, oidEntPhysicalName)
	if err != nil {
		return nil, fmt.Errorf("entity names: %w", err)
	}
	descrs, err := walkColumn(s, oidEntPhysicalDescr)
	if err != nil {
		return nil, fmt.Errorf("entity descriptions: %w", err)
	}
	serials, err := walkColumn(s, oidEntPhysicalSerial)
	if err != nil {
		return nil, fmt.Errorf("entity serials: %w", err)
	}
	mfgs, err := walkColumn(s, oidEntPhysicalMfg)
	if err != nil {
		return nil, fmt.Errorf("entity manufacturers: %w", err)
	}
	models, err := walkColumn(s, oidEntPhysicalModel)
	if err != nil {
		return nil, fmt.Errorf("entity models: %w", err)
	}

	records := make([]Record, 0, len(wanted))
	for _, idx := range wanted {
		name := pduString(names[idx])
		if name == "" {
			continue
		}
		rec := Record{
			KeyDevice: target.Name,
			"name":    name,
		}
		setIfPresent(rec, "description", pduString(descrs[idx]))
		setIfPresent(rec, "serial", pduString(serials[idx]))
		setIfPresent(rec, "manufacturer", pduString(mfgs[idx]))
		setIfPresent(rec, "part_id", pduString(models[idx]))
		records = append(records, rec)
	}
	return records, nil
}
