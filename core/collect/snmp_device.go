package collect

import (
	"fmt"
	"strconv"
)

const (
	oidSysName = ".1.3.6.1.2.1.1.5.0"

	oidEntPhysicalDescr  = ".1.3.6.1.2.1.47.1.1.1.1.2"
	oidEntPhysicalClass  = ".1.3.6.1.2.1.47.1.1.1.1.5"
	oidEntPhysicalName   = ".1.3.6.1.2.1.47.1.1.1.1.7"
	oidEntPhysicalSerial = ".1.3.6.1.2.1.47.1.1.1.1.11"
	oidEntPhysicalMfg    = ".1.3.6.1.2.1.47.1.1.1.1.12"
	oidEntPhysicalModel  = ".1.3.6.1.2.1.47.1.1.1.1.13"
)

// entPhysicalClass values (ENTITY-MIB).
const (
	entClassChassis     = 3
	entClassPowerSupply = 6
	entClassFan         = 7
	entClassModule      = 9
)

// walkDevice emits a single device record per target. Identity fields come
// from the target declaration; serial and model come from the lowest-indexed
// ENTITY-MIB chassis row.
func walkDevice(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	// sysName confirms the agent answers before the table walks start.
	packet, err := s.Get([]string{oidSysName})
	if err != nil {
		return nil, fmt.Errorf("system group: %w", err)
	}

	rec := Record{
		KeyDevice:  target.Name,
		"hostname": target.Name,
	}
	setIfPresent(rec, "platform", target.Platform)
	setIfPresent(rec, "site", target.Site)
	setIfPresent(rec, "role", target.Role)
	setIfPresent(rec, "tenant", target.Tenant)
	if len(packet.Variables) > 0 {
		setIfPresent(rec, "sysname", pduString(packet.Variables[0]))
	}

	classes, err := walkColumn(s, oidEntPhysicalClass)
	if err != nil {
		return nil, fmt.Errorf("entity table: %w", err)
	}
	chassis := 0
	for idx, pdu := range classes {
		if pduInt(pdu) != entClassChassis {
			continue
		}
		if chassis == 0 || idx < chassis {
			chassis = idx
		}
	}
	if chassis > 0 {
		suffix := "." + strconv.Itoa(chassis)
		packet, err := s.Get([]string{
			oidEntPhysicalSerial + suffix,
			oidEntPhysicalModel + suffix,
		})
		if err != nil {
			return nil, fmt.Errorf("chassis row: %w", err)
		}
		for _, pdu := range packet.Variables {
			switch {
			case oidIndex(pdu.Name, oidEntPhysicalSerial) != "":
				setIfPresent(rec, "serial", pduString(pdu))
			case oidIndex(pdu.Name, oidEntPhysicalModel) != "":
				setIfPresent(rec, "model", pduString(pdu))
			}
		}
	}

	return []Record{rec}, nil
}

func setIfPresent(rec Record, key, value string) {
	if value != "" {
		rec[key] = value
	}
}
