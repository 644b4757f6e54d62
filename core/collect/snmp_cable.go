package collect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	oidLldpLocPortID   = ".1.0.8802.1.1.2.1.3.7.1.3"
	oidLldpLocPortDesc = ".1.0.8802.1.1.2.1.3.7.1.4"
	oidLldpRemPortID   = ".1.0.8802.1.1.2.1.4.1.1.7"
	oidLldpRemPortDesc = ".1.0.8802.1.1.2.1.4.1.1.8"
	oidLldpRemSysName  = ".1.0.8802.1.1.2.1.4.1.1.9"
)

// walkCables emits one record per LLDP neighborship. The remote system name
// and port identify the far end; endpoint order is irrelevant because cable
// identity is symmetric.
func walkCables(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	localNames, err := walkLocalPorts(s)
	if err != nil {
		return nil, err
	}

	remSys, err := walkRemColumn(s, oidLldpRemSysName)
	if err != nil {
		return nil, fmt.Errorf("lldp remote table: %w", err)
	}
	remPort, err := walkRemColumn(s, oidLldpRemPortID)
	if err != nil {
		return nil, fmt.Errorf("lldp remote ports: %w", err)
	}
	remDesc, err := walkRemColumn(s, oidLldpRemPortDesc)
	if err != nil {
		return nil, fmt.Errorf("lldp remote port descriptions: %w", err)
	}

	suffixes := make([]string, 0, len(remSys))
	for suffix := range remSys {
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)

	records := make([]Record, 0, len(suffixes))
	for _, suffix := range suffixes {
		// Row index is lldpRemTimeMark.lldpRemLocalPortNum.lldpRemIndex.
		parts := strings.Split(suffix, ".")
		if len(parts) != 3 {
			continue
		}
		localPort, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		localName := localNames[localPort]
		remoteName := remSys[suffix]
		remotePort := remPort[suffix]
		if remotePort == "" {
			remotePort = remDesc[suffix]
		}
		if localName == "" || remoteName == "" || remotePort == "" {
			continue
		}
		records = append(records, Record{
			KeyDevice:     target.Name,
			"device_a":    target.Name,
			"interface_a": localName,
			"device_b":    remoteName,
			"interface_b": remotePort,
		})
	}
	return records, nil
}

// walkLocalPorts maps LLDP local port numbers to interface names, preferring
// the port description (usually the ifDescr) over the raw port identifier.
func walkLocalPorts(s snmpSession) (map[int]string, error) {
	descs, err := walkColumn(s, oidLldpLocPortDesc)
	if err != nil {
		return nil, fmt.Errorf("lldp local ports: %w", err)
	}
	ids, err := walkColumn(s, oidLldpLocPortID)
	if err != nil {
		return nil, fmt.Errorf("lldp local port ids: %w", err)
	}
	names := make(map[int]string, len(descs))
	for port, pdu := range descs {
		names[port] = pduString(pdu)
	}
	for port, pdu := range ids {
		if names[port] == "" {
			names[port] = pduString(pdu)
		}
	}
	return names, nil
}

// walkRemColumn collects one lldpRemTable column keyed by its full row
// index suffix.
func walkRemColumn(s snmpSession, column string) (map[string]string, error) {
	pdus, err := s.BulkWalkAll(column)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(pdus))
	for _, pdu := range pdus {
		if suffix := oidIndex(pdu.Name, column); suffix != "" {
			out[suffix] = pduString(pdu)
		}
	}
	return out, nil
}
