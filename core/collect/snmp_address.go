package collect

import (
	"fmt"
	"net"
	"sort"
	"strconv"
)

const (
	oidIpAdEntIfIndex = ".1.3.6.1.2.1.4.20.1.2"
	oidIpAdEntNetMask = ".1.3.6.1.2.1.4.20.1.3"
)

// walkAddresses emits one record per assigned IPv4 address from the IP-MIB
// address table. Loopback addresses stay out.
func walkAddresses(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	ifIndexes, err := s.BulkWalkAll(oidIpAdEntIfIndex)
	if err != nil {
		return nil, fmt.Errorf("ip address table: %w", err)
	}
	masks, err := s.BulkWalkAll(oidIpAdEntNetMask)
	if err != nil {
		return nil, fmt.Errorf("ip netmask column: %w", err)
	}
	maskByAddr := make(map[string]string, len(masks))
	for _, pdu := range masks {
		maskByAddr[oidIndex(pdu.Name, oidIpAdEntNetMask)] = pduString(pdu)
	}

	names, err := interfaceNames(s)
	if err != nil {
		return nil, err
	}

	type entry struct {
		addr    string
		ifIndex int
	}
	entries := make([]entry, 0, len(ifIndexes))
	for _, pdu := range ifIndexes {
		addr := oidIndex(pdu.Name, oidIpAdEntIfIndex)
		if addr == "" {
			continue
		}
		entries = append(entries, entry{addr: addr, ifIndex: pduInt(pdu)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].addr < entries[j].addr })

	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		ip := net.ParseIP(e.addr)
		if ip == nil || ip.IsLoopback() {
			continue
		}
		name := names[e.ifIndex]
		if name == "" {
			continue
		}
		prefixLen := 32
		if mask := net.ParseIP(maskByAddr[e.addr]); mask != nil {
			if ones, bits := net.IPMask(mask.To4()).Size(); bits == 32 {
				prefixLen = ones
			}
		}
		records = append(records, Record{
			KeyDevice:   target.Name,
			"interface": name,
			"address":   e.addr + "/" + strconv.Itoa(prefixLen),
		})
	}
	return records, nil
}

// interfaceNames maps ifIndex to interface name, preferring ifName over
// ifDescr.
func interfaceNames(s snmpSession) (map[int]string, error) {
	rows, err := walkIfTables(s)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(rows))
	for idx, row := range rows {
		name := row.name
		if name == "" {
			name = row.descr
		}
		if name != "" {
			names[idx] = name
		}
	}
	return names, nil
}
