package collect

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	oidIfTable  = ".1.3.6.1.2.1.2.2.1"
	oidIfXTable = ".1.3.6.1.2.1.31.1.1.1"

	ifColDescr       = 2
	ifColType        = 3
	ifColMtu         = 4
	ifColPhysAddress = 6
	ifColAdminStatus = 7
	ifColOperStatus  = 8

	ifXColName      = 1
	ifXColHighSpeed = 15
	ifXColAlias     = 18

	oidIfStackStatus = ".1.3.6.1.2.1.31.2.1.3"

	oidDot1dBasePortIfIndex    = ".1.3.6.1.2.1.17.1.4.1.2"
	oidDot1qPvid               = ".1.3.6.1.2.1.17.7.1.4.5.1.1"
	oidDot1qVlanStaticEgress   = ".1.3.6.1.2.1.17.7.1.4.3.1.2"
	oidDot1qVlanStaticUntagged = ".1.3.6.1.2.1.17.7.1.4.3.1.4"
)

// IANAifType values the type mapping cares about.
const (
	ifTypeEthernet = 6
	ifTypeLoopback = 24
	ifTypeTunnel   = 131
	ifTypeL2VLAN   = 135
	ifTypeLAG      = 161
)

// ifRow accumulates one interface across the IF-MIB walks.
type ifRow struct {
	name  string
	descr string
	alias string
	typ   int
	mtu   int
	speed int
	admin int
	oper  int
	mac   string
}

// walkInterfaces emits one record per named interface: IF-MIB state, LAG
// membership from the ifStack table, and switchport mode from Q-BRIDGE when
// the device exposes it.
func walkInterfaces(s snmpSession, target DeviceTarget, _ Options) ([]Record, error) {
	rows, err := walkIfTables(s)
	if err != nil {
		return nil, err
	}

	lagOf, err := walkLAGMembership(s, rows)
	if err != nil {
		return nil, err
	}

	bridge := walkBridgePorts(s)

	indexes := make([]int, 0, len(rows))
	for idx := range rows {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	records := make([]Record, 0, len(rows))
	for _, idx := range indexes {
		row := rows[idx]
		name := row.name
		if name == "" {
			name = row.descr
		}
		if name == "" {
			continue
		}

		rec := Record{
			KeyDevice: target.Name,
			"name":    name,
			"type":    ifTypeSlug(row.typ, row.speed),
			"enabled": strconv.FormatBool(row.admin == 1),
			"oper_up": strconv.FormatBool(row.oper == 1),
		}
		setIfPresent(rec, "description", row.alias)
		setIfPresent(rec, "mac", row.mac)
		if row.speed > 0 {
			rec["speed"] = strconv.Itoa(row.speed)
		}
		if row.mtu > 0 {
			rec["mtu"] = strconv.Itoa(row.mtu)
		}
		if lagIdx, ok := lagOf[idx]; ok {
			if parent, ok := rows[lagIdx]; ok && parent.name != "" {
				rec["lag"] = parent.name
			}
		}
		bridge.apply(rec, idx)

		records = append(records, rec)
	}
	return records, nil
}

// walkIfTables reads the ifTable and ifXTable columns into per-index rows.
func walkIfTables(s snmpSession) (map[int]*ifRow, error) {
	rows := make(map[int]*ifRow)
	row := func(idx int) *ifRow {
		r, ok := rows[idx]
		if !ok {
			r = &ifRow{}
			rows[idx] = r
		}
		return r
	}

	pdus, err := s.BulkWalkAll(oidIfTable)
	if err != nil {
		return nil, fmt.Errorf("if table: %w", err)
	}
	for _, pdu := range pdus {
		col, idx, ok := tableCell(pdu.Name, oidIfTable)
		if !ok {
			continue
		}
		switch col {
		case ifColDescr:
			row(idx).descr = pduString(pdu)
		case ifColType:
			row(idx).typ = pduInt(pdu)
		case ifColMtu:
			row(idx).mtu = pduInt(pdu)
		case ifColPhysAddress:
			row(idx).mac = pduMAC(pdu)
		case ifColAdminStatus:
			row(idx).admin = pduInt(pdu)
		case ifColOperStatus:
			row(idx).oper = pduInt(pdu)
		}
	}

	pdus, err = s.BulkWalkAll(oidIfXTable)
	if err != nil {
		return nil, fmt.Errorf("ifX table: %w", err)
	}
	for _, pdu := range pdus {
		col, idx, ok := tableCell(pdu.Name, oidIfXTable)
		if !ok {
			continue
		}
		switch col {
		case ifXColName:
			row(idx).name = pduString(pdu)
		case ifXColHighSpeed:
			row(idx).speed = pduInt(pdu)
		case ifXColAlias:
			row(idx).alias = pduString(pdu)
		}
	}
	return rows, nil
}

// walkLAGMembership maps member ifIndex to aggregate ifIndex using the
// ifStack table. Only parents that actually are LAG interfaces count.
func walkLAGMembership(s snmpSession, rows map[int]*ifRow) (map[int]int, error) {
	pdus, err := s.BulkWalkAll(oidIfStackStatus)
	if err != nil {
		return nil, fmt.Errorf("ifStack table: %w", err)
	}
	lagOf := make(map[int]int)
	for _, pdu := range pdus {
		idx := oidIndex(pdu.Name, oidIfStackStatus)
		parts := strings.SplitN(idx, ".", 2)
		if len(parts) != 2 {
			continue
		}
		higher, err1 := strconv.Atoi(parts[0])
		lower, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || higher == 0 || lower == 0 {
			continue
		}
		if parent, ok := rows[higher]; ok && parent.typ == ifTypeLAG {
			lagOf[lower] = higher
		}
	}
	return lagOf, nil
}

// bridgeState carries the Q-BRIDGE view: PVID and static VLAN membership
// per interface.
type bridgeState struct {
	pvid   map[int]int   // ifIndex → untagged vlan
	tagged map[int][]int // ifIndex → tagged vlans
}

// apply fills the switchport fields of a record. Interfaces without bridge
// data keep routed semantics: no mode keys at all.
func (b bridgeState) apply(rec Record, ifIndex int) {
	pvid := b.pvid[ifIndex]
	tagged := b.tagged[ifIndex]
	if pvid == 0 && len(tagged) == 0 {
		return
	}
	if pvid > 0 {
		rec["untagged_vlan"] = strconv.Itoa(pvid)
	}
	if len(tagged) > 0 {
		rec["mode"] = "tagged"
		parts := make([]string, 0, len(tagged))
		for _, vid := range tagged {
			parts = append(parts, strconv.Itoa(vid))
		}
		rec["tagged_vlans"] = strings.Join(parts, ",")
	} else {
		rec["mode"] = "access"
	}
}

// walkBridgePorts reads BRIDGE-MIB and Q-BRIDGE-MIB state. Routers and
// other non-bridges do not implement these tables; any failure here simply
// yields empty state rather than failing the interface walk.
func walkBridgePorts(s snmpSession) bridgeState {
	state := bridgeState{pvid: map[int]int{}, tagged: map[int][]int{}}

	basePorts, err := walkColumn(s, oidDot1dBasePortIfIndex)
	if err != nil || len(basePorts) == 0 {
		return state
	}
	toIfIndex := make(map[int]int, len(basePorts))
	for port, pdu := range basePorts {
		toIfIndex[port] = pduInt(pdu)
	}

	pvids, err := walkColumn(s, oidDot1qPvid)
	if err == nil {
		for port, pdu := range pvids {
			if ifIndex, ok := toIfIndex[port]; ok {
				state.pvid[ifIndex] = pduInt(pdu)
			}
		}
	}

	egress, err := walkColumn(s, oidDot1qVlanStaticEgress)
	if err != nil {
		return state
	}
	untagged, err := walkColumn(s, oidDot1qVlanStaticUntagged)
	if err != nil {
		untagged = nil
	}
	vids := make([]int, 0, len(egress))
	for vid := range egress {
		vids = append(vids, vid)
	}
	sort.Ints(vids)

	for _, vid := range vids {
		egressPorts := pduBytes(egress[vid])
		untaggedPorts := pduBytes(untagged[vid])
		for port, ifIndex := range toIfIndex {
			if !portListHas(egressPorts, port) {
				continue
			}
			if portListHas(untaggedPorts, port) || state.pvid[ifIndex] == vid {
				continue
			}
			state.tagged[ifIndex] = append(state.tagged[ifIndex], vid)
		}
	}
	return state
}

// ifTypeSlug maps an IANAifType plus negotiated speed to the registry's
// interface type slug.
func ifTypeSlug(ifType, speedMbps int) string {
	switch ifType {
	case ifTypeLAG:
		return "lag"
	case ifTypeLoopback, ifTypeL2VLAN, ifTypeTunnel:
		return "virtual"
	case ifTypeEthernet:
		switch {
		case speedMbps >= 100000:
			return "100gbase-x-qsfp28"
		case speedMbps >= 40000:
			return "40gbase-x-qsfpp"
		case speedMbps >= 25000:
			return "25gbase-x-sfp28"
		case speedMbps >= 10000:
			return "10gbase-x-sfpp"
		default:
			return "1000base-t"
		}
	default:
		return "other"
	}
}

// tableCell splits an OID under a table root into column and row index.
func tableCell(oid, root string) (col, idx int, ok bool) {
	suffix := oidIndex(oid, root)
	parts := strings.SplitN(suffix, ".", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	col, err1 := strconv.Atoi(parts[0])
	idx, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return col, idx, true
}
