package collect

import (
	"testing"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession serves canned PDUs instead of a live agent.
type fakeSession struct {
	values map[string]gosnmp.SnmpPDU
	walks  map[string][]gosnmp.SnmpPDU
}

func (f *fakeSession) Get(oids []string) (*gosnmp.SnmpPacket, error) {
	packet := &gosnmp.SnmpPacket{}
	for _, oid := range oids {
		if pdu, ok := f.values[oid]; ok {
			packet.Variables = append(packet.Variables, pdu)
		}
	}
	return packet, nil
}

func (f *fakeSession) BulkWalkAll(root string) ([]gosnmp.SnmpPDU, error) {
	return f.walks[root], nil
}

func (f *fakeSession) Close() error { return nil }

func strPDU(oid, value string) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: oid, Type: gosnmp.OctetString, Value: []byte(value)}
}

func intPDU(oid string, value int) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: oid, Type: gosnmp.Integer, Value: value}
}

func bytesPDU(oid string, value []byte) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: oid, Type: gosnmp.OctetString, Value: value}
}

func ipPDU(oid, value string) gosnmp.SnmpPDU {
	return gosnmp.SnmpPDU{Name: oid, Type: gosnmp.IPAddress, Value: value}
}

var testTarget = DeviceTarget{Name: "sw1", Platform: "cisco-ios", Site: "main", Role: "access"}

func TestWalkDevice(t *testing.T) {
	session := &fakeSession{
		values: map[string]gosnmp.SnmpPDU{
			oidSysName:                  strPDU(oidSysName, "sw1.lab.example"),
			oidEntPhysicalSerial + ".1": strPDU(oidEntPhysicalSerial+".1", "FDO12345678"),
			oidEntPhysicalModel + ".1":  strPDU(oidEntPhysicalModel+".1", "WS-C3850-24T"),
		},
		walks: map[string][]gosnmp.SnmpPDU{
			oidEntPhysicalClass: {
				intPDU(oidEntPhysicalClass+".1", entClassChassis),
				intPDU(oidEntPhysicalClass+".4", entClassPowerSupply),
			},
		},
	}

	records, err := walkDevice(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "sw1", rec["hostname"])
	assert.Equal(t, "cisco-ios", rec["platform"])
	assert.Equal(t, "main", rec["site"])
	assert.Equal(t, "FDO12345678", rec["serial"])
	assert.Equal(t, "WS-C3850-24T", rec["model"])
	assert.Equal(t, "sw1.lab.example", rec["sysname"])
}

func TestWalkInterfaces(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidIfTable: {
				strPDU(oidIfTable+".2.1", "GigabitEthernet0/1"),
				intPDU(oidIfTable+".3.1", ifTypeEthernet),
				intPDU(oidIfTable+".4.1", 1500),
				bytesPDU(oidIfTable+".6.1", []byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}),
				intPDU(oidIfTable+".7.1", 1),
				intPDU(oidIfTable+".8.1", 1),
				strPDU(oidIfTable+".2.2", "Port-channel1"),
				intPDU(oidIfTable+".3.2", ifTypeLAG),
				intPDU(oidIfTable+".7.2", 1),
				intPDU(oidIfTable+".8.2", 2),
			},
			oidIfXTable: {
				strPDU(oidIfXTable+".1.1", "Gi0/1"),
				intPDU(oidIfXTable+".15.1", 1000),
				strPDU(oidIfXTable+".18.1", "uplink to sw2"),
				strPDU(oidIfXTable+".1.2", "Po1"),
			},
			oidIfStackStatus: {
				intPDU(oidIfStackStatus+".2.1", 1),
				intPDU(oidIfStackStatus+".2.0", 1),
				intPDU(oidIfStackStatus+".0.2", 1),
			},
			oidDot1dBasePortIfIndex: {
				intPDU(oidDot1dBasePortIfIndex+".1", 1),
			},
			oidDot1qPvid: {
				intPDU(oidDot1qPvid+".1", 10),
			},
			oidDot1qVlanStaticEgress: {
				bytesPDU(oidDot1qVlanStaticEgress+".20", []byte{0x80}),
			},
			oidDot1qVlanStaticUntagged: {
				bytesPDU(oidDot1qVlanStaticUntagged+".20", []byte{0x00}),
			},
		},
	}

	records, err := walkInterfaces(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 2)

	gi := records[0]
	assert.Equal(t, "sw1", gi.Device())
	assert.Equal(t, "Gi0/1", gi["name"])
	assert.Equal(t, "1000base-t", gi["type"])
	assert.Equal(t, "true", gi["enabled"])
	assert.Equal(t, "true", gi["oper_up"])
	assert.Equal(t, "1000", gi["speed"])
	assert.Equal(t, "1500", gi["mtu"])
	assert.Equal(t, "uplink to sw2", gi["description"])
	assert.Equal(t, "00:1a:2b:3c:4d:5e", gi["mac"])
	assert.Equal(t, "Po1", gi["lag"])
	assert.Equal(t, "10", gi["untagged_vlan"])
	assert.Equal(t, "20", gi["tagged_vlans"])
	assert.Equal(t, "tagged", gi["mode"])

	po := records[1]
	assert.Equal(t, "Po1", po["name"])
	assert.Equal(t, "lag", po["type"])
	assert.Equal(t, "false", po["oper_up"])
	assert.Empty(t, po["mode"])
}

func TestWalkInterfacesWithoutBridgeTables(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidIfTable: {
				strPDU(oidIfTable+".2.1", "eth0"),
				intPDU(oidIfTable+".3.1", ifTypeEthernet),
				intPDU(oidIfTable+".7.1", 1),
				intPDU(oidIfTable+".8.1", 1),
			},
		},
	}

	records, err := walkInterfaces(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "eth0", records[0]["name"])
	assert.Empty(t, records[0]["mode"])
	assert.Empty(t, records[0]["untagged_vlan"])
}

func TestWalkAddresses(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidIpAdEntIfIndex: {
				intPDU(oidIpAdEntIfIndex+".10.0.0.1", 1),
				intPDU(oidIpAdEntIfIndex+".127.0.0.1", 99),
			},
			oidIpAdEntNetMask: {
				ipPDU(oidIpAdEntNetMask+".10.0.0.1", "255.255.255.0"),
				ipPDU(oidIpAdEntNetMask+".127.0.0.1", "255.0.0.0"),
			},
			oidIfXTable: {
				strPDU(oidIfXTable+".1.1", "Vlan10"),
			},
		},
	}

	records, err := walkAddresses(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "10.0.0.1/24", records[0]["address"])
	assert.Equal(t, "Vlan10", records[0]["interface"])
}

func TestWalkVLANs(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidDot1qVlanStaticName: {
				strPDU(oidDot1qVlanStaticName+".20", "voice"),
				strPDU(oidDot1qVlanStaticName+".10", "users"),
			},
		},
	}

	records, err := walkVLANs(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "10", records[0]["vid"])
	assert.Equal(t, "users", records[0]["name"])
	assert.Equal(t, "main", records[0]["site"])
	assert.Equal(t, "20", records[1]["vid"])
}

func TestWalkCables(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidLldpLocPortDesc: {
				strPDU(oidLldpLocPortDesc+".1", "GigabitEthernet0/1"),
			},
			oidLldpLocPortID: {
				strPDU(oidLldpLocPortID+".1", "Gi0/1"),
			},
			oidLldpRemSysName: {
				strPDU(oidLldpRemSysName+".0.1.1", "sw2"),
			},
			oidLldpRemPortID: {
				strPDU(oidLldpRemPortID+".0.1.1", "Gi0/2"),
			},
			oidLldpRemPortDesc: {
				strPDU(oidLldpRemPortDesc+".0.1.1", "downlink"),
			},
		},
	}

	records, err := walkCables(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "sw1", rec["device_a"])
	assert.Equal(t, "GigabitEthernet0/1", rec["interface_a"])
	assert.Equal(t, "sw2", rec["device_b"])
	assert.Equal(t, "Gi0/2", rec["interface_b"])
}

func TestWalkItems(t *testing.T) {
	session := &fakeSession{
		walks: map[string][]gosnmp.SnmpPDU{
			oidEntPhysicalClass: {
				intPDU(oidEntPhysicalClass+".1", entClassChassis),
				intPDU(oidEntPhysicalClass+".4", entClassPowerSupply),
				intPDU(oidEntPhysicalClass+".5", entClassFan),
			},
			oidEntPhysicalName: {
				strPDU(oidEntPhysicalName+".1", "Chassis"),
				strPDU(oidEntPhysicalName+".4", "PSU 1"),
				strPDU(oidEntPhysicalName+".5", "Fan 1"),
			},
			oidEntPhysicalDescr: {
				strPDU(oidEntPhysicalDescr+".4", "715W AC power supply"),
			},
			oidEntPhysicalSerial: {
				strPDU(oidEntPhysicalSerial+".4", "ART1933F1PR"),
			},
			oidEntPhysicalMfg: {
				strPDU(oidEntPhysicalMfg+".4", "Cisco"),
			},
			oidEntPhysicalModel: {
				strPDU(oidEntPhysicalModel+".4", "PWR-C1-715WAC"),
			},
		},
	}

	records, err := walkItems(session, testTarget, nil)

	require.NoError(t, err)
	require.Len(t, records, 2)
	psu := records[0]
	assert.Equal(t, "PSU 1", psu["name"])
	assert.Equal(t, "ART1933F1PR", psu["serial"])
	assert.Equal(t, "PWR-C1-715WAC", psu["part_id"])
	assert.Equal(t, "Cisco", psu["manufacturer"])
	assert.Equal(t, "Fan 1", records[1]["name"])
}

func TestIfTypeSlug(t *testing.T) {
	tests := []struct {
		name   string
		ifType int
		speed  int
		want   string
	}{
		{"lag", ifTypeLAG, 0, "lag"},
		{"loopback", ifTypeLoopback, 0, "virtual"},
		{"gigabit", ifTypeEthernet, 1000, "1000base-t"},
		{"ten gig", ifTypeEthernet, 10000, "10gbase-x-sfpp"},
		{"hundred gig", ifTypeEthernet, 100000, "100gbase-x-qsfp28"},
		{"unknown", 999, 0, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ifTypeSlug(tt.ifType, tt.speed))
		})
	}
}

func TestPortListHas(t *testing.T) {
	// 0xA0 = ports 1 and 3 of the first octet.
	octets := []byte{0xA0, 0x01}
	assert.True(t, portListHas(octets, 1))
	assert.False(t, portListHas(octets, 2))
	assert.True(t, portListHas(octets, 3))
	assert.True(t, portListHas(octets, 16))
	assert.False(t, portListHas(octets, 17))
	assert.False(t, portListHas(octets, 0))
}

func TestOIDHelpers(t *testing.T) {
	assert.Equal(t, "10.0.0.1", oidIndex(".1.3.6.1.2.1.4.20.1.2.10.0.0.1", oidIpAdEntIfIndex))
	assert.Equal(t, "", oidIndex(".1.3.6.1.2.1.1.5.0", oidIpAdEntIfIndex))

	col, idx, ok := tableCell(oidIfTable+".2.17", oidIfTable)
	require.True(t, ok)
	assert.Equal(t, 2, col)
	assert.Equal(t, 17, idx)

	_, _, ok = tableCell(oidIfTable+".2", oidIfTable)
	assert.False(t, ok)
}

func TestPduMAC(t *testing.T) {
	pdu := bytesPDU(".1.2.3", []byte{0xAA, 0xBB, 0xCC, 0x00, 0x11, 0x22})
	assert.Equal(t, "aa:bb:cc:00:11:22", pduMAC(pdu))

	short := bytesPDU(".1.2.3", []byte{0xAA})
	assert.Equal(t, "", pduMAC(short))
}
