package collect

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

const defaultSNMPPort = 161

// snmpSession is the slice of the gosnmp client the walkers need. Tests
// substitute a canned implementation.
type snmpSession interface {
	Get(oids []string) (*gosnmp.SnmpPacket, error)
	BulkWalkAll(rootOid string) ([]gosnmp.SnmpPDU, error)
	Close() error
}

type snmpConn struct {
	*gosnmp.GoSNMP
}

func (c snmpConn) Close() error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close()
}

// snmpDialer opens an SNMP session to a target. Swapped out in tests.
type snmpDialer func(target DeviceTarget, cfg Config, opts Options) (snmpSession, error)

func dialSNMP(target DeviceTarget, cfg Config, opts Options) (snmpSession, error) {
	community := opts.String("community", target.Community)
	if community == "" {
		community = cfg.Community
	}
	port := target.Port
	if port == 0 {
		port = defaultSNMPPort
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &gosnmp.GoSNMP{
		Target:    target.Address(),
		Port:      uint16(port),
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   timeout,
		Retries:   cfg.Retries,
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s: %w", target.Address(), err)
	}
	return snmpConn{client}, nil
}

// snmpWalk produces all records of one category from a connected session.
type snmpWalk func(s snmpSession, target DeviceTarget, opts Options) ([]Record, error)

// snmpCollector fans a walker out across targets.
type snmpCollector struct {
	name string
	cfg  Config
	dial snmpDialer
	walk snmpWalk
}

func (c *snmpCollector) Name() string { return c.name }

func (c *snmpCollector) Collect(ctx context.Context, targets []DeviceTarget, opts Options) ([]Record, error) {
	targets = transportTargets(targets, TransportSNMP)
	records := fanOut(ctx, targets, opts.Int("workers", c.cfg.Workers), func(ctx context.Context, target DeviceTarget) ([]Record, error) {
		session, err := c.dial(target, c.cfg, opts)
		if err != nil {
			return nil, err
		}
		defer session.Close()
		return c.walk(session, target, opts)
	})
	return records, nil
}

// snmpCollectors returns the shipped standard-MIB collectors.
func snmpCollectors(cfg Config) []Collector {
	build := func(name string, walk snmpWalk) Collector {
		return &snmpCollector{name: name, cfg: cfg, dial: dialSNMP, walk: walk}
	}
	return []Collector{
		build("devices", walkDevice),
		build("interfaces", walkInterfaces),
		build("ip_addresses", walkAddresses),
		build("vlans", walkVLANs),
		build("cables", walkCables),
		build("inventory_items", walkItems),
	}
}

// pduString renders the PDU value as a string.
func pduString(pdu gosnmp.SnmpPDU) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		if bs, ok := pdu.Value.([]byte); ok {
			return strings.ToValidUTF8(strings.TrimSpace(string(bs)), "")
		}
		return ""
	case gosnmp.ObjectIdentifier, gosnmp.IPAddress:
		if s, ok := pdu.Value.(string); ok {
			return strings.TrimPrefix(s, ".")
		}
		return ""
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Integer, gosnmp.Gauge32, gosnmp.TimeTicks:
		return gosnmp.ToBigInt(pdu.Value).String()
	default:
		return ""
	}
}

// pduInt renders the PDU value as an integer, 0 when it is not numeric.
func pduInt(pdu gosnmp.SnmpPDU) int {
	switch pdu.Type {
	case gosnmp.Counter32, gosnmp.Counter64, gosnmp.Integer, gosnmp.Gauge32, gosnmp.TimeTicks:
		return int(gosnmp.ToBigInt(pdu.Value).Int64())
	default:
		return 0
	}
}

// pduBytes returns the raw octets of an OctetString PDU.
func pduBytes(pdu gosnmp.SnmpPDU) []byte {
	if bs, ok := pdu.Value.([]byte); ok {
		return bs
	}
	return nil
}

// pduMAC renders a PhysAddress octet string as colon-separated hex.
func pduMAC(pdu gosnmp.SnmpPDU) string {
	bs := pduBytes(pdu)
	if len(bs) != 6 {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, b := range bs {
		parts = append(parts, fmt.Sprintf("%02x", b))
	}
	return strings.Join(parts, ":")
}

// oidIndex returns the table index part of an OID below the column root,
// or "" when the OID does not belong under it.
func oidIndex(oid, column string) string {
	oid = strings.TrimPrefix(oid, ".")
	column = strings.TrimPrefix(column, ".")
	if !strings.HasPrefix(oid, column+".") {
		return ""
	}
	return oid[len(column)+1:]
}

// oidIndexInt is oidIndex for single-integer indexes.
func oidIndexInt(oid, column string) (int, bool) {
	idx := oidIndex(oid, column)
	if idx == "" || strings.Contains(idx, ".") {
		return 0, false
	}
	n, err := strconv.Atoi(idx)
	if err != nil {
		return 0, false
	}
	return n, true
}

// walkColumn collects one table column keyed by integer index.
func walkColumn(s snmpSession, column string) (map[int]gosnmp.SnmpPDU, error) {
	pdus, err := s.BulkWalkAll(column)
	if err != nil {
		return nil, err
	}
	out := make(map[int]gosnmp.SnmpPDU, len(pdus))
	for _, pdu := range pdus {
		if idx, ok := oidIndexInt(pdu.Name, column); ok {
			out[idx] = pdu
		}
	}
	return out, nil
}

// portListHas reports whether a Q-BRIDGE PortList bitmap includes the
// 1-based bridge port.
func portListHas(octets []byte, port int) bool {
	if port < 1 {
		return false
	}
	byteIdx := (port - 1) / 8
	if byteIdx >= len(octets) {
		return false
	}
	bit := uint(7 - (port-1)%8)
	return octets[byteIdx]&(1<<bit) != 0
}
