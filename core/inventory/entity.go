package inventory

import (
	"fmt"
	"sort"
	"strings"
)

// Category identifies one of the supported entity categories.
type Category string

const (
	// CategoryDevices covers network devices (switches, routers, firewalls).
	CategoryDevices Category = "devices"
	// CategoryInterfaces covers physical and logical device interfaces.
	CategoryInterfaces Category = "interfaces"
	// CategoryIPAddresses covers addresses assigned to interfaces.
	CategoryIPAddresses Category = "ip_addresses"
	// CategoryVLANs covers VLANs scoped to a site.
	CategoryVLANs Category = "vlans"
	// CategoryCables covers physical links between two interfaces.
	CategoryCables Category = "cables"
	// CategoryInventoryItems covers hardware components inside a device.
	CategoryInventoryItems Category = "inventory_items"
)

// Categories lists all supported categories in sync order: parents before
// the categories that reference them.
var Categories = []Category{
	CategoryDevices,
	CategoryVLANs,
	CategoryInterfaces,
	CategoryIPAddresses,
	CategoryCables,
	CategoryInventoryItems,
}

// ValidCategory reports whether s names a known category.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// DeviceScoped reports whether entities of this category belong to a single
// device and require that device to exist in the registry before syncing.
func (c Category) DeviceScoped() bool {
	switch c {
	case CategoryInterfaces, CategoryIPAddresses, CategoryCables, CategoryInventoryItems:
		return true
	default:
		return false
	}
}

// Entity is the common contract implemented by every canonical entity type.
type Entity interface {
	// Category returns the entity category.
	Category() Category

	// Key returns the normalized identity key used to match entities across
	// sources. An empty key marks the entity as invalid.
	Key() string

	// Label returns the human-readable identity for reports.
	Label() string
}

// ScopeDevice returns the device a device-scoped entity belongs to, or ""
// for site and global categories. Cables scope to their A side, the device
// they were observed from.
func ScopeDevice(e Entity) string {
	switch v := e.(type) {
	case Interface:
		return v.Device
	case IPAddress:
		return v.Device
	case Cable:
		return v.DeviceA
	case InventoryItem:
		return v.Device
	default:
		return ""
	}
}

// Device represents a network device identified by hostname.
type Device struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform,omitempty"`
	Model    string `json:"model,omitempty"`
	Serial   string `json:"serial,omitempty"`
	Version  string `json:"version,omitempty"`
	Site     string `json:"site,omitempty"`
	Role     string `json:"role,omitempty"`
	Tenant   string `json:"tenant,omitempty"`
}

func (d Device) Category() Category { return CategoryDevices }

func (d Device) Key() string {
	return strings.ToLower(strings.TrimSpace(d.Hostname))
}

func (d Device) Label() string { return d.Hostname }

// Interface represents a single device interface. Name is stored in its
// canonical long form; see NormalizeInterfaceName.
type Interface struct {
	Device      string `json:"device"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Type is the media type, e.g. "1000base-t", "lag", "virtual".
	Type    string `json:"type,omitempty"`
	Enabled bool   `json:"enabled"`
	OperUp  bool   `json:"oper_up"`
	// Speed is the negotiated or configured speed in Mb/s.
	Speed int `json:"speed,omitempty"`
	MTU   int `json:"mtu,omitempty"`
	// Mode is the switchport mode: "access", "tagged" or "tagged-all".
	Mode         string `json:"mode,omitempty"`
	UntaggedVLAN int    `json:"untagged_vlan,omitempty"`
	TaggedVLANs  []int  `json:"tagged_vlans,omitempty"`
	// LAG names the parent aggregate this interface is a member of.
	LAG      string `json:"lag,omitempty"`
	MAC      string `json:"mac,omitempty"`
	MgmtOnly bool   `json:"mgmt_only,omitempty"`
}

func (i Interface) Category() Category { return CategoryInterfaces }

func (i Interface) Key() string {
	dev := strings.ToLower(strings.TrimSpace(i.Device))
	name := strings.ToLower(NormalizeInterfaceName(i.Name))
	if dev == "" || name == "" {
		return ""
	}
	return dev + "|" + name
}

func (i Interface) Label() string {
	return fmt.Sprintf("%s:%s", i.Device, NormalizeInterfaceName(i.Name))
}

// IsLAG reports whether this interface is a link aggregate.
func (i Interface) IsLAG() bool { return i.Type == "lag" }

// IPAddress represents an address with prefix length assigned to an
// interface, e.g. "10.0.0.1/24".
type IPAddress struct {
	Device      string `json:"device"`
	Interface   string `json:"interface"`
	Address     string `json:"address"`
	Description string `json:"description,omitempty"`
	// Primary marks this address as the device's primary management address.
	Primary bool `json:"primary,omitempty"`
}

func (a IPAddress) Category() Category { return CategoryIPAddresses }

func (a IPAddress) Key() string {
	dev := strings.ToLower(strings.TrimSpace(a.Device))
	ifc := strings.ToLower(NormalizeInterfaceName(a.Interface))
	addr := strings.ToLower(strings.TrimSpace(a.Address))
	if dev == "" || ifc == "" || addr == "" {
		return ""
	}
	return dev + "|" + ifc + "|" + addr
}

func (a IPAddress) Label() string {
	return fmt.Sprintf("%s:%s %s", a.Device, NormalizeInterfaceName(a.Interface), a.Address)
}

// VLAN represents a VLAN scoped to a site.
type VLAN struct {
	Site string `json:"site"`
	VID  int    `json:"vid"`
	Name string `json:"name,omitempty"`
}

func (v VLAN) Category() Category { return CategoryVLANs }

func (v VLAN) Key() string {
	if v.VID <= 0 {
		return ""
	}
	return Slugify(v.Site) + "|" + fmt.Sprintf("%d", v.VID)
}

func (v VLAN) Label() string {
	return fmt.Sprintf("%s vlan %d", v.Site, v.VID)
}

// Cable represents a physical link between two interfaces. Endpoint order
// does not matter: (A,B) and (B,A) produce the same key.
type Cable struct {
	DeviceA    string `json:"device_a"`
	InterfaceA string `json:"interface_a"`
	DeviceB    string `json:"device_b"`
	InterfaceB string `json:"interface_b"`
}

func (c Cable) Category() Category { return CategoryCables }

// endpoints returns the two normalized endpoint strings in sorted order.
func (c Cable) endpoints() [2]string {
	a := strings.ToLower(strings.TrimSpace(c.DeviceA)) + ":" + strings.ToLower(NormalizeInterfaceName(c.InterfaceA))
	b := strings.ToLower(strings.TrimSpace(c.DeviceB)) + ":" + strings.ToLower(NormalizeInterfaceName(c.InterfaceB))
	pair := [2]string{a, b}
	sort.Strings(pair[:])
	return pair
}

func (c Cable) Key() string {
	if c.DeviceA == "" || c.InterfaceA == "" || c.DeviceB == "" || c.InterfaceB == "" {
		return ""
	}
	pair := c.endpoints()
	return pair[0] + "<->" + pair[1]
}

func (c Cable) Label() string {
	return fmt.Sprintf("%s:%s <-> %s:%s",
		c.DeviceA, NormalizeInterfaceName(c.InterfaceA),
		c.DeviceB, NormalizeInterfaceName(c.InterfaceB))
}

// InventoryItem represents a hardware component inside a device, such as a
// transceiver, power supply, or line card.
type InventoryItem struct {
	Device       string `json:"device"`
	Name         string `json:"name"`
	PartID       string `json:"part_id,omitempty"`
	Serial       string `json:"serial,omitempty"`
	Description  string `json:"description,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

func (it InventoryItem) Category() Category { return CategoryInventoryItems }

func (it InventoryItem) Key() string {
	dev := strings.ToLower(strings.TrimSpace(it.Device))
	name := strings.ToLower(strings.TrimSpace(it.Name))
	if dev == "" || name == "" {
		return ""
	}
	return dev + "|" + name
}

func (it InventoryItem) Label() string {
	return fmt.Sprintf("%s:%s", it.Device, it.Name)
}
