package diff

import (
	"testing"

	"fabric-sync/core/inventory"
	"fabric-sync/core/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Buckets(t *testing.T) {
	// sw1 unchanged, sw2 new, sw3 changed, sw4 gone locally
	local := []inventory.Entity{
		inventory.Device{Hostname: "sw1", Site: "main"},
		inventory.Device{Hostname: "sw2", Site: "main"},
		inventory.Device{Hostname: "sw3", Serial: "NEW", Site: "main"},
	}
	remote := []registry.Item{
		{ID: 1, Entity: inventory.Device{Hostname: "sw1", Site: "main"}},
		{ID: 3, Entity: inventory.Device{Hostname: "sw3", Serial: "OLD", Site: "main"}},
		{ID: 4, Entity: inventory.Device{Hostname: "sw4", Site: "main"}},
	}

	d := Calculate(inventory.CategoryDevices, local, remote)

	require.Len(t, d.Creates, 1)
	assert.Equal(t, "sw2", d.Creates[0].Key())

	require.Len(t, d.Updates, 1)
	assert.Equal(t, 3, d.Updates[0].ID)
	require.Len(t, d.Updates[0].Fields, 1)
	assert.Contains(t, d.Updates[0].Fields[0], "serial")

	require.Len(t, d.DeleteCandidates, 1)
	assert.Equal(t, 4, d.DeleteCandidates[0].ID)
}

func TestCalculate_EmptyBothSides(t *testing.T) {
	d := Calculate(inventory.CategoryDevices, nil, nil)

	assert.Empty(t, d.Creates)
	assert.Empty(t, d.Updates)
	assert.Empty(t, d.DeleteCandidates)
	assert.False(t, d.HasChanges(true))
}

func TestCalculate_InvalidKeysExcluded(t *testing.T) {
	// Empty hostname and missing device both produce empty keys.
	local := []inventory.Entity{
		inventory.Device{},
		inventory.Interface{Name: "Gi0/1"},
		inventory.Device{Hostname: "sw1"},
	}

	d := Calculate(inventory.CategoryDevices, local, nil)

	require.Len(t, d.Creates, 1)
	assert.Equal(t, "sw1", d.Creates[0].Key())
}

func TestCalculate_DuplicateLocalKeysKeepFirst(t *testing.T) {
	local := []inventory.Entity{
		inventory.Device{Hostname: "sw1", Serial: "FIRST"},
		inventory.Device{Hostname: "SW1", Serial: "SECOND"},
	}

	d := Calculate(inventory.CategoryDevices, local, nil)

	require.Len(t, d.Creates, 1)
	assert.Equal(t, "FIRST", d.Creates[0].(inventory.Device).Serial)
}

func TestCalculate_NormalizedNameMatching(t *testing.T) {
	local := []inventory.Entity{
		inventory.Interface{Device: "sw1", Name: "Gi0/1", Enabled: true},
	}
	remote := []registry.Item{
		{ID: 10, Entity: inventory.Interface{Device: "sw1", Name: "GigabitEthernet0/1", Enabled: true}},
	}

	d := Calculate(inventory.CategoryInterfaces, local, remote)

	// Short and long forms are the same interface: no create, no delete.
	assert.Empty(t, d.Creates)
	assert.Empty(t, d.Updates)
	assert.Empty(t, d.DeleteCandidates)
}

func TestCalculate_VLANSetOrderInsensitive(t *testing.T) {
	local := []inventory.Entity{
		inventory.Interface{Device: "sw1", Name: "Gi0/1", Mode: "tagged", TaggedVLANs: []int{30, 10, 20}},
	}
	remote := []registry.Item{
		{ID: 10, Entity: inventory.Interface{Device: "sw1", Name: "GigabitEthernet0/1", Mode: "tagged", TaggedVLANs: []int{10, 20, 30}}},
	}

	d := Calculate(inventory.CategoryInterfaces, local, remote)
	assert.Empty(t, d.Updates)
}

func TestCalculate_ModeCanonicalized(t *testing.T) {
	local := []inventory.Entity{
		inventory.Interface{Device: "sw1", Name: "Gi0/1", Mode: "trunk"},
	}
	remote := []registry.Item{
		{ID: 10, Entity: inventory.Interface{Device: "sw1", Name: "GigabitEthernet0/1", Mode: "tagged"}},
	}

	d := Calculate(inventory.CategoryInterfaces, local, remote)
	assert.Empty(t, d.Updates)
}

func TestCalculate_OperStatusIgnored(t *testing.T) {
	local := []inventory.Entity{
		inventory.Interface{Device: "sw1", Name: "Gi0/1", OperUp: true},
	}
	remote := []registry.Item{
		{ID: 10, Entity: inventory.Interface{Device: "sw1", Name: "GigabitEthernet0/1", OperUp: false}},
	}

	d := Calculate(inventory.CategoryInterfaces, local, remote)
	assert.Empty(t, d.Updates)
}

func TestCalculate_InterfaceFieldChanges(t *testing.T) {
	local := []inventory.Entity{
		inventory.Interface{Device: "sw1", Name: "Gi0/1", MTU: 9000, Description: "uplink"},
	}
	remote := []registry.Item{
		{ID: 10, Entity: inventory.Interface{Device: "sw1", Name: "GigabitEthernet0/1", MTU: 1500}},
	}

	d := Calculate(inventory.CategoryInterfaces, local, remote)

	require.Len(t, d.Updates, 1)
	assert.Len(t, d.Updates[0].Fields, 2)
	assert.Contains(t, d.Updates[0].Fields, "description: local=\"uplink\" remote=\"\"")
	assert.Contains(t, d.Updates[0].Fields, "mtu: local=9000 remote=1500")
}

func TestCalculate_CablesExistenceOnly(t *testing.T) {
	local := []inventory.Entity{
		inventory.Cable{DeviceA: "sw1", InterfaceA: "Gi0/1", DeviceB: "sw2", InterfaceB: "Gi0/2"},
	}
	remote := []registry.Item{
		// Same cable, reversed endpoints
		{ID: 5, Entity: inventory.Cable{DeviceA: "sw2", InterfaceA: "Gi0/2", DeviceB: "sw1", InterfaceB: "Gi0/1"}},
	}

	d := Calculate(inventory.CategoryCables, local, remote)

	assert.Empty(t, d.Creates)
	assert.Empty(t, d.Updates)
	assert.Empty(t, d.DeleteCandidates)
}

func TestHasChanges_CleanupGating(t *testing.T) {
	d := Diff{
		Category:         inventory.CategoryDevices,
		DeleteCandidates: []registry.Item{{ID: 1, Entity: inventory.Device{Hostname: "gone"}}},
	}

	assert.False(t, d.HasChanges(false))
	assert.True(t, d.HasChanges(true))

	d.Creates = []inventory.Entity{inventory.Device{Hostname: "new"}}
	assert.True(t, d.HasChanges(false))
}

func TestCalculate_DeterministicOrder(t *testing.T) {
	local := []inventory.Entity{
		inventory.Device{Hostname: "zeta"},
		inventory.Device{Hostname: "alpha"},
		inventory.Device{Hostname: "mike"},
	}

	d := Calculate(inventory.CategoryDevices, local, nil)

	require.Len(t, d.Creates, 3)
	assert.Equal(t, "alpha", d.Creates[0].Key())
	assert.Equal(t, "mike", d.Creates[1].Key())
	assert.Equal(t, "zeta", d.Creates[2].Key())
}
