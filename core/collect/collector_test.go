package collect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCollector struct {
	name    string
	records []Record
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(_ context.Context, _ []DeviceTarget, _ Options) ([]Record, error) {
	return s.records, nil
}

func TestRegistryKnowsAllCategories(t *testing.T) {
	registry := NewRegistry(Config{}, zap.NewNop())

	assert.Equal(t, []string{
		"cables", "devices", "interfaces", "inventory_items", "ip_addresses", "vlans",
	}, registry.Known())
	assert.True(t, registry.Has("interfaces"))
	assert.False(t, registry.Has("routes"))
}

func TestRegistryCollectUnknownTarget(t *testing.T) {
	registry := NewRegistry(Config{}, zap.NewNop())

	_, err := registry.Collect(context.Background(), "routes", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown collection target")
}

func TestRegistryCollectDelegates(t *testing.T) {
	registry := NewRegistry(Config{}, zap.NewNop())
	registry.Register(&stubCollector{name: "devices", records: []Record{
		{KeyDevice: "sw1", "hostname": "sw1"},
		ErrorRecord("sw2", context.DeadlineExceeded),
	}})

	records, err := registry.Collect(context.Background(), "devices", namedTargets("sw1", "sw2"), nil)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "sw1", records[0]["hostname"])
	assert.True(t, records[1].IsError())
}

func TestOptions(t *testing.T) {
	opts := Options{"community": "lab", "workers": "4"}

	assert.Equal(t, "lab", opts.String("community", "public"))
	assert.Equal(t, "public", opts.String("missing", "public"))
	assert.Equal(t, 4, opts.Int("workers", 8))
	assert.Equal(t, 8, opts.Int("missing", 8))

	var none Options
	assert.Equal(t, "public", none.String("community", "public"))
}
