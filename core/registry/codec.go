package registry

import (
	"encoding/json"
	"fmt"

	"fabric-sync/core/inventory"
)

// wireItem is the registry's JSON envelope for a stored object.
type wireItem struct {
	ID   int             `json:"id"`
	Data json.RawMessage `json:"data"`
}

// wireList is the registry's JSON envelope for list responses.
type wireList struct {
	Count   int        `json:"count"`
	Results []wireItem `json:"results"`
}

// wireUpdate is the payload for a bulk update entry.
type wireUpdate struct {
	ID   int `json:"id"`
	Data any `json:"data"`
}

// wireIDs is the payload for bulk deletes.
type wireIDs struct {
	IDs []int `json:"ids"`
}

// decodeItem converts a wire envelope into a typed Item. The category tells
// the decoder which concrete entity type to use.
func decodeItem(category inventory.Category, w wireItem) (Item, error) {
	entity, err := decodeEntity(category, w.Data)
	if err != nil {
		return Item{}, err
	}
	return Item{ID: w.ID, Entity: entity}, nil
}

// decodeItems converts a list response body into typed Items.
func decodeItems(category inventory.Category, body []byte) ([]Item, error) {
	var list wireList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", category, err)
	}

	items := make([]Item, 0, len(list.Results))
	for _, w := range list.Results {
		item, err := decodeItem(category, w)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// decodeEntity unmarshals raw object data into the category's concrete type.
func decodeEntity(category inventory.Category, data []byte) (inventory.Entity, error) {
	switch category {
	case inventory.CategoryDevices:
		var e inventory.Device
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode device: %w", err)
		}
		return e, nil
	case inventory.CategoryInterfaces:
		var e inventory.Interface
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode interface: %w", err)
		}
		return e, nil
	case inventory.CategoryIPAddresses:
		var e inventory.IPAddress
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode ip address: %w", err)
		}
		return e, nil
	case inventory.CategoryVLANs:
		var e inventory.VLAN
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode vlan: %w", err)
		}
		return e, nil
	case inventory.CategoryCables:
		var e inventory.Cable
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode cable: %w", err)
		}
		return e, nil
	case inventory.CategoryInventoryItems:
		var e inventory.InventoryItem
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("failed to decode inventory item: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}
}
