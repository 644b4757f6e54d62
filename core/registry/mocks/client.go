package mocks

import (
	"context"

	"fabric-sync/core/inventory"
	"fabric-sync/core/registry"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of registry.Client
type Client struct {
	mock.Mock
}

func (m *Client) List(ctx context.Context, category inventory.Category, scope registry.Scope) ([]registry.Item, error) {
	args := m.Called(ctx, category, scope)
	if items, ok := args.Get(0).([]registry.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, entity inventory.Entity) (registry.Item, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(registry.Item), args.Error(1)
}

func (m *Client) CreateMany(ctx context.Context, category inventory.Category, entities []inventory.Entity) ([]registry.Item, error) {
	args := m.Called(ctx, category, entities)
	if items, ok := args.Get(0).([]registry.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Update(ctx context.Context, update registry.Update) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *Client) UpdateMany(ctx context.Context, category inventory.Category, updates []registry.Update) error {
	args := m.Called(ctx, category, updates)
	return args.Error(0)
}

func (m *Client) Delete(ctx context.Context, category inventory.Category, id int) error {
	args := m.Called(ctx, category, id)
	return args.Error(0)
}

func (m *Client) DeleteMany(ctx context.Context, category inventory.Category, ids []int) error {
	args := m.Called(ctx, category, ids)
	return args.Error(0)
}

func (m *Client) LookupDevice(ctx context.Context, hostname string) (*registry.Item, error) {
	args := m.Called(ctx, hostname)
	if item, ok := args.Get(0).(*registry.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) LookupSite(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}
