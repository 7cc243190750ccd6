package mocks

import (
	"context"

	"assetvault/internal/model"
	"assetvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Put(ctx context.Context, asset *model.Asset) (*model.Asset, error) {
	args := m.Called(ctx, asset)
	if f, ok := args.Get(0).(func(context.Context, *model.Asset) *model.Asset); ok {
		return f(ctx, asset), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepository) FindByID(ctx context.Context, ownerID, assetID string) (*model.Asset, error) {
	args := m.Called(ctx, ownerID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetRepository) List(ctx context.Context, ownerID string, f repository.Filter, p repository.Page) (*repository.AssetPage, error) {
	args := m.Called(ctx, ownerID, f, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.AssetPage), args.Error(1)
}

func (m *MockAssetRepository) Delete(ctx context.Context, ownerID, assetID string) error {
	args := m.Called(ctx, ownerID, assetID)
	return args.Error(0)
}
