package mocks

import (
	"context"

	"assetvault/internal/model"
	"assetvault/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) InitiateUpload(ctx context.Context, ownerID string, in service.InitiateUploadInput) (*service.UploadTarget, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadTarget), args.Error(1)
}

func (m *MockAssetService) List(ctx context.Context, ownerID string, q service.ListQuery) (*service.AssetListResult, error) {
	args := m.Called(ctx, ownerID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssetListResult), args.Error(1)
}

func (m *MockAssetService) Get(ctx context.Context, ownerID, assetID string) (*service.AssetDownload, error) {
	args := m.Called(ctx, ownerID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AssetDownload), args.Error(1)
}

func (m *MockAssetService) Update(ctx context.Context, ownerID, assetID string, patch service.AssetPatch) (*model.Asset, error) {
	args := m.Called(ctx, ownerID, assetID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Asset), args.Error(1)
}

func (m *MockAssetService) Delete(ctx context.Context, ownerID, assetID string) error {
	args := m.Called(ctx, ownerID, assetID)
	return args.Error(0)
}
