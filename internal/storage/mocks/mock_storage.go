package mocks

import (
	"context"

	"assetvault/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) PresignPut(ctx context.Context, key, contentType string) (storage.Presigned, error) {
	args := m.Called(ctx, key, contentType)
	if f, ok := args.Get(0).(func(context.Context, string, string) storage.Presigned); ok {
		return f(ctx, key, contentType), args.Error(1)
	}
	return args.Get(0).(storage.Presigned), args.Error(1)
}

func (m *MockGateway) PresignGet(ctx context.Context, key string) (storage.Presigned, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.Presigned), args.Error(1)
}

func (m *MockGateway) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
