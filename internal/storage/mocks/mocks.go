package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// KV is a mock for storage.KV.
type KV struct {
	mock.Mock
}

func (m *KV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if raw, ok := args.Get(0).([]byte); ok {
		return raw, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *KV) Write(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
