package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/abasis-ltd/gtfs.guru-sub001/internal/service"
)

// MockValidationService is a mock implementation of service.ValidationService.
type MockValidationService struct {
	mock.Mock
}

func (m *MockValidationService) ValidateArchive(ctx context.Context, data []byte, opts service.ValidateOptions) (*service.ValidationResult, error) {
	args := m.Called(ctx, data, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationResult), args.Error(1)
}

func (m *MockValidationService) ValidateObject(ctx context.Context, key string, opts service.ValidateOptions) (*service.ValidationResult, error) {
	args := m.Called(ctx, key, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationResult), args.Error(1)
}

func (m *MockValidationService) ValidatePath(ctx context.Context, p string, opts service.ValidateOptions) (*service.ValidationResult, error) {
	args := m.Called(ctx, p, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ValidationResult), args.Error(1)
}
