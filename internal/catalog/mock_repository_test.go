package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/CaseVault_Go/internal/domain"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetCase(ctx context.Context, caseID int64) (*domain.CatalogCase, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogCase), args.Error(1)
}
