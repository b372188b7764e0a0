package mocks

import (
	"context"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	args := m.Called(ctx, tenantID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Project, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	args := m.Called(ctx, tenantID, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Upsert(ctx context.Context, tenantID string, proj *project.Project) (bool, error) {
	args := m.Called(ctx, tenantID, proj)
	return args.Bool(0), args.Error(1)
}

func (m *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *ProjectRepository) NextSequence(ctx context.Context, tenantID, name string) (int64, error) {
	args := m.Called(ctx, tenantID, name)
	if n, ok := args.Get(0).(int64); ok {
		return n, args.Error(1)
	}
	return 0, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, tenantID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, tenantID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MasterDataRepository is a mock for masterdata.Repository.
type MasterDataRepository struct {
	mock.Mock
}

func (m *MasterDataRepository) CreateCompany(ctx context.Context, tenantID string, c *masterdata.Company) error {
	args := m.Called(ctx, tenantID, c)
	return args.Error(0)
}

func (m *MasterDataRepository) GetCompany(ctx context.Context, tenantID, id string) (*masterdata.Company, error) {
	args := m.Called(ctx, tenantID, id)
	if c, ok := args.Get(0).(*masterdata.Company); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasterDataRepository) ListCompanies(ctx context.Context, tenantID string) ([]masterdata.Company, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]masterdata.Company); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasterDataRepository) CreateBrand(ctx context.Context, tenantID string, b *masterdata.Brand) error {
	args := m.Called(ctx, tenantID, b)
	return args.Error(0)
}

func (m *MasterDataRepository) GetBrand(ctx context.Context, tenantID, id string) (*masterdata.Brand, error) {
	args := m.Called(ctx, tenantID, id)
	if b, ok := args.Get(0).(*masterdata.Brand); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasterDataRepository) ListBrands(ctx context.Context, tenantID, companyID string) ([]masterdata.Brand, error) {
	args := m.Called(ctx, tenantID, companyID)
	if list, ok := args.Get(0).([]masterdata.Brand); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasterDataRepository) CreateCategory(ctx context.Context, tenantID string, c *masterdata.Category) error {
	args := m.Called(ctx, tenantID, c)
	return args.Error(0)
}

func (m *MasterDataRepository) GetCategory(ctx context.Context, tenantID, id string) (*masterdata.Category, error) {
	args := m.Called(ctx, tenantID, id)
	if c, ok := args.Get(0).(*masterdata.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MasterDataRepository) ListCategories(ctx context.Context, tenantID string) ([]masterdata.Category, error) {
	args := m.Called(ctx, tenantID)
	if list, ok := args.Get(0).([]masterdata.Category); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
