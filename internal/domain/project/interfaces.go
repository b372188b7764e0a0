package project

import (
	"context"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
)

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, tenantID string, proj *Project) error
	Get(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string) ([]Project, error)
	Update(ctx context.Context, tenantID string, proj *Project) error
	Upsert(ctx context.Context, tenantID string, proj *Project) (created bool, err error)
	Delete(ctx context.Context, tenantID, id string) error
	NextSequence(ctx context.Context, tenantID, name string) (int64, error)
}

// ActivityRepository logs project activities.
type ActivityRepository interface {
	Log(ctx context.Context, tenantID string, entry *activity.ActivityEntry) error
}

// Lookups resolves master-data references to display names.
type Lookups interface {
	GetCompany(ctx context.Context, tenantID, id string) (*masterdata.Company, error)
	GetBrand(ctx context.Context, tenantID, id string) (*masterdata.Brand, error)
	GetCategory(ctx context.Context, tenantID, id string) (*masterdata.Category, error)
}
