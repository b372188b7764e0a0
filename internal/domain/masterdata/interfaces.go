package masterdata

import "context"

// Repository provides persistence for companies, brands and categories.
type Repository interface {
	CreateCompany(ctx context.Context, tenantID string, c *Company) error
	GetCompany(ctx context.Context, tenantID, id string) (*Company, error)
	ListCompanies(ctx context.Context, tenantID string) ([]Company, error)

	CreateBrand(ctx context.Context, tenantID string, b *Brand) error
	GetBrand(ctx context.Context, tenantID, id string) (*Brand, error)
	ListBrands(ctx context.Context, tenantID, companyID string) ([]Brand, error)

	CreateCategory(ctx context.Context, tenantID string, c *Category) error
	GetCategory(ctx context.Context, tenantID, id string) (*Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]Category, error)
}
