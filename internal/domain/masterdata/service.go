package masterdata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/sealboard/internal/repository"
	"github.com/rpggio/sealboard/internal/validation"
)

// Service handles master-data operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new master-data service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCompanyRequest defines company creation inputs.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Country string `json:"country,omitempty" validate:"max=80"`
}

// CreateBrandRequest defines brand creation inputs.
type CreateBrandRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=200"`
}

// CreateCategoryRequest defines category creation inputs.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateCompany creates a company.
func (s *Service) CreateCompany(ctx context.Context, tenantID string, req CreateCompanyRequest) (*Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c := &Company{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		Country:   strings.TrimSpace(req.Country),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateCompany(ctx, tenantID, c); err != nil {
		return nil, mapRepoError("creating company", err)
	}
	return c, nil
}

// CreateBrand creates a brand under an existing company.
func (s *Service) CreateBrand(ctx context.Context, tenantID string, req CreateBrandRequest) (*Brand, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.GetCompany(ctx, tenantID, req.CompanyID); err != nil {
		return nil, err
	}
	b := &Brand{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		CompanyID: req.CompanyID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateBrand(ctx, tenantID, b); err != nil {
		return nil, mapRepoError("creating brand", err)
	}
	return b, nil
}

// CreateCategory creates a category.
func (s *Service) CreateCategory(ctx context.Context, tenantID string, req CreateCategoryRequest) (*Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c := &Category{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateCategory(ctx, tenantID, c); err != nil {
		return nil, mapRepoError("creating category", err)
	}
	return c, nil
}

// GetCompany fetches a company by ID.
func (s *Service) GetCompany(ctx context.Context, tenantID, id string) (*Company, error) {
	c, err := s.repo.GetCompany(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepoError("getting company", err)
	}
	return c, nil
}

// GetBrand fetches a brand by ID.
func (s *Service) GetBrand(ctx context.Context, tenantID, id string) (*Brand, error) {
	b, err := s.repo.GetBrand(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepoError("getting brand", err)
	}
	return b, nil
}

// GetCategory fetches a category by ID.
func (s *Service) GetCategory(ctx context.Context, tenantID, id string) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, tenantID, id)
	if err != nil {
		return nil, mapRepoError("getting category", err)
	}
	return c, nil
}

// ListCompanies lists companies ordered by name.
func (s *Service) ListCompanies(ctx context.Context, tenantID string) ([]Company, error) {
	return s.repo.ListCompanies(ctx, tenantID)
}

// ListBrands lists brands, optionally restricted to one company.
func (s *Service) ListBrands(ctx context.Context, tenantID, companyID string) ([]Brand, error) {
	return s.repo.ListBrands(ctx, tenantID, companyID)
}

// ListCategories lists categories ordered by name.
func (s *Service) ListCategories(ctx context.Context, tenantID string) ([]Category, error) {
	return s.repo.ListCategories(ctx, tenantID)
}

func mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDuplicate
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
