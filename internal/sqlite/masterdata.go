package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/repository"
)

// MasterDataRepository implements masterdata.Repository for SQLite
type MasterDataRepository struct {
	db *DB
}

// NewMasterDataRepository creates a new MasterDataRepository
func NewMasterDataRepository(db *DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// CreateCompany inserts a company
func (r *MasterDataRepository) CreateCompany(ctx context.Context, tenantID string, c *masterdata.Company) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, tenant_id, name, country, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, tenantID, c.Name, c.Country, c.CreatedAt.UTC())
	if err != nil {
		return mapWriteError("create company", err)
	}
	c.TenantID = tenantID
	return nil
}

// GetCompany retrieves a company by ID
func (r *MasterDataRepository) GetCompany(ctx context.Context, tenantID, id string) (*masterdata.Company, error) {
	var c masterdata.Company
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, country, created_at FROM companies WHERE id = ? AND tenant_id = ?`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.Name, &c.Country, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// ListCompanies returns companies ordered by name
func (r *MasterDataRepository) ListCompanies(ctx context.Context, tenantID string) ([]masterdata.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, country, created_at FROM companies WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var out []masterdata.Company
	for rows.Next() {
		var c masterdata.Company
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Country, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating company rows: %w", err)
	}
	return out, nil
}

// CreateBrand inserts a brand
func (r *MasterDataRepository) CreateBrand(ctx context.Context, tenantID string, b *masterdata.Brand) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO brands (id, tenant_id, company_id, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, tenantID, b.CompanyID, b.Name, b.CreatedAt.UTC())
	if err != nil {
		return mapWriteError("create brand", err)
	}
	b.TenantID = tenantID
	return nil
}

// GetBrand retrieves a brand by ID
func (r *MasterDataRepository) GetBrand(ctx context.Context, tenantID, id string) (*masterdata.Brand, error) {
	var b masterdata.Brand
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, company_id, name, created_at FROM brands WHERE id = ? AND tenant_id = ?`,
		id, tenantID,
	).Scan(&b.ID, &b.TenantID, &b.CompanyID, &b.Name, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return &b, nil
}

// ListBrands returns brands ordered by name, optionally for one company
func (r *MasterDataRepository) ListBrands(ctx context.Context, tenantID, companyID string) ([]masterdata.Brand, error) {
	query := `SELECT id, tenant_id, company_id, name, created_at FROM brands WHERE tenant_id = ?`
	args := []any{tenantID}
	if companyID != "" {
		query += " AND company_id = ?"
		args = append(args, companyID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var out []masterdata.Brand
	for rows.Next() {
		var b masterdata.Brand
		if err := rows.Scan(&b.ID, &b.TenantID, &b.CompanyID, &b.Name, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brand rows: %w", err)
	}
	return out, nil
}

// CreateCategory inserts a category
func (r *MasterDataRepository) CreateCategory(ctx context.Context, tenantID string, c *masterdata.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, tenant_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, tenantID, c.Name, c.CreatedAt.UTC())
	if err != nil {
		return mapWriteError("create category", err)
	}
	c.TenantID = tenantID
	return nil
}

// GetCategory retrieves a category by ID
func (r *MasterDataRepository) GetCategory(ctx context.Context, tenantID, id string) (*masterdata.Category, error) {
	var c masterdata.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tenant_id, name, created_at FROM categories WHERE id = ? AND tenant_id = ?`,
		id, tenantID,
	).Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// ListCategories returns categories ordered by name
func (r *MasterDataRepository) ListCategories(ctx context.Context, tenantID string) ([]masterdata.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tenant_id, name, created_at FROM categories WHERE tenant_id = ? ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var out []masterdata.Category
	for rows.Next() {
		var c masterdata.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return out, nil
}
