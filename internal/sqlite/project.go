package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	id, tenant_id, code, name, company_name, brand_name, category_name,
	country, priority, type, stage, target_date, remarks, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(s rowScanner) (*project.Project, error) {
	var proj project.Project
	var target sql.NullTime
	err := s.Scan(
		&proj.ID,
		&proj.TenantID,
		&proj.Code,
		&proj.Name,
		&proj.CompanyName,
		&proj.BrandName,
		&proj.CategoryName,
		&proj.Country,
		&proj.Priority,
		&proj.Type,
		&proj.Stage,
		&target,
		&proj.Remarks,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		t := target.Time
		proj.TargetDate = &t
	}
	return &proj, nil
}

func targetDate(proj *project.Project) any {
	if proj.TargetDate == nil {
		return nil
	}
	return proj.TargetDate.UTC()
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		tenantID,
		proj.Code,
		proj.Name,
		proj.CompanyName,
		proj.BrandName,
		proj.CategoryName,
		proj.Country,
		proj.Priority,
		proj.Type,
		proj.Stage,
		targetDate(proj),
		proj.Remarks,
		proj.CreatedAt.UTC(),
		proj.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError("create project", err)
	}

	proj.TenantID = tenantID
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, tenantID, id string) (*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND tenant_id = ?`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// List returns all projects for a tenant, newest first
func (r *ProjectRepository) List(ctx context.Context, tenantID string) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects
		WHERE tenant_id = ?
		ORDER BY created_at DESC, code DESC`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Update overwrites the mutable fields of a project
func (r *ProjectRepository) Update(ctx context.Context, tenantID string, proj *project.Project) error {
	query := `
		UPDATE projects SET
			name = ?, company_name = ?, brand_name = ?, category_name = ?,
			country = ?, priority = ?, type = ?, stage = ?, target_date = ?,
			remarks = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Name,
		proj.CompanyName,
		proj.BrandName,
		proj.CategoryName,
		proj.Country,
		proj.Priority,
		proj.Type,
		proj.Stage,
		targetDate(proj),
		proj.Remarks,
		proj.UpdatedAt.UTC(),
		proj.ID,
		tenantID,
	)
	if err != nil {
		return mapWriteError("update project", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Upsert inserts a project or replaces the existing row with the same ID.
// It reports whether a new row was created.
func (r *ProjectRepository) Upsert(ctx context.Context, tenantID string, proj *project.Project) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ? AND tenant_id = ?`,
		proj.ID, tenantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check project: %w", err)
	}

	if exists > 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET
				code = ?, name = ?, company_name = ?, brand_name = ?, category_name = ?,
				country = ?, priority = ?, type = ?, stage = ?, target_date = ?,
				remarks = ?, updated_at = ?
			WHERE id = ? AND tenant_id = ?`,
			proj.Code, proj.Name, proj.CompanyName, proj.BrandName, proj.CategoryName,
			proj.Country, proj.Priority, proj.Type, proj.Stage, targetDate(proj),
			proj.Remarks, proj.UpdatedAt.UTC(),
			proj.ID, tenantID,
		)
	} else {
		_, err = tx.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			proj.ID, tenantID, proj.Code, proj.Name, proj.CompanyName, proj.BrandName,
			proj.CategoryName, proj.Country, proj.Priority, proj.Type, proj.Stage,
			targetDate(proj), proj.Remarks, proj.CreatedAt.UTC(), proj.UpdatedAt.UTC(),
		)
	}
	if err != nil {
		return false, mapWriteError("upsert project", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	proj.TenantID = tenantID
	return exists == 0, nil
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// NextSequence atomically increments a named per-tenant counter and returns the new value
func (r *ProjectRepository) NextSequence(ctx context.Context, tenantID, name string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sequences (tenant_id, name, value) VALUES (?, ?, 1)
		ON CONFLICT(tenant_id, name) DO UPDATE SET value = value + 1
	`, tenantID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var value int64
	err = tx.QueryRowContext(ctx,
		`SELECT value FROM sequences WHERE tenant_id = ? AND name = ?`,
		tenantID, name,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to read sequence: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return value, nil
}
