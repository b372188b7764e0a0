package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/repository"
	"github.com/rpggio/sealboard/internal/validation"
)

const codeSequence = "project_code"

// Service handles project business logic.
type Service struct {
	repo       Repository
	activities ActivityRepository
	lookups    Lookups
	logger     *slog.Logger
	view       ViewConfig
	now        func() time.Time
}

// NewService creates a new project service. activities and lookups may be nil.
func NewService(repo Repository, activities ActivityRepository, lookups Lookups, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		lookups:    lookups,
		logger:     logger,
		view:       DefaultViewConfig(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithViewConfig replaces the board pagination settings.
func (s *Service) WithViewConfig(cfg ViewConfig) *Service {
	s.view = cfg
	return s
}

// CreateRequest defines project creation inputs. Master-data IDs take
// precedence over the matching free-text names.
type CreateRequest struct {
	Name         string     `json:"name" validate:"required,max=200"`
	CompanyID    string     `json:"company_id,omitempty"`
	CompanyName  string     `json:"company_name,omitempty" validate:"max=200"`
	BrandID      string     `json:"brand_id,omitempty"`
	BrandName    string     `json:"brand_name,omitempty" validate:"max=200"`
	CategoryID   string     `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty" validate:"max=200"`
	Country      string     `json:"country,omitempty" validate:"max=80"`
	Priority     Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Type         string     `json:"type,omitempty" validate:"max=80"`
	Stage        Stage      `json:"stage,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Remarks      string     `json:"remarks,omitempty" validate:"max=2000"`
	Actor        string     `json:"-"`
}

// UpdateRequest describes a partial project update.
type UpdateRequest struct {
	ID              string     `json:"-"`
	Name            *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	CompanyName     *string    `json:"company_name,omitempty" validate:"omitempty,max=200"`
	BrandName       *string    `json:"brand_name,omitempty" validate:"omitempty,max=200"`
	CategoryName    *string    `json:"category_name,omitempty" validate:"omitempty,max=200"`
	Country         *string    `json:"country,omitempty" validate:"omitempty,max=80"`
	Priority        *Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Type            *string    `json:"type,omitempty" validate:"omitempty,max=80"`
	TargetDate      *time.Time `json:"target_date,omitempty"`
	ClearTargetDate bool       `json:"clear_target_date,omitempty"`
	Remarks         *string    `json:"remarks,omitempty" validate:"omitempty,max=2000"`
	Actor           string     `json:"-"`
}

// TransitionRequest describes a stage change.
type TransitionRequest struct {
	ID         string     `json:"-"`
	ToStage    Stage      `json:"to_stage" validate:"required"`
	Reason     string     `json:"reason,omitempty" validate:"max=1000"`
	TargetDate *time.Time `json:"target_date,omitempty"`
	Actor      string     `json:"-"`
}

// ImportResult counts the outcome of an import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Create validates and stores a new project with a generated code.
func (s *Service) Create(ctx context.Context, tenantID string, req CreateRequest) (*Project, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	stage := req.Stage
	if stage == "" {
		stage = StageIdea
	}
	if !stage.Valid() {
		return nil, ErrInvalidStage
	}

	if err := s.resolveReferences(ctx, tenantID, &req); err != nil {
		return nil, err
	}

	code, err := s.nextCode(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	proj := &Project{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Code:         code,
		Name:         req.Name,
		CompanyName:  strings.TrimSpace(req.CompanyName),
		BrandName:    strings.TrimSpace(req.BrandName),
		CategoryName: strings.TrimSpace(req.CategoryName),
		Country:      strings.TrimSpace(req.Country),
		Priority:     req.Priority,
		Type:         strings.TrimSpace(req.Type),
		Stage:        stage,
		TargetDate:   req.TargetDate,
		Remarks:      req.Remarks,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, tenantID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logActivity(ctx, tenantID, req.Actor, proj.ID, activity.TypeProjectCreated,
		fmt.Sprintf("created project %s", proj.Code), nil)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns every project of a tenant, newest first.
func (s *Service) List(ctx context.Context, tenantID string) ([]Project, error) {
	projects, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, tenantID string, req UpdateRequest) (*Project, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, validation.New(validation.ValidationError{Field: "name", Message: "is required"})
	}

	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	changed := map[string]any{}
	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v != *dst {
			*dst = v
			changed[field] = v
		}
	}
	setString("name", &updated.Name, req.Name)
	setString("company_name", &updated.CompanyName, req.CompanyName)
	setString("brand_name", &updated.BrandName, req.BrandName)
	setString("category_name", &updated.CategoryName, req.CategoryName)
	setString("country", &updated.Country, req.Country)
	setString("type", &updated.Type, req.Type)
	if req.Remarks != nil && *req.Remarks != updated.Remarks {
		updated.Remarks = *req.Remarks
		changed["remarks"] = true
	}
	if req.Priority != nil && *req.Priority != updated.Priority {
		updated.Priority = *req.Priority
		changed["priority"] = *req.Priority
	}
	switch {
	case req.ClearTargetDate:
		if updated.TargetDate != nil {
			updated.TargetDate = nil
			changed["target_date"] = nil
		}
	case req.TargetDate != nil:
		updated.TargetDate = req.TargetDate
		changed["target_date"] = req.TargetDate.Format(time.RFC3339)
	}

	if len(changed) == 0 {
		return current, nil
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.logActivity(ctx, tenantID, req.Actor, updated.ID, activity.TypeProjectUpdated,
		fmt.Sprintf("updated project %s", updated.Code), changed)
	return &updated, nil
}

// Transition moves a project to another stage.
func (s *Service) Transition(ctx context.Context, tenantID string, req TransitionRequest) (*Project, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTransition(current.Stage, req.ToStage, req.Reason); err != nil {
		return nil, err
	}

	updated := *current
	updated.Stage = req.ToStage
	updated.TargetDate = req.TargetDate
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, tenantID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("transitioning project: %w", err)
	}

	details := map[string]any{
		"from": current.Stage,
		"to":   updated.Stage,
	}
	if req.Reason != "" {
		details["reason"] = req.Reason
	}
	s.logActivity(ctx, tenantID, req.Actor, updated.ID, activity.TypeStageChanged,
		fmt.Sprintf("%s moved from %s to %s", updated.Code, current.Stage.Label(), updated.Stage.Label()), details)
	return &updated, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, tenantID, id, actor string) error {
	proj, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.logActivity(ctx, tenantID, actor, proj.ID, activity.TypeProjectDeleted,
		fmt.Sprintf("deleted project %s", proj.Code), nil)
	return nil
}

// Import upserts projects fetched from another system. Projects without a
// name are skipped; missing IDs and codes are generated.
func (s *Service) Import(ctx context.Context, tenantID string, projects []Project, actor string) (ImportResult, error) {
	var result ImportResult
	for _, p := range projects {
		if strings.TrimSpace(p.Name) == "" {
			result.Skipped++
			continue
		}
		proj := p
		proj.TenantID = tenantID
		if proj.ID == "" {
			proj.ID = uuid.NewString()
		}
		if proj.Code == "" {
			code, err := s.nextCode(ctx, tenantID)
			if err != nil {
				return result, err
			}
			proj.Code = code
		}
		now := s.now()
		if proj.CreatedAt.IsZero() {
			proj.CreatedAt = now
		}
		if proj.UpdatedAt.IsZero() {
			proj.UpdatedAt = now
		}

		created, err := s.repo.Upsert(ctx, tenantID, &proj)
		if err != nil {
			return result, fmt.Errorf("importing project %s: %w", proj.ID, err)
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		s.logActivity(ctx, tenantID, actor, proj.ID, activity.TypeProjectImported,
			fmt.Sprintf("imported project %s", proj.Code), nil)
	}

	if s.logger != nil {
		s.logger.Info("projects imported", "tenant_id", tenantID,
			"created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	}
	return result, nil
}

func (s *Service) nextCode(ctx context.Context, tenantID string) (string, error) {
	seq, err := s.repo.NextSequence(ctx, tenantID, codeSequence)
	if err != nil {
		return "", fmt.Errorf("allocating project code: %w", err)
	}
	return FormatCode(seq), nil
}

// FormatCode renders a project sequence number as its display code.
func FormatCode(seq int64) string {
	return fmt.Sprintf("RND%04d", seq)
}

func (s *Service) resolveReferences(ctx context.Context, tenantID string, req *CreateRequest) error {
	if req.CompanyID == "" && req.BrandID == "" && req.CategoryID == "" {
		return nil
	}
	if s.lookups == nil {
		return ErrUnknownReference
	}

	if req.BrandID != "" {
		brand, err := s.lookups.GetBrand(ctx, tenantID, req.BrandID)
		if err != nil {
			return lookupError(err)
		}
		req.BrandName = brand.Name
		if req.CompanyID == "" {
			req.CompanyID = brand.CompanyID
		} else if req.CompanyID != brand.CompanyID {
			return validation.New(validation.ValidationError{Field: "brand_id", Message: "does not belong to company_id"})
		}
	}
	if req.CompanyID != "" {
		company, err := s.lookups.GetCompany(ctx, tenantID, req.CompanyID)
		if err != nil {
			return lookupError(err)
		}
		req.CompanyName = company.Name
		if req.Country == "" {
			req.Country = company.Country
		}
	}
	if req.CategoryID != "" {
		category, err := s.lookups.GetCategory(ctx, tenantID, req.CategoryID)
		if err != nil {
			return lookupError(err)
		}
		req.CategoryName = category.Name
	}
	return nil
}

func lookupError(err error) error {
	if errors.Is(err, masterdata.ErrNotFound) || errors.Is(err, repository.ErrNotFound) {
		return ErrUnknownReference
	}
	return fmt.Errorf("resolving master data: %w", err)
}

func (s *Service) logActivity(ctx context.Context, tenantID, actor, projectID string, typ activity.ActivityType, summary string, details map[string]any) {
	if s.activities == nil {
		return
	}
	entry := &activity.ActivityEntry{
		ProjectID:    projectID,
		Actor:        actor,
		ActivityType: typ,
		Summary:      summary,
		CreatedAt:    s.now(),
	}
	if len(details) > 0 {
		if data, err := json.Marshal(details); err == nil {
			entry.Details = string(data)
		}
	}
	if err := s.activities.Log(ctx, tenantID, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "project_id", projectID, "type", typ, "error", err)
	}
}
