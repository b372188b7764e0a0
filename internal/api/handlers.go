package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
)

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, tenantID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, tenantID, id string) (*project.Project, error)
	Update(ctx context.Context, tenantID string, req project.UpdateRequest) (*project.Project, error)
	Transition(ctx context.Context, tenantID string, req project.TransitionRequest) (*project.Project, error)
	Delete(ctx context.Context, tenantID, id, actor string) error
	View(ctx context.Context, tenantID string, q listview.Query) (listview.Result[project.Row], error)
	StageCounts(ctx context.Context, tenantID, search string, criteria listview.Criteria) (project.StageSummary, error)
}

// MasterDataService defines master-data operations needed by the API.
type MasterDataService interface {
	CreateCompany(ctx context.Context, tenantID string, req masterdata.CreateCompanyRequest) (*masterdata.Company, error)
	ListCompanies(ctx context.Context, tenantID string) ([]masterdata.Company, error)
	CreateBrand(ctx context.Context, tenantID string, req masterdata.CreateBrandRequest) (*masterdata.Brand, error)
	ListBrands(ctx context.Context, tenantID, companyID string) ([]masterdata.Brand, error)
	CreateCategory(ctx context.Context, tenantID string, req masterdata.CreateCategoryRequest) (*masterdata.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]masterdata.Category, error)
}

// ActivityService defines activity operations needed by the API.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains the domain services served by the API.
type Services struct {
	Projects   ProjectService
	MasterData MasterDataService
	Activity   ActivityService
}

// Handler implements the API handlers
type Handler struct {
	svc     Services
	logger  *slog.Logger
	version string
}

// NewHandler creates a new Handler
func NewHandler(svc Services, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{svc: svc, logger: logger, version: version}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type stageInfo struct {
	Stage project.Stage `json:"stage"`
	Label string        `json:"label"`
	Next  project.Stage `json:"next,omitempty"`
}

type stagesResponse struct {
	Stages       []stageInfo          `json:"stages"`
	Counts       []project.StageCount `json:"counts"`
	Unrecognized int                  `json:"unrecognized"`
	Total        int                  `json:"total"`
}

type listResponse[T any] struct {
	Data []T `json:"data"`
}

// Health handles GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Version: h.version})
}

// Stages handles GET /api/v1/stages
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	values := r.URL.Query()
	summary, err := h.svc.Projects.StageCounts(r.Context(), p.Tenant, values.Get("q"), ParseCriteria(values))
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}

	stages := make([]stageInfo, 0, len(project.Stages))
	for _, s := range project.Stages {
		next, _ := s.Next()
		stages = append(stages, stageInfo{Stage: s, Label: s.Label(), Next: next})
	}
	writeJSON(w, http.StatusOK, stagesResponse{
		Stages:       stages,
		Counts:       summary.Stages,
		Unrecognized: summary.Unrecognized,
		Total:        summary.Total,
	})
}

// ListProjects handles GET /api/v1/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q, err := ParseViewQuery(r.URL.Query())
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	res, err := h.svc.Projects.View(r.Context(), principal(r).Tenant, q)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// CreateProject handles POST /api/v1/projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.Actor = p.Subject

	proj, err := h.svc.Projects.Create(r.Context(), p.Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Location", "/api/v1/projects/"+proj.ID)
	writeJSON(w, http.StatusCreated, project.NewRow(*proj))
}

// GetProject handles GET /api/v1/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := h.svc.Projects.Get(r.Context(), principal(r).Tenant, chi.URLParam(r, "id"))
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project.NewRow(*proj))
}

// UpdateProject handles PATCH /api/v1/projects/{id}
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.ID = chi.URLParam(r, "id")
	req.Actor = p.Subject

	proj, err := h.svc.Projects.Update(r.Context(), p.Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project.NewRow(*proj))
}

// TransitionProject handles POST /api/v1/projects/{id}/transition
func (h *Handler) TransitionProject(w http.ResponseWriter, r *http.Request) {
	var req project.TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p := principal(r)
	req.ID = chi.URLParam(r, "id")
	req.Actor = p.Subject

	proj, err := h.svc.Projects.Transition(r.Context(), p.Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, project.NewRow(*proj))
}

// DeleteProject handles DELETE /api/v1/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	if err := h.svc.Projects.Delete(r.Context(), p.Tenant, chi.URLParam(r, "id"), p.Subject); err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProjectActivity handles GET /api/v1/projects/{id}/activity
func (h *Handler) ProjectActivity(w http.ResponseWriter, r *http.Request) {
	tenant := principal(r).Tenant
	id := chi.URLParam(r, "id")
	if _, err := h.svc.Projects.Get(r.Context(), tenant, id); err != nil {
		MapError(w, r, h.logger, err)
		return
	}

	opts := activity.ListActivityOptions{ProjectID: id}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			WriteProblem(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = limit
	}

	entries, err := h.svc.Activity.GetRecentActivity(r.Context(), tenant, opts)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[activity.ActivityEntry]{Data: nonNil(entries)})
}

// ListCompanies handles GET /api/v1/companies
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.MasterData.ListCompanies(r.Context(), principal(r).Tenant)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[masterdata.Company]{Data: nonNil(list)})
}

// CreateCompany handles POST /api/v1/companies
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req masterdata.CreateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.MasterData.CreateCompany(r.Context(), principal(r).Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListBrands handles GET /api/v1/brands
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.MasterData.ListBrands(r.Context(), principal(r).Tenant, r.URL.Query().Get("company_id"))
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[masterdata.Brand]{Data: nonNil(list)})
}

// CreateBrand handles POST /api/v1/brands
func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req masterdata.CreateBrandRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.svc.MasterData.CreateBrand(r.Context(), principal(r).Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.MasterData.ListCategories(r.Context(), principal(r).Tenant)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[masterdata.Category]{Data: nonNil(list)})
}

// CreateCategory handles POST /api/v1/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req masterdata.CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.svc.MasterData.CreateCategory(r.Context(), principal(r).Tenant, req)
	if err != nil {
		MapError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// principal returns the caller; the auth middleware guarantees one is present.
func principal(r *http.Request) Principal {
	p, _ := PrincipalFromContext(r.Context())
	return p
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
