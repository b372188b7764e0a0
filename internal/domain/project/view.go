package project

import (
	"context"
	"strings"

	"github.com/rpggio/sealboard/internal/listview"
)

// ViewConfig holds the board pagination settings.
type ViewConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	WindowSiblings  int
}

// DefaultViewConfig returns the board defaults.
func DefaultViewConfig() ViewConfig {
	return ViewConfig{
		DefaultPageSize: listview.DefaultPageSize,
		MaxPageSize:     100,
		WindowSiblings:  listview.DefaultWindowSiblings,
	}
}

// SearchFields are the project texts matched by the board search box.
var SearchFields = []listview.Field[Project]{
	func(p Project) string { return p.Code },
	func(p Project) string { return p.Name },
	func(p Project) string { return p.CompanyName },
	func(p Project) string { return p.BrandName },
	func(p Project) string { return p.CategoryName },
}

// StageOf returns the raw stage of a project.
func StageOf(p Project) string {
	return string(p.Stage)
}

// Attribute returns the project value constrained by a board filter.
func Attribute(p Project, key listview.FilterKey) string {
	switch key {
	case listview.FilterCountry:
		return p.Country
	case listview.FilterPriority:
		return string(p.Priority)
	case listview.FilterCompany:
		return p.CompanyName
	case listview.FilterBrand:
		return p.BrandName
	case listview.FilterCategory:
		return p.CategoryName
	case listview.FilterType:
		return p.Type
	default:
		return ""
	}
}

// ViewOptions binds the list view pipeline to projects.
func ViewOptions(cfg ViewConfig) listview.Options[Project] {
	return listview.Options[Project]{
		SearchFields:    SearchFields,
		StageOf:         StageOf,
		Attribute:       Attribute,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		WindowSiblings:  cfg.WindowSiblings,
	}
}

// BuildView runs the board pipeline over an already loaded project set.
func BuildView(projects []Project, q listview.Query, cfg ViewConfig) (listview.Result[Row], error) {
	if q.Stage != "" {
		if _, err := ParseStage(q.Stage); err != nil {
			return listview.Result[Row]{}, err
		}
	}
	res, err := listview.Build(projects, q, ViewOptions(cfg))
	if err != nil {
		return listview.Result[Row]{}, err
	}
	return listview.Map(res, NewRow), nil
}

// Summarize counts the projects matching search and criteria in every stage.
func Summarize(projects []Project, search string, criteria listview.Criteria) StageSummary {
	filtered := listview.FilterBySearch(projects, search, SearchFields...)
	filtered = listview.FilterByCriteria(filtered, criteria, Attribute)

	buckets, unrecognized := listview.Partition(filtered, StageNames(), StageOf)
	summary := StageSummary{
		Stages:       make([]StageCount, 0, len(Stages)),
		Unrecognized: len(unrecognized),
		Total:        len(filtered),
	}
	for _, stage := range Stages {
		summary.Stages = append(summary.Stages, StageCount{Stage: stage, Label: stage.Label(), Count: len(buckets[string(stage)])})
	}
	return summary
}

// View loads the tenant's projects and returns one page of the board.
func (s *Service) View(ctx context.Context, tenantID string, q listview.Query) (listview.Result[Row], error) {
	q.Stage = strings.TrimSpace(q.Stage)
	projects, err := s.List(ctx, tenantID)
	if err != nil {
		return listview.Result[Row]{}, err
	}
	res, err := BuildView(projects, q, s.view)
	if err != nil {
		return listview.Result[Row]{}, err
	}
	if s.logger != nil {
		s.logger.Debug("project view built", "tenant_id", tenantID, "stage", q.Stage,
			"total", res.TotalItems, "page", res.Page, "pages", res.TotalPages)
	}
	return res, nil
}

// StageCounts returns per-stage counts for the board tabs.
func (s *Service) StageCounts(ctx context.Context, tenantID, search string, criteria listview.Criteria) (StageSummary, error) {
	projects, err := s.List(ctx, tenantID)
	if err != nil {
		return StageSummary{}, err
	}
	return Summarize(projects, search, criteria), nil
}
