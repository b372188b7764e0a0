package project

import (
	"time"

	"github.com/rpggio/sealboard/internal/listview"
)

// Priority ranks how urgently a development should move.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Project is one product-development entry on the board.
type Project struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	CompanyName  string     `json:"company_name,omitempty"`
	BrandName    string     `json:"brand_name,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	Country      string     `json:"country,omitempty"`
	Priority     Priority   `json:"priority,omitempty"`
	Type         string     `json:"type,omitempty"`
	Stage        Stage      `json:"stage"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	Remarks      string     `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Row is a project as shown on a board, annotated with its deadline status.
type Row struct {
	Project
	StageLabel string                `json:"stage_label"`
	Duration   listview.DurationInfo `json:"duration"`
}

// NewRow annotates p with the duration from creation to its stage target.
func NewRow(p Project) Row {
	created := p.CreatedAt
	return Row{
		Project:    p,
		StageLabel: p.Stage.Label(),
		Duration:   listview.Between(&created, p.TargetDate),
	}
}

// StageCount is the number of matching projects in one stage.
type StageCount struct {
	Stage Stage  `json:"stage"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// StageSummary is the per-stage badge data for the board tabs.
type StageSummary struct {
	Stages       []StageCount `json:"stages"`
	Unrecognized int          `json:"unrecognized"`
	Total        int          `json:"total"`
}
