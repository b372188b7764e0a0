package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
)

const mcpActor = "mcp"

// FilterParams are the board filters shared by list and summary tools.
type FilterParams struct {
	Query    string `json:"query,omitempty" jsonschema:"case-insensitive text matched against code, name, company, brand and category"`
	Country  string `json:"country,omitempty" jsonschema:"exact country, or all"`
	Priority string `json:"priority,omitempty" jsonschema:"low, medium, high or all"`
	Company  string `json:"company,omitempty" jsonschema:"exact company name, or all"`
	Brand    string `json:"brand,omitempty" jsonschema:"exact brand name, or all"`
	Category string `json:"category,omitempty" jsonschema:"exact category name, or all"`
	Type     string `json:"type,omitempty" jsonschema:"exact project type, or all"`
}

func (f FilterParams) criteria() listview.Criteria {
	c := listview.Criteria{}
	c.Set(listview.FilterCountry, f.Country)
	c.Set(listview.FilterPriority, f.Priority)
	c.Set(listview.FilterCompany, f.Company)
	c.Set(listview.FilterBrand, f.Brand)
	c.Set(listview.FilterCategory, f.Category)
	c.Set(listview.FilterType, f.Type)
	return c
}

type ListProjectsParams struct {
	FilterParams
	Stage    string `json:"stage,omitempty" jsonschema:"stage identifier, omit for all stages"`
	Page     int    `json:"page,omitempty" jsonschema:"1-based page number"`
	PageSize int    `json:"page_size,omitempty" jsonschema:"rows per page"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type CreateProjectParams struct {
	Name         string `json:"name" jsonschema:"project name"`
	CompanyName  string `json:"company_name,omitempty"`
	BrandName    string `json:"brand_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	Country      string `json:"country,omitempty"`
	Priority     string `json:"priority,omitempty" jsonschema:"low, medium or high"`
	Type         string `json:"type,omitempty"`
	Stage        string `json:"stage,omitempty" jsonschema:"initial stage, defaults to idea"`
	TargetDate   string `json:"target_date,omitempty" jsonschema:"YYYY-MM-DD or RFC 3339 date"`
	Remarks      string `json:"remarks,omitempty"`
}

type TransitionStageParams struct {
	ID         string `json:"id" jsonschema:"project ID"`
	ToStage    string `json:"to_stage" jsonschema:"target stage identifier"`
	Reason     string `json:"reason,omitempty" jsonschema:"required when moving backward"`
	TargetDate string `json:"target_date,omitempty" jsonschema:"target date for the new stage, YYYY-MM-DD or RFC 3339"`
}

type RecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"limit to one project"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum entries, default 50"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List one page of the project board, filtered by stage, search text and attribute filters",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Projects.View(ctx, getTenantID(ctx), listview.Query{
			Search:   in.Query,
			Stage:    in.Stage,
			Criteria: in.criteria(),
			Page:     in.Page,
			PageSize: in.PageSize,
		})
		return respond(res, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "stage_summary",
		Description: "Count matching projects in every stage",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in FilterParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Projects.StageCounts(ctx, getTenantID(ctx), in.Query, in.criteria())
		return respond(res, err)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one project with its stage label and deadline status",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := svc.Projects.Get(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return respond(nil, err)
		}
		return respond(project.NewRow(*proj), nil)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project; a code is generated",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		target, err := parseDateArg("target_date", in.TargetDate)
		if err != nil {
			return respond(nil, err)
		}
		proj, err := svc.Projects.Create(ctx, getTenantID(ctx), project.CreateRequest{
			Name:         in.Name,
			CompanyName:  in.CompanyName,
			BrandName:    in.BrandName,
			CategoryName: in.CategoryName,
			Country:      in.Country,
			Priority:     project.Priority(in.Priority),
			Type:         in.Type,
			Stage:        project.Stage(in.Stage),
			TargetDate:   target,
			Remarks:      in.Remarks,
			Actor:        mcpActor,
		})
		if err != nil {
			return respond(nil, err)
		}
		return respond(project.NewRow(*proj), nil)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "transition_stage",
		Description: "Move a project to another stage",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TransitionStageParams) (*sdkmcp.CallToolResult, any, error) {
		target, err := parseDateArg("target_date", in.TargetDate)
		if err != nil {
			return respond(nil, err)
		}
		proj, err := svc.Projects.Transition(ctx, getTenantID(ctx), project.TransitionRequest{
			ID:         in.ID,
			ToStage:    project.Stage(in.ToStage),
			Reason:     in.Reason,
			TargetDate: target,
			Actor:      mcpActor,
		})
		if err != nil {
			return respond(nil, err)
		}
		return respond(project.NewRow(*proj), nil)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent changes, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
		entries, err := svc.Activity.GetRecentActivity(ctx, getTenantID(ctx), activity.ListActivityOptions{
			ProjectID: in.ProjectID,
			Limit:     in.Limit,
		})
		if entries == nil {
			entries = []activity.ActivityEntry{}
		}
		return respond(map[string]any{"entries": entries}, err)
	})
}

// respond renders v as JSON text content. Domain errors become tool errors
// carrying an APIError body; anything else is returned as a protocol error.
func respond(v any, err error) (*sdkmcp.CallToolResult, any, error) {
	if err != nil {
		apiErr := MapError(err)
		if apiErr == nil {
			return nil, nil, err
		}
		res, marshalErr := textResult(apiErr)
		if marshalErr != nil {
			return nil, nil, marshalErr
		}
		res.IsError = true
		return res, nil, nil
	}
	res, err := textResult(v)
	if err != nil {
		return nil, nil, err
	}
	return res, nil, nil
}

func textResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func parseDateArg(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, ok := listview.ParseDate(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a date", project.ErrInvalidInput, field, raw)
	}
	return &t, nil
}
