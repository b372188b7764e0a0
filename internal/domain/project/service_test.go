package project_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/repository"
	"github.com/rpggio/sealboard/internal/repository/mocks"
	"github.com/rpggio/sealboard/internal/validation"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tenantID = "tenant1"

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	acts := &mocks.ActivityRepository{}

	repo.On("NextSequence", ctx, tenantID, "project_code").Return(int64(7), nil)
	repo.On("Create", ctx, tenantID, mock.AnythingOfType("*project.Project")).Return(nil)
	acts.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		return e.ActivityType == activity.TypeProjectCreated && e.Actor == "alice"
	})).Return(nil)

	svc := project.NewService(repo, acts, nil, nil)
	proj, err := svc.Create(ctx, tenantID, project.CreateRequest{
		Name:        "  Pocket Tin  ",
		CompanyName: "Acme",
		Priority:    project.PriorityHigh,
		Actor:       "alice",
	})
	require.NoError(t, err)
	require.Equal(t, "RND0007", proj.Code)
	require.Equal(t, "Pocket Tin", proj.Name)
	require.Equal(t, project.StageIdea, proj.Stage)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, tenantID, proj.TenantID)
	repo.AssertExpectations(t)
	acts.AssertExpectations(t)
}

func TestProjectService_CreateValidation(t *testing.T) {
	svc := project.NewService(&mocks.ProjectRepository{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), tenantID, project.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, validation.ErrInvalid)
	require.Equal(t, "name", validation.Fields(err)[0].Field)

	_, err = svc.Create(context.Background(), tenantID, project.CreateRequest{Name: "x", Priority: "urgent"})
	require.ErrorIs(t, err, validation.ErrInvalid)

	_, err = svc.Create(context.Background(), tenantID, project.CreateRequest{Name: "x", Stage: "shipped"})
	require.ErrorIs(t, err, project.ErrInvalidStage)
}

func TestProjectService_CreateResolvesMasterData(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	lookups := &mocks.MasterDataRepository{}

	lookups.On("GetBrand", ctx, tenantID, "b1").Return(&masterdata.Brand{ID: "b1", CompanyID: "c1", Name: "Sparkle"}, nil)
	lookups.On("GetCompany", ctx, tenantID, "c1").Return(&masterdata.Company{ID: "c1", Name: "Acme", Country: "India"}, nil)
	lookups.On("GetCategory", ctx, tenantID, "cat1").Return(&masterdata.Category{ID: "cat1", Name: "Tins"}, nil)
	repo.On("NextSequence", ctx, tenantID, "project_code").Return(int64(1), nil)
	repo.On("Create", ctx, tenantID, mock.AnythingOfType("*project.Project")).Return(nil)

	svc := project.NewService(repo, nil, lookups, nil)
	proj, err := svc.Create(ctx, tenantID, project.CreateRequest{Name: "Gift box", BrandID: "b1", CategoryID: "cat1"})
	require.NoError(t, err)
	require.Equal(t, "Acme", proj.CompanyName)
	require.Equal(t, "Sparkle", proj.BrandName)
	require.Equal(t, "Tins", proj.CategoryName)
	require.Equal(t, "India", proj.Country)
}

func TestProjectService_CreateUnknownReference(t *testing.T) {
	ctx := context.Background()
	lookups := &mocks.MasterDataRepository{}
	lookups.On("GetCompany", ctx, tenantID, "nope").Return(nil, repository.ErrNotFound)

	svc := project.NewService(&mocks.ProjectRepository{}, nil, lookups, nil)
	_, err := svc.Create(ctx, tenantID, project.CreateRequest{Name: "x", CompanyID: "nope"})
	require.ErrorIs(t, err, project.ErrUnknownReference)

	svc = project.NewService(&mocks.ProjectRepository{}, nil, nil, nil)
	_, err = svc.Create(ctx, tenantID, project.CreateRequest{Name: "x", CompanyID: "c1"})
	require.ErrorIs(t, err, project.ErrUnknownReference)
}

func TestProjectService_CreateBrandCompanyMismatch(t *testing.T) {
	ctx := context.Background()
	lookups := &mocks.MasterDataRepository{}
	lookups.On("GetBrand", ctx, tenantID, "b1").Return(&masterdata.Brand{ID: "b1", CompanyID: "c2", Name: "Sparkle"}, nil)

	svc := project.NewService(&mocks.ProjectRepository{}, nil, lookups, nil)
	_, err := svc.Create(ctx, tenantID, project.CreateRequest{Name: "x", CompanyID: "c1", BrandID: "b1"})
	require.ErrorIs(t, err, validation.ErrInvalid)
	require.Equal(t, "brand_id", validation.Fields(err)[0].Field)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, tenantID, "missing").Return(nil, repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil, nil)
	_, err := svc.Get(ctx, tenantID, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	acts := &mocks.ActivityRepository{}

	current := &project.Project{ID: "p1", Code: "RND0001", Name: "Old", Country: "India", Stage: project.StagePrototype}
	repo.On("Get", ctx, tenantID, "p1").Return(current, nil)
	repo.On("Update", ctx, tenantID, mock.MatchedBy(func(p *project.Project) bool {
		return p.Name == "New" && p.Country == "India" && p.Priority == project.PriorityLow
	})).Return(nil)
	acts.On("Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
		var details map[string]any
		_ = json.Unmarshal([]byte(e.Details), &details)
		return e.ActivityType == activity.TypeProjectUpdated && details["name"] == "New"
	})).Return(nil)

	name := " New "
	priority := project.PriorityLow
	svc := project.NewService(repo, acts, nil, nil)
	updated, err := svc.Update(ctx, tenantID, project.UpdateRequest{ID: "p1", Name: &name, Priority: &priority})
	require.NoError(t, err)
	require.Equal(t, "New", updated.Name)
	require.Equal(t, "Old", current.Name)
	repo.AssertExpectations(t)
	acts.AssertExpectations(t)
}

func TestProjectService_UpdateNoChanges(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	current := &project.Project{ID: "p1", Name: "Same"}
	repo.On("Get", ctx, tenantID, "p1").Return(current, nil)

	name := "Same"
	svc := project.NewService(repo, nil, nil, nil)
	got, err := svc.Update(ctx, tenantID, project.UpdateRequest{ID: "p1", Name: &name})
	require.NoError(t, err)
	require.Same(t, current, got)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_UpdateBlankName(t *testing.T) {
	repo := &mocks.ProjectRepository{}
	svc := project.NewService(repo, nil, nil, nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := svc.Update(context.Background(), tenantID, project.UpdateRequest{ID: "p1", Name: &name})
		require.ErrorIs(t, err, validation.ErrInvalid)
		require.Equal(t, "name", validation.Fields(err)[0].Field)
	}
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_Transition(t *testing.T) {
	ctx := context.Background()
	target := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    project.Stage
		to      project.Stage
		reason  string
		wantErr error
	}{
		{name: "forward one", from: project.StagePrototype, to: project.StageRedSeal},
		{name: "skip ahead", from: project.StageIdea, to: project.StageRedSeal, wantErr: project.ErrInvalidTransition},
		{name: "back without reason", from: project.StageGreenSeal, to: project.StageRedSeal, wantErr: project.ErrMissingReason},
		{name: "back with reason", from: project.StageGreenSeal, to: project.StagePrototype, reason: "seal rejected"},
		{name: "terminal", from: project.StagePOIssued, to: project.StageIdea, reason: "reopen", wantErr: project.ErrInvalidTransition},
		{name: "same stage", from: project.StageRedSeal, to: project.StageRedSeal, wantErr: project.ErrInvalidTransition},
		{name: "unknown target", from: project.StageIdea, to: "done", wantErr: project.ErrInvalidStage},
		{name: "unknown source", from: "legacy", to: project.StageGreenSeal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.ProjectRepository{}
			acts := &mocks.ActivityRepository{}
			repo.On("Get", ctx, tenantID, "p1").Return(&project.Project{ID: "p1", Code: "RND0001", Stage: tt.from}, nil)
			repo.On("Update", ctx, tenantID, mock.AnythingOfType("*project.Project")).Return(nil)
			acts.On("Log", ctx, tenantID, mock.AnythingOfType("*activity.ActivityEntry")).Return(nil)

			svc := project.NewService(repo, acts, nil, nil)
			got, err := svc.Transition(ctx, tenantID, project.TransitionRequest{
				ID: "p1", ToStage: tt.to, Reason: tt.reason, TargetDate: &target,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.to, got.Stage)
			require.Equal(t, &target, got.TargetDate)
			acts.AssertCalled(t, "Log", ctx, tenantID, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
				return e.ActivityType == activity.TypeStageChanged
			}))
		})
	}
}

func TestProjectService_ActivityFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	acts := &mocks.ActivityRepository{}
	repo.On("Get", ctx, tenantID, "p1").Return(&project.Project{ID: "p1", Code: "RND0001"}, nil)
	repo.On("Delete", ctx, tenantID, "p1").Return(nil)
	acts.On("Log", ctx, tenantID, mock.Anything).Return(errors.New("log table locked"))

	svc := project.NewService(repo, acts, nil, nil)
	require.NoError(t, svc.Delete(ctx, tenantID, "p1", "bob"))
}

func TestProjectService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, tenantID, "p1").Return(nil, repository.ErrNotFound)

	svc := project.NewService(repo, nil, nil, nil)
	require.ErrorIs(t, svc.Delete(ctx, tenantID, "p1", ""), project.ErrProjectNotFound)
}

func TestProjectService_Import(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}

	repo.On("NextSequence", ctx, tenantID, "project_code").Return(int64(12), nil).Once()
	repo.On("Upsert", ctx, tenantID, mock.MatchedBy(func(p *project.Project) bool { return p.ID == "ext-1" })).Return(true, nil)
	repo.On("Upsert", ctx, tenantID, mock.MatchedBy(func(p *project.Project) bool { return p.ID == "ext-2" })).Return(false, nil)

	svc := project.NewService(repo, nil, nil, nil)
	res, err := svc.Import(ctx, tenantID, []project.Project{
		{ID: "ext-1", Name: "Tin", Stage: project.StageRedSeal},
		{ID: "ext-2", Code: "RND0002", Name: "Box", Stage: "archived"},
		{ID: "ext-3", Name: "  "},
	}, "sync")
	require.NoError(t, err)
	require.Equal(t, project.ImportResult{Created: 1, Updated: 1, Skipped: 1}, res)
	repo.AssertExpectations(t)
}

func TestProjectService_ImportError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProjectRepository{}
	repo.On("Upsert", ctx, tenantID, mock.Anything).Return(false, errors.New("constraint"))

	svc := project.NewService(repo, nil, nil, nil)
	_, err := svc.Import(ctx, tenantID, []project.Project{{ID: "x", Code: "RND0001", Name: "Tin"}}, "")
	require.ErrorContains(t, err, "constraint")
}
