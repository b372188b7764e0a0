package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_LogAndList(t *testing.T) {
	ctx := context.Background()
	tenantID := "tenant1"

	repo := &mocks.ActivityRepository{}
	entry := &activity.ActivityEntry{
		ProjectID:    "proj1",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created",
	}

	repo.On("Log", ctx, tenantID, entry).Return(nil)
	repo.On("List", ctx, tenantID, activity.ListActivityOptions{ProjectID: "proj1", Limit: activity.DefaultLimit}).Return([]activity.ActivityEntry{*entry}, nil)

	svc := activity.NewService(repo, nil)
	require.NoError(t, svc.LogActivity(ctx, tenantID, entry))
	require.False(t, entry.CreatedAt.IsZero())

	entries, err := svc.GetRecentActivity(ctx, tenantID, activity.ListActivityOptions{ProjectID: "proj1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	repo.AssertExpectations(t)
}

func TestActivityService_LogRejectsEmpty(t *testing.T) {
	svc := activity.NewService(&mocks.ActivityRepository{}, nil)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", nil), activity.ErrInvalidInput)
	require.ErrorIs(t, svc.LogActivity(context.Background(), "tenant1", &activity.ActivityEntry{}), activity.ErrInvalidInput)
}

func TestActivityService_ListError(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ActivityRepository{}
	repo.On("List", ctx, "tenant1", mock.Anything).Return(nil, errors.New("disk gone"))

	svc := activity.NewService(repo, nil)
	_, err := svc.GetRecentActivity(ctx, "tenant1", activity.ListActivityOptions{Limit: 5})
	require.ErrorContains(t, err, "disk gone")
}
