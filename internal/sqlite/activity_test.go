package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ProjectID:    "p1",
		Actor:        "alice",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "created project RND0001",
		CreatedAt:    baseTime,
	}
	entry2 := &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeStageChanged,
		Summary:      "RND0001 moved from Idea to Costing Pending",
		Details:      `{"from":"idea","to":"costing_pending"}`,
		CreatedAt:    baseTime.Add(time.Minute),
	}

	require.NoError(t, repo.Log(ctx, "tenant1", entry1))
	require.NoError(t, repo.Log(ctx, "tenant1", entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeStageChanged, entries[0].ActivityType)
	require.Equal(t, entry2.Details, entries[0].Details)
	require.Equal(t, "alice", entries[1].Actor)
}

func TestActivityRepository_FiltersAndTenantIsolation(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for i, typ := range []activity.ActivityType{
		activity.TypeProjectCreated,
		activity.TypeStageChanged,
		activity.TypeStageChanged,
	} {
		require.NoError(t, repo.Log(ctx, "tenant1", &activity.ActivityEntry{
			ProjectID:    "p1",
			ActivityType: typ,
			Summary:      string(typ),
			CreatedAt:    baseTime.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Log(ctx, "tenant2", &activity.ActivityEntry{
		ProjectID:    "p1",
		ActivityType: activity.TypeProjectCreated,
		Summary:      "other tenant",
		CreatedAt:    baseTime,
	}))

	stageChanged := activity.TypeStageChanged
	entries, err := repo.List(ctx, "tenant1", activity.ListActivityOptions{ActivityType: &stageChanged})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	since := baseTime.Add(90 * time.Minute)
	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Since: &since})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, "tenant1", activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeStageChanged, entries[0].ActivityType)

	entries, err = repo.List(ctx, "tenant2", activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
