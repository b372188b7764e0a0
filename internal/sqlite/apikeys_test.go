package sqlite

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIKeyRepository_CreateResolve(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)
	ctx := context.Background()

	token, err := repo.CreateKey(ctx, "tenant1", "cli")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(token, "sb_"))

	var stored string
	require.NoError(t, db.QueryRow(`SELECT key_hash FROM api_keys`).Scan(&stored))
	require.Equal(t, HashToken(token), stored)
	require.NotContains(t, stored, token)

	tenantID, err := repo.ResolveTenant(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "tenant1", tenantID)

	var touched int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM api_keys WHERE last_used IS NOT NULL`).Scan(&touched))
	require.Equal(t, 1, touched)
}

func TestAPIKeyRepository_Invalid(t *testing.T) {
	db := NewTestDB(t)
	repo := NewAPIKeyRepository(db)

	_, err := repo.ResolveTenant(context.Background(), "sb_nope")
	require.ErrorIs(t, err, ErrInvalidAPIKey)

	_, err = repo.CreateKey(context.Background(), " ", "")
	require.Error(t, err)
}
