package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFS_ContainsGooseMigrations(t *testing.T) {
	entries, err := fs.ReadDir(FS, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		data, err := FS.ReadFile(e.Name())
		require.NoError(t, err)
		require.True(t, strings.Contains(string(data), "-- +goose Up"), "%s lacks an Up section", e.Name())
		require.True(t, strings.Contains(string(data), "-- +goose Down"), "%s lacks a Down section", e.Name())
	}
}
