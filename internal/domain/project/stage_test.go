package project_test

import (
	"testing"

	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestParseStage(t *testing.T) {
	s, err := project.ParseStage(" red_seal ")
	require.NoError(t, err)
	require.Equal(t, project.StageRedSeal, s)

	_, err = project.ParseStage("Red_Seal")
	require.ErrorIs(t, err, project.ErrInvalidStage)
}

func TestStage_Next(t *testing.T) {
	next, ok := project.StageRedSeal.Next()
	require.True(t, ok)
	require.Equal(t, project.StageGreenSeal, next)

	_, ok = project.StagePOIssued.Next()
	require.False(t, ok)
	_, ok = project.Stage("legacy").Next()
	require.False(t, ok)
}

func TestStageNames(t *testing.T) {
	names := project.StageNames()
	require.Len(t, names, 8)
	require.Equal(t, "idea", names[0])
	require.Equal(t, "po_issued", names[7])
}
