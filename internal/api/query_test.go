package api

import (
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/rpggio/sealboard/internal/listview"
	"github.com/rpggio/sealboard/internal/validation"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseViewQuery(t *testing.T) {
	values, err := url.ParseQuery("q=rnd01&stage=red_seal&page=3&page_size=20&country=India&brand=all&company=&type=Formal")
	require.NoError(t, err)

	q, err := ParseViewQuery(values)
	require.NoError(t, err)
	require.Equal(t, "rnd01", q.Search)
	require.Equal(t, "red_seal", q.Stage)
	require.Equal(t, 3, q.Page)
	require.Equal(t, 20, q.PageSize)
	require.Equal(t, listview.Criteria{
		listview.FilterCountry: "India",
		listview.FilterType:    "Formal",
	}, q.Criteria)
}

func TestParseViewQuery_Errors(t *testing.T) {
	values, _ := url.ParseQuery("page=two&page_size=-1")
	_, err := ParseViewQuery(values)
	require.ErrorIs(t, err, validation.ErrInvalid)

	fields := validation.Fields(err)
	require.Len(t, fields, 2)
	require.Equal(t, "page", fields[0].Field)
	require.Equal(t, "page_size", fields[1].Field)
}

func TestParseViewQuery_Defaults(t *testing.T) {
	q, err := ParseViewQuery(url.Values{})
	require.NoError(t, err)
	require.Zero(t, q.Page)
	require.Zero(t, q.PageSize)
	require.Empty(t, q.Criteria)
}
