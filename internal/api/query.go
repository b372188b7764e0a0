package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpggio/sealboard/internal/listview"
	"github.com/rpggio/sealboard/internal/validation"
)

// ParseViewQuery reads a board query from URL parameters. Filter parameters
// that are empty or "all" are ignored.
func ParseViewQuery(values url.Values) (listview.Query, error) {
	q := listview.Query{
		Search:   values.Get("q"),
		Stage:    strings.TrimSpace(values.Get("stage")),
		Criteria: ParseCriteria(values),
	}

	var errs []validation.ValidationError
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, validation.ValidationError{Field: "page", Message: "must be an integer"})
		}
		q.Page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			errs = append(errs, validation.ValidationError{Field: "page_size", Message: "must be a positive integer"})
		}
		q.PageSize = size
	}
	if len(errs) > 0 {
		return listview.Query{}, fmt.Errorf("parse query: %w", validation.New(errs...))
	}
	return q, nil
}

// ParseCriteria extracts the filter parameters.
func ParseCriteria(values url.Values) listview.Criteria {
	c := listview.Criteria{}
	for _, key := range listview.FilterKeys {
		c.Set(key, values.Get(string(key)))
	}
	return c
}
