package listview

import "errors"

// ErrInvalidPageSize is returned when a caller asks for a negative page size.
var ErrInvalidPageSize = errors.New("invalid page size")

// DefaultPageSize is the number of rows per page when a query leaves it unset.
const DefaultPageSize = 8

// Query is one request against a list view.
type Query struct {
	Search   string
	Stage    string // empty means every stage
	Criteria Criteria
	Page     int
	PageSize int
}

// Options bind the pipeline to a record type.
type Options[T any] struct {
	SearchFields    []Field[T]
	StageOf         StageOf[T]
	Attribute       Attribute[T]
	DefaultPageSize int
	MaxPageSize     int
	WindowSiblings  int
}

// Result is the page of records plus the pagination state to render it.
type Result[T any] struct {
	Items          []T        `json:"items"`
	Page           int        `json:"page"`
	PageSize       int        `json:"page_size"`
	TotalItems     int        `json:"total_items"`
	TotalPages     int        `json:"total_pages"`
	Window         []PageItem `json:"window,omitempty"`
	ShowPagination bool       `json:"show_pagination"`
	ActiveFilters  int        `json:"active_filters"`
	Stage          string     `json:"stage,omitempty"`
	Search         string     `json:"search,omitempty"`
}

// Build runs search, criteria and stage filtering over records, then slices
// the requested page. The page is clamped into range.
func Build[T any](records []T, q Query, opts Options[T]) (Result[T], error) {
	pageSize, err := resolvePageSize(q.PageSize, opts)
	if err != nil {
		return Result[T]{}, err
	}

	filtered := FilterBySearch(records, q.Search, opts.SearchFields...)
	filtered = FilterByCriteria(filtered, q.Criteria, opts.Attribute)
	if q.Stage != "" && opts.StageOf != nil {
		filtered = FilterByStage(filtered, q.Stage, opts.StageOf)
	}

	total := len(filtered)
	totalPages := TotalPages(total, pageSize)
	page := ClampPage(q.Page, totalPages)

	siblings := opts.WindowSiblings
	if siblings <= 0 {
		siblings = DefaultWindowSiblings
	}

	return Result[T]{
		Items:          Paginate(filtered, page, pageSize),
		Page:           page,
		PageSize:       pageSize,
		TotalItems:     total,
		TotalPages:     totalPages,
		Window:         PageWindowWithSiblings(page, totalPages, siblings),
		ShowPagination: totalPages > 1,
		ActiveFilters:  q.Criteria.ActiveCount(),
		Stage:          q.Stage,
		Search:         q.Search,
	}, nil
}

func resolvePageSize[T any](requested int, opts Options[T]) (int, error) {
	if requested < 0 {
		return 0, ErrInvalidPageSize
	}
	size := requested
	if size == 0 {
		size = opts.DefaultPageSize
		if size <= 0 {
			size = DefaultPageSize
		}
	}
	if opts.MaxPageSize > 0 && size > opts.MaxPageSize {
		size = opts.MaxPageSize
	}
	return size, nil
}

// Map converts the items of a result, keeping the pagination state.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	items := make([]U, len(r.Items))
	for i, item := range r.Items {
		items[i] = fn(item)
	}
	return Result[U]{
		Items:          items,
		Page:           r.Page,
		PageSize:       r.PageSize,
		TotalItems:     r.TotalItems,
		TotalPages:     r.TotalPages,
		Window:         r.Window,
		ShowPagination: r.ShowPagination,
		ActiveFilters:  r.ActiveFilters,
		Stage:          r.Stage,
		Search:         r.Search,
	}
}
