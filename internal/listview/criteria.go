package listview

import (
	"sort"
	"strings"
)

// FilterKey names a dropdown filter on the project boards.
type FilterKey string

const (
	FilterCountry  FilterKey = "country"
	FilterPriority FilterKey = "priority"
	FilterCompany  FilterKey = "company"
	FilterBrand    FilterKey = "brand"
	FilterCategory FilterKey = "category"
	FilterType     FilterKey = "type"
)

// AllValue is the dropdown value meaning "no constraint".
const AllValue = "all"

// FilterKeys lists every supported filter in display order.
var FilterKeys = []FilterKey{
	FilterCountry,
	FilterPriority,
	FilterCompany,
	FilterBrand,
	FilterCategory,
	FilterType,
}

// Criteria maps a filter key to its selected value. A key is present only
// while its filter is active, so len(c) is the active filter count.
type Criteria map[FilterKey]string

// Set selects value for key. An empty value or "all" clears the key.
func (c Criteria) Set(key FilterKey, value string) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, AllValue) {
		delete(c, key)
		return
	}
	c[key] = value
}

// Clear removes the constraint on key.
func (c Criteria) Clear(key FilterKey) {
	delete(c, key)
}

// ActiveCount returns the number of active filters.
func (c Criteria) ActiveCount() int {
	return len(c)
}

// Keys returns the active filter keys, sorted.
func (c Criteria) Keys() []FilterKey {
	keys := make([]FilterKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Clone returns an independent copy.
func (c Criteria) Clone() Criteria {
	out := make(Criteria, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// CriteriaFrom builds Criteria from raw key/value pairs, dropping unknown keys
// and inactive values.
func CriteriaFrom(values map[string]string) Criteria {
	c := Criteria{}
	for _, key := range FilterKeys {
		if v, ok := values[string(key)]; ok {
			c.Set(key, v)
		}
	}
	return c
}

// Attribute extracts the value a record holds for a filter key.
type Attribute[T any] func(rec T, key FilterKey) string

// Matches reports whether rec satisfies every active constraint. Values
// compare case-insensitively after trimming.
func Matches[T any](rec T, c Criteria, attr Attribute[T]) bool {
	for key, want := range c {
		got := strings.TrimSpace(attr(rec, key))
		if !strings.EqualFold(got, want) {
			return false
		}
	}
	return true
}

// FilterByCriteria keeps the records matching every active constraint. With
// no active constraints records is returned unchanged.
func FilterByCriteria[T any](records []T, c Criteria, attr Attribute[T]) []T {
	if len(c) == 0 || attr == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if Matches(rec, c, attr) {
			out = append(out, rec)
		}
	}
	return out
}
