package masterdata

import "errors"

var (
	// ErrNotFound indicates the referenced master-data entry doesn't exist.
	ErrNotFound = errors.New("master data not found")
	// ErrDuplicate indicates an entry with the same name already exists.
	ErrDuplicate = errors.New("master data already exists")
)
