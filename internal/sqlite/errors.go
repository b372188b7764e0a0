package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/sealboard/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// mapWriteError translates constraint failures into repository errors.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, repository.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, repository.ErrForeignKeyViolation)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
