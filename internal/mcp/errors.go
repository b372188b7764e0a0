package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
	"github.com/rpggio/sealboard/internal/validation"
)

// APIError is the structured error body of a failed tool call.
type APIError struct {
	Code         string                       `json:"code"`
	Message      string                       `json:"message"`
	Details      []validation.ValidationError `json:"details,omitempty"`
	RecoveryHint string                       `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. It returns nil for
// errors that have no client-facing meaning.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	if fields := validation.Fields(err); len(fields) > 0 {
		return &APIError{Code: "VALIDATION_FAILED", Message: "invalid arguments", Details: fields}
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Use list_projects to find the ID"}
	case errors.Is(err, project.ErrInvalidStage):
		return &APIError{Code: "INVALID_STAGE", Message: "unknown stage", RecoveryHint: "Read sealboard://docs/stages for valid stage names"}
	case errors.Is(err, project.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "stage transition not allowed", RecoveryHint: "Move forward one stage at a time"}
	case errors.Is(err, project.ErrMissingReason):
		return &APIError{Code: "REASON_REQUIRED", Message: "moving a project backward requires a reason", RecoveryHint: "Retry with a reason"}
	case errors.Is(err, project.ErrUnknownReference):
		return &APIError{Code: "UNKNOWN_REFERENCE", Message: "referenced company, brand or category does not exist"}
	case errors.Is(err, listview.ErrInvalidPageSize), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "missing or invalid API key"}
	default:
		return nil
	}
}
