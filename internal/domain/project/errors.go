package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidStage indicates a stage value outside the pipeline.
	ErrInvalidStage = errors.New("invalid stage")
	// ErrInvalidTransition indicates a stage move the pipeline does not allow.
	ErrInvalidTransition = errors.New("invalid stage transition")
	// ErrMissingReason indicates a backward move without a reason.
	ErrMissingReason = errors.New("reason required for stage rollback")
	// ErrUnknownReference indicates a company, brand or category ID that doesn't resolve.
	ErrUnknownReference = errors.New("unknown master data reference")
)
