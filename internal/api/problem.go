package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
	"github.com/rpggio/sealboard/internal/validation"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// ProblemWithErrors extends Problem with validation error details.
type ProblemWithErrors struct {
	Problem
	Errors []validation.ValidationError `json:"errors,omitempty"`
}

const problemBase = "https://sealboard.dev/errors/"

var problemTypes = map[int]struct {
	slug  string
	title string
}{
	http.StatusBadRequest:          {"bad-request", "Bad Request"},
	http.StatusUnauthorized:        {"unauthorized", "Unauthorized"},
	http.StatusForbidden:           {"forbidden", "Forbidden"},
	http.StatusNotFound:            {"not-found", "Not Found"},
	http.StatusConflict:            {"conflict", "Conflict"},
	http.StatusUnprocessableEntity: {"validation-error", "Validation Error"},
	http.StatusInternalServerError: {"internal-error", "Internal Server Error"},
}

func newProblem(r *http.Request, status int, detail string) Problem {
	pt, ok := problemTypes[status]
	if !ok {
		pt.slug, pt.title = "unknown", http.StatusText(status)
	}
	return Problem{
		Type:     problemBase + pt.slug,
		Title:    pt.title,
		Status:   status,
		Detail:   detail,
		Instance: r.URL.Path,
	}
}

// WriteProblem writes an RFC 7807 Problem Details response.
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblemBody(w, status, newProblem(r, status, detail))
}

// WriteProblemWithErrors writes a 422 Problem Details response with field errors.
func WriteProblemWithErrors(w http.ResponseWriter, r *http.Request, detail string, errs []validation.ValidationError) {
	writeProblemBody(w, http.StatusUnprocessableEntity, ProblemWithErrors{
		Problem: newProblem(r, http.StatusUnprocessableEntity, detail),
		Errors:  errs,
	})
}

func writeProblemBody(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode problem response", "error", err)
	}
}

// MapError converts domain errors to Problem Details responses.
func MapError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if fields := validation.Fields(err); len(fields) > 0 {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", fields)
		return
	}

	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, masterdata.ErrNotFound):
		WriteProblem(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, project.ErrInvalidTransition), errors.Is(err, masterdata.ErrDuplicate):
		WriteProblem(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, project.ErrMissingReason):
		WriteProblemWithErrors(w, r, err.Error(), []validation.ValidationError{{Field: "reason", Message: "is required when moving to an earlier stage"}})
	case errors.Is(err, project.ErrInvalidStage),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, project.ErrUnknownReference),
		errors.Is(err, listview.ErrInvalidPageSize):
		WriteProblem(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request failed", "path", r.URL.Path, "method", r.Method, "error", err)
		WriteProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
