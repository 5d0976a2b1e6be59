// Package server provides the HTTP REST API for the talent-match scorer.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/talent-match/internal/parsing"
	"github.com/jonathan/talent-match/internal/ranking"
)

// ErrCandidateNotFound indicates the candidate does not exist in the talent pool
type ErrCandidateNotFound struct {
	CandidateID string
}

func (e *ErrCandidateNotFound) Error() string {
	return fmt.Sprintf("candidate not found: %s", e.CandidateID)
}

// ErrUnavailable indicates an optional backend (database, export bucket) is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrCandidateNotFound
		unavailable *ErrUnavailable
		reqErr      *ErrValidation
		scoreErr    *ranking.ValidationError
		boundaryErr *parsing.ValidationError
		parseErr    *parsing.ParseError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &reqErr), errors.As(err, &scoreErr), errors.As(err, &boundaryErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
