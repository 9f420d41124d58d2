// Package usecase implements the business logic for the transactions feature.
package usecase

import "errors"

var (
	// ErrDuplicateMessage is returned when a transaction already exists for the
	// source email message-id.
	ErrDuplicateMessage = errors.New("transaction already exists for message-id")

	// ErrNoPortfolioMatch is returned when the candidate's portfolio name cannot
	// be matched to any known portfolio. The caller routes the candidate to
	// manual review instead of guessing.
	ErrNoPortfolioMatch = errors.New("no portfolio matches candidate name")

	// ErrInvalidCandidate is returned when a candidate is missing required
	// trading fields, or carries an option symbol that violates the contract
	// symbol format, and therefore must never be committed.
	ErrInvalidCandidate = errors.New("candidate is missing required trading fields")
)
