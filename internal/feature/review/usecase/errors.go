// Package usecase implements the business logic for the review feature.
package usecase

import "errors"

var (
	// ErrReviewItemNotFound is returned when a review item cannot be found by ID.
	ErrReviewItemNotFound = errors.New("review item not found")

	// ErrReviewItemTerminal is returned when attempting to decide an item that
	// has already been approved or rejected. Terminal items are immutable.
	ErrReviewItemTerminal = errors.New("review item already decided")
)
