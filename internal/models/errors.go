package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("candidate not found")
	ErrPortfolioUnavailable = errors.New("portfolio unavailable")
	ErrInvalidProbability   = errors.New("probability must be between 0 and 1")
	ErrInvariantViolation   = errors.New("candidate set probabilities do not sum to 1")
)
