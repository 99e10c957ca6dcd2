package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration or model parameter is unusable
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrArtifactsUnavailable indicates one or more required artifacts are missing or unreadable
	ErrArtifactsUnavailable = errors.New("artifacts unavailable")

	// ErrCorpusUnavailable indicates the movie corpus could not be read
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrPreprocessInProgress indicates another preprocessing run holds the lock
	ErrPreprocessInProgress = errors.New("preprocessing already in progress")

	// ErrLockNotHeld indicates a lock operation by an instance that does not hold the lock
	ErrLockNotHeld = errors.New("lock not held")

	// ErrFeatureDisabled indicates the requested feature is turned off
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrServiceUnavailable indicates an external service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
