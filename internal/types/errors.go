package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout         = errors.New("request timed out")
	ErrNoReviews       = errors.New("no reviews to analyze")
	ErrProductNotFound = errors.New("could not scrape product details")
	ErrMalformedRating = errors.New("rating is not numeric")
	ErrInvalidURL      = errors.New("invalid URL")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserExists      = errors.New("username already exists")
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrNotInitialized  = errors.New("model client not initialized")
)

// FetchError wraps errors that occur while scraping the product page
// or the review source.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ModelError wraps classifier/summarizer failures. Task identifies
// which model call failed ("classify" or "summarize").
type ModelError struct {
	Task string
	Err  error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error (%s): %v", e.Task, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// StorageError wraps errors from the persistence backend.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
