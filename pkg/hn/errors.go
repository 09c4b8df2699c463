package hn

import (
	"errors"
	"fmt"
)

// ErrorClass represents a classification of fetch errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx and other non-2xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents malformed or empty payloads.
	ErrorClassDecode ErrorClass = "decode"

	// ErrorClassType represents items that are not stories.
	ErrorClassType ErrorClass = "type"
)

var (
	// ErrListingFetch is wrapped by every ListingFetchError.
	ErrListingFetch = errors.New("listing fetch failed")

	// ErrItemFetch is wrapped by ItemFetchErrors caused by transport or payload problems.
	ErrItemFetch = errors.New("item fetch failed")

	// ErrNotStory is wrapped by ItemFetchErrors for items whose type is not "story".
	ErrNotStory = errors.New("item is not a story")

	// ErrEmptyPayload is returned when the API answers with a JSON null.
	ErrEmptyPayload = errors.New("empty payload")
)

// ListingFetchError is a total failure to obtain the top story ids.
type ListingFetchError struct {
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *ListingFetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("top stories %s error (status %d): %s", e.ErrorClass, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("top stories %s error: %v", e.ErrorClass, e.Err)
}

// Unwrap lets errors.Is match both ErrListingFetch and the cause.
func (e *ListingFetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrListingFetch}
	}
	return []error{ErrListingFetch, e.Err}
}

// ItemFetchError is a failure to fetch or accept a single item. It never
// leaves the loader; the item is dropped instead.
type ItemFetchError struct {
	ID         StoryID
	StatusCode int
	ErrorClass ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *ItemFetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("item %d %s error (status %d)", e.ID, e.ErrorClass, e.StatusCode)
	}
	return fmt.Sprintf("item %d %s error: %v", e.ID, e.ErrorClass, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ItemFetchError) Unwrap() []error {
	sentinel := ErrItemFetch
	if e.ErrorClass == ErrorClassType {
		sentinel = ErrNotStory
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// Class returns the error class of err, or "" when err carries none.
func Class(err error) ErrorClass {
	var listingErr *ListingFetchError
	if errors.As(err, &listingErr) {
		return listingErr.ErrorClass
	}
	var itemErr *ItemFetchError
	if errors.As(err, &itemErr) {
		return itemErr.ErrorClass
	}
	return ""
}

// classifyStatus maps a non-2xx status code to an error class.
func classifyStatus(statusCode int) ErrorClass {
	if statusCode >= 400 && statusCode < 500 {
		return ErrorClassClient
	}
	return ErrorClassServer
}
