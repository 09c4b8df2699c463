package hn

import (
	"errors"
	"fmt"
	"testing"
)

func TestListingFetchError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ListingFetchError
		expected string
	}{
		{
			name: "status error",
			err: &ListingFetchError{
				URL:        "https://example.com/topstories.json",
				StatusCode: 503,
				ErrorClass: ErrorClassServer,
			},
			expected: "top stories server error (status 503): https://example.com/topstories.json",
		},
		{
			name: "wrapped error",
			err: &ListingFetchError{
				ErrorClass: ErrorClassNetwork,
				Err:        errors.New("connection refused"),
			},
			expected: "top stories network error: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestItemFetchError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ItemFetchError
		expected string
	}{
		{
			name:     "status error",
			err:      &ItemFetchError{ID: 3, StatusCode: 404, ErrorClass: ErrorClassClient},
			expected: "item 3 client error (status 404)",
		},
		{
			name:     "type error",
			err:      &ItemFetchError{ID: 5, ErrorClass: ErrorClassType, Err: fmt.Errorf("type %q", "comment")},
			expected: `item 5 type error: type "comment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrors_Is(t *testing.T) {
	cause := errors.New("wrapped error")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"listing matches sentinel", &ListingFetchError{Err: cause}, ErrListingFetch, true},
		{"listing matches cause", &ListingFetchError{Err: cause}, cause, true},
		{"listing without cause", &ListingFetchError{StatusCode: 500}, ErrListingFetch, true},
		{"item matches item sentinel", &ItemFetchError{ErrorClass: ErrorClassServer}, ErrItemFetch, true},
		{"item type matches not story", &ItemFetchError{ErrorClass: ErrorClassType}, ErrNotStory, true},
		{"item type is not a fetch failure", &ItemFetchError{ErrorClass: ErrorClassType}, ErrItemFetch, false},
		{"item matches cause", &ItemFetchError{ErrorClass: ErrorClassDecode, Err: ErrEmptyPayload}, ErrEmptyPayload, true},
		{"wrapped listing", fmt.Errorf("load: %w", &ListingFetchError{}), ErrListingFetch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"listing", &ListingFetchError{ErrorClass: ErrorClassDecode}, ErrorClassDecode},
		{"item", &ItemFetchError{ErrorClass: ErrorClassType}, ErrorClassType},
		{"wrapped item", fmt.Errorf("x: %w", &ItemFetchError{ErrorClass: ErrorClassNetwork}), ErrorClassNetwork},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Class(tt.err); got != tt.want {
				t.Errorf("Class() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   ErrorClass
	}{
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{429, ErrorClassClient},
		{500, ErrorClassServer},
		{503, ErrorClassServer},
		{304, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			if got := classifyStatus(tt.statusCode); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.statusCode, got, tt.expected)
			}
		})
	}
}
