package yt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when resolution exhausts every strategy or a
	// search returns zero results.
	ErrNotFound = errors.New("no playable track found")
)

// ErrorCategory classifies why a track could not be resolved or streamed.
// The category is kept across wrapping so the command layer can produce an
// accurate user-facing message.
type ErrorCategory int

const (
	CategoryGeneric ErrorCategory = iota
	CategoryAuthRequired
	CategoryUnavailable
	CategoryFormatUnavailable
	CategoryTimeout
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryAuthRequired:
		return "authentication required"
	case CategoryUnavailable:
		return "unavailable"
	case CategoryFormatUnavailable:
		return "no playable format"
	case CategoryTimeout:
		return "request timed out"
	default:
		return "generic"
	}
}

// UserMessage returns the short cause shown in chat when a track fails.
func (c ErrorCategory) UserMessage() string {
	switch c {
	case CategoryAuthRequired:
		return "this video requires sign-in and can't be played"
	case CategoryUnavailable:
		return "the video is private or has been removed"
	case CategoryFormatUnavailable:
		return "no playable audio format was found"
	case CategoryTimeout:
		return "the stream timed out"
	default:
		return "an unexpected playback error occurred"
	}
}

// Retryable reports whether another attempt at the same track can succeed.
// Sign-in walls and removed videos never recover on retry.
func (c ErrorCategory) Retryable() bool {
	return c != CategoryAuthRequired && c != CategoryUnavailable
}

// CategorizedError pairs a provider error with its classification.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e *CategorizedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// Categorize maps an arbitrary provider error onto an ErrorCategory. The
// upstream libraries surface most failures as formatted strings, so this
// falls back to substring heuristics after unwrapping.
func Categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryGeneric
	}

	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "login required"),
		strings.Contains(msg, "sign in"),
		strings.Contains(msg, "age restricted"),
		strings.Contains(msg, "age-restricted"),
		strings.Contains(msg, "401"):
		return CategoryAuthRequired
	case strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "private"),
		strings.Contains(msg, "removed"),
		strings.Contains(msg, "404"):
		return CategoryUnavailable
	case strings.Contains(msg, "format"),
		strings.Contains(msg, "cipher"),
		strings.Contains(msg, "itag"):
		return CategoryFormatUnavailable
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline"):
		return CategoryTimeout
	default:
		return CategoryGeneric
	}
}
