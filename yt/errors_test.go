package yt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type CategorizeTestCase struct {
	input    error
	expected ErrorCategory
}

func TestCategorize(t *testing.T) {
	tests := []CategorizeTestCase{
		{nil, CategoryGeneric},
		{errors.New("login required to confirm your age"), CategoryAuthRequired},
		{errors.New("this video is age restricted"), CategoryAuthRequired},
		{errors.New("status 401 from server"), CategoryAuthRequired},
		// "message" and "storage" contain "age" but are not sign-in walls.
		{errors.New("failed to decode player response message"), CategoryGeneric},
		{errors.New("error reading from storage"), CategoryGeneric},
		{errors.New("this video is private"), CategoryUnavailable},
		{errors.New("video unavailable"), CategoryUnavailable},
		{errors.New("no matching format found"), CategoryFormatUnavailable},
		{errors.New("cipher not found"), CategoryFormatUnavailable},
		{errors.New("request timed out"), CategoryTimeout},
		{context.DeadlineExceeded, CategoryTimeout},
		{errors.New("something else entirely"), CategoryGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Categorize(tt.input))
	}
}

func TestCategorize_SurvivesWrapping(t *testing.T) {
	inner := &CategorizedError{Category: CategoryUnavailable, Err: errors.New("gone")}
	wrapped := fmt.Errorf("acquiring stream: %w", fmt.Errorf("strategy chain: %w", inner))

	assert.Equal(t, CategoryUnavailable, Categorize(wrapped))
}

func TestCategorizedError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &CategorizedError{Category: CategoryTimeout, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "request timed out")
}

func TestErrorCategory_Retryable(t *testing.T) {
	assert.True(t, CategoryGeneric.Retryable())
	assert.True(t, CategoryTimeout.Retryable())
	assert.True(t, CategoryFormatUnavailable.Retryable())
	assert.False(t, CategoryAuthRequired.Retryable())
	assert.False(t, CategoryUnavailable.Retryable())
}

func TestErrorCategory_UserMessage(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range []ErrorCategory{
		CategoryGeneric,
		CategoryAuthRequired,
		CategoryUnavailable,
		CategoryFormatUnavailable,
		CategoryTimeout,
	} {
		msg := c.UserMessage()
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "categories must map to distinct messages")
		seen[msg] = true
	}
}
