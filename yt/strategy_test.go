package yt

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/Strum355/log"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.InitSimpleLogger(&log.Config{Output: io.Discard})
	os.Exit(m.Run())
}

func TestRunStrategies_FirstSuccessWins(t *testing.T) {
	attempts := 0
	strategies := []strategy[string]{
		{name: "first", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "", errors.New("nope")
		}},
		{name: "second", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "result", nil
		}},
		{name: "third", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "never reached", nil
		}},
	}

	result, err := runStrategies(context.Background(), "test", 0, strategies)

	assert.NoError(t, err)
	assert.Equal(t, "result", result)
	assert.Equal(t, 2, attempts)
}

func TestRunStrategies_TwoFailuresThenSuccess(t *testing.T) {
	timeout := &CategorizedError{Category: CategoryTimeout, Err: errors.New("silent stream")}
	attempts := 0
	strategies := []strategy[string]{
		{name: "first", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "", timeout
		}},
		{name: "second", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "", timeout
		}},
		{name: "third", attempt: func(ctx context.Context) (string, error) {
			attempts++
			return "stream", nil
		}},
	}

	result, err := runStrategies(context.Background(), "test", 0, strategies)

	assert.NoError(t, err)
	assert.Equal(t, "stream", result)
	assert.Equal(t, 3, attempts)
}

func TestRunStrategies_ExhaustionPreservesCategory(t *testing.T) {
	strategies := []strategy[string]{
		{name: "first", attempt: func(ctx context.Context) (string, error) {
			return "", errors.New("something vague")
		}},
		{name: "second", attempt: func(ctx context.Context) (string, error) {
			return "", &CategorizedError{Category: CategoryAuthRequired, Err: errors.New("login required")}
		}},
	}

	_, err := runStrategies(context.Background(), "test", 0, strategies)

	assert.Error(t, err)
	assert.Equal(t, CategoryAuthRequired, Categorize(err))
}

func TestRunStrategies_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	strategies := []strategy[string]{
		{name: "first", attempt: func(ctx context.Context) (string, error) {
			t.Fatal("strategy ran on a cancelled context")
			return "", nil
		}},
	}

	_, err := runStrategies(ctx, "test", 0, strategies)

	assert.Error(t, err)
	assert.Equal(t, CategoryTimeout, Categorize(err))
}
