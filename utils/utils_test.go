package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type TrackDurationTestCase struct {
	input    time.Duration
	expected string
}

func TestFormatTrackDuration(t *testing.T) {
	tests := []TrackDurationTestCase{
		{0 * time.Second, "?:??"},
		{5 * time.Second, "0:05"},
		{45 * time.Second, "0:45"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{3*time.Minute + 45*time.Second, "3:45"},
		{12*time.Minute + 1*time.Second, "12:01"},
		{1*time.Hour + 23*time.Minute + 45*time.Second, "83:45"},
	}

	for _, tt := range tests {
		result := FormatTrackDuration(tt.input)
		assert.Equal(t, tt.expected, result)
	}
}
