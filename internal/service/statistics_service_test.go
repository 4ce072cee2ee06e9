package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageBucket(t *testing.T) {
	cases := []struct {
		percentage int
		bucket     string
	}{
		{100, "90-100"},
		{90, "90-100"},
		{89, "70-89"},
		{70, "70-89"},
		{69, "50-69"},
		{50, "50-69"},
		{49, "0-49"},
		{0, "0-49"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.bucket, percentageBucket(tc.percentage), "percentage %d", tc.percentage)
	}
}
