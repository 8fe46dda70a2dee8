package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDLQBackoffDoublesAndCaps(t *testing.T) {
	manager := NewDLQManager(nil, nil, 0, 0)
	require.Equal(t, 5, manager.maxRetries)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Minute},
		{1, time.Minute},
		{2, 2 * time.Minute},
		{4, 8 * time.Minute},
		{7, time.Hour},
		{64, time.Hour},
	}
	for _, tt := range tests {
		require.Equalf(t, tt.want, manager.backoffDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}
