package scheduler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailySpec(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Equal(t, "0 3 * * *", dailySpec("03:00", logger))
	assert.Equal(t, "30 23 * * *", dailySpec("23:30", logger))
	assert.Equal(t, "0 0 * * *", dailySpec("00:00", logger))

	// malformed or out-of-range values fall back to 03:00
	assert.Equal(t, "0 3 * * *", dailySpec("", logger))
	assert.Equal(t, "0 3 * * *", dailySpec("noon", logger))
	assert.Equal(t, "0 3 * * *", dailySpec("25:00", logger))
	assert.Equal(t, "0 3 * * *", dailySpec("12:61", logger))
}

func TestSchedulerDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(nil, Config{Enabled: false}, logger)

	assert.NoError(t, s.Start())
	assert.False(t, s.running)
	s.Stop()
}
