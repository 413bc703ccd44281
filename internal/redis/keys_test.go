package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "railgo:v1:journey:42:summary", KeyJourneySummary(42))
	assert.Equal(t, "railgo:v1:journey:42:availability", KeyJourneyAvailability(42))
	assert.Equal(t, "railgo:v1:rl:ip:10.0.0.1", KeyRateLimit("ip", "10.0.0.1"))
	assert.Equal(t, "railgo:v1:journeys:changed", ChannelJourneysChanged())
}
