package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJourneyChangedRoundTrip(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)

	payload := encodeJourneyChanged(42, at)
	assert.JSONEq(
		t,
		`{"type":"journey_changed","journey_id":42,"ts_unix":1700000000}`,
		string(payload),
	)

	id, ok := decodeJourneyChanged(string(payload))
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestDecodeJourneyChanged_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "not-json"},
		{"foreign type", `{"type":"seat_map_changed","journey_id":7}`},
		{"zero journey", `{"type":"journey_changed","journey_id":0}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := decodeJourneyChanged(tt.payload)
			assert.False(t, ok)
		})
	}
}
