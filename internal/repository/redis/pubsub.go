package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	redisx "github.com/dkovalenko/railgo/internal/redis"
)

// JourneysPubSub broadcasts journey inventory changes so that every
// instance can react to writes made by its peers.
type JourneysPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewJourneysPubSub(rdb *redis.Client) *JourneysPubSub {
	return &JourneysPubSub{
		rdb:     rdb,
		channel: redisx.ChannelJourneysChanged(),
	}
}

type journeyChangedMsg struct {
	Type      string `json:"type"`
	JourneyID int64  `json:"journey_id"`
	TsUnix    int64  `json:"ts_unix"`
}

func encodeJourneyChanged(journeyID int64, at time.Time) []byte {
	b, _ := json.Marshal(journeyChangedMsg{
		Type:      "journey_changed",
		JourneyID: journeyID,
		TsUnix:    at.Unix(),
	})

	return b
}

// decodeJourneyChanged extracts the journey id from a channel payload.
// Malformed or foreign messages decode as (0, false) and are skipped.
func decodeJourneyChanged(payload string) (int64, bool) {
	var msg journeyChangedMsg
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return 0, false
	}
	if msg.Type != "journey_changed" || msg.JourneyID == 0 {
		return 0, false
	}

	return msg.JourneyID, true
}

func (p *JourneysPubSub) PublishJourneyChanged(ctx context.Context, journeyID int64) error {
	return p.rdb.Publish(ctx, p.channel, encodeJourneyChanged(journeyID, time.Now())).Err()
}

// Subscribe delivers changed journey ids to handler until ctx is done.
func (p *JourneysPubSub) Subscribe(
	ctx context.Context,
	handler func(ctx context.Context, journeyID int64),
) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			if journeyID, ok := decodeJourneyChanged(m.Payload); ok {
				handler(ctx, journeyID)
			}
		}
	}
}
