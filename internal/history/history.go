// Package history pushes accepted game actions onto a Redis list so an
// external consumer can archive or replay them. Publishing is best-effort:
// a missing or unhealthy Redis never blocks game logic.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueue is the Redis list used when no queue name is configured.
const DefaultQueue = "leastcount_actions"

// ActionRecord is one accepted action in the order the engine applied it.
type ActionRecord struct {
	RoomID      string                 `json:"room_id"`
	GameID      uuid.UUID              `json:"game_id"`
	ActionIndex int                    `json:"action_index"`
	PlayerID    uuid.UUID              `json:"player_id"`
	Action      string                 `json:"action"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Publisher appends action records to a Redis list.
type Publisher struct {
	client *redis.Client
	queue  string
	logger *logrus.Logger
}

// New connects to Redis at addr and verifies the connection with a ping.
func New(addr, queue string, logger *logrus.Logger) (*Publisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &Publisher{client: client, queue: queue, logger: logger}, nil
}

// Publish serializes the record and pushes it onto the queue. Errors are
// logged, not returned; the engine calls this fire-and-forget.
func (p *Publisher) Publish(ctx context.Context, rec ActionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		p.logger.WithError(err).Warn("history: marshal action record")
		return
	}
	if err := p.client.RPush(ctx, p.queue, data).Err(); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"room": rec.RoomID,
			"game": rec.GameID,
		}).Warn("history: push action record")
	}
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
