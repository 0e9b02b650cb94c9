package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionChannel is the Pub/Sub channel submissions are published on.
const SubmissionChannel = "design:submissions"

// RedisTransport publishes submissions on a Redis Pub/Sub channel
type RedisTransport struct {
	client  *redis.Client
	channel string
}

func NewRedisTransport(client *redis.Client) *RedisTransport {
	return &RedisTransport{client: client, channel: SubmissionChannel}
}

func (t *RedisTransport) Name() string { return "redis" }

type publishedSubmission struct {
	ID string `json:"id"`
	Submission
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit publishes the submission. The ack only confirms the publish, not a consumer.
func (t *RedisTransport) Submit(ctx context.Context, sub Submission) (*Ack, error) {
	msg := publishedSubmission{
		ID:          uuid.New().String(),
		Submission:  sub,
		SubmittedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	receivers, err := t.client.Publish(ctx, t.channel, data).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to publish submission: %w", err)
	}

	return &Ack{
		ID:         msg.ID,
		Transport:  t.Name(),
		AcceptedAt: msg.SubmittedAt,
		Message:    fmt.Sprintf("published to %d receivers", receivers),
	}, nil
}
