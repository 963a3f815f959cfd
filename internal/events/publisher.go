// internal/events/publisher.go
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channels downstream consumers (dashboards, CRM sync) subscribe to.
const (
	ChannelCallAnalyzed   = "calls.analyzed"
	ChannelInquiryCreated = "inquiries.created"
)

// Publisher pushes domain events onto Redis pub/sub. Delivery is best-effort;
// callers log failures and move on.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, channel string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	if err := p.rdb.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
