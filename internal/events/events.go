package events

import (
	"context"
	"encoding/json"
	"riskcheck/config"
	"riskcheck/internal/database"
	"riskcheck/internal/logger"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	TypeResultSaved      = "result.saved"
	TypeResultCleared    = "result.cleared"
	TypeRequestFinalized = "request.finalized"
)

type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventBus fans events out over valkey pub/sub so every server instance sees
// writes made through any of them.
type EventBus struct {
	client database.CacheClient
	config config.Config
	log    logger.Logger
	cancel context.CancelFunc
	ctx    context.Context
}

func New(client database.CacheClient, config config.Config) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		client: client,
		config: config,
		log:    logger.New("EventBus"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (b *EventBus) Publish(channel string, event Event) error {
	log := b.log.Function("Publish")

	if b.client == nil {
		return log.ErrMsg("event bus has no cache client")
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to marshal event", err, "type", event.Type)
	}

	ctx, cancel := context.WithTimeout(b.ctx, 5*time.Second)
	defer cancel()

	if err := b.client.Do(ctx,
		b.client.B().Publish().Channel(channel).Message(string(payload)).Build(),
	).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "type", event.Type)
	}

	return nil
}

// Subscribe blocks receiving events from the channel until the bus is closed,
// so callers run it on its own goroutine.
func (b *EventBus) Subscribe(channel string, handler func(Event)) error {
	log := b.log.Function("Subscribe")

	if b.client == nil {
		return log.ErrMsg("event bus has no cache client")
	}

	err := b.client.Receive(b.ctx,
		b.client.B().Subscribe().Channel(channel).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("failed to unmarshal event", err, "channel", channel)
				return
			}
			handler(event)
		})
	if err != nil && b.ctx.Err() == nil {
		return log.Err("subscription ended", err, "channel", channel)
	}

	return nil
}

func (b *EventBus) Close() error {
	b.cancel()
	return nil
}
