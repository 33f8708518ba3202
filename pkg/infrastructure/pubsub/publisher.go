package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"github.com/cloudevents/sdk-go/v2/event"
)

// PubSubAdapter provides message publishing using Google Cloud Pub/Sub
type PubSubAdapter struct {
	Client *pubsub.Client
}

func (a *PubSubAdapter) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	topic := a.Client.Topic(topicID)
	res := topic.Publish(ctx, &pubsub.Message{Data: data})
	return res.Get(ctx)
}

// LogPublisher is a mock publisher for local development
type LogPublisher struct {
	Logger *slog.Logger
}

func (p *LogPublisher) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	p.Logger.InfoContext(ctx, "MOCK PUBLISH",
		"topic", topicID,
		"event_type", e.Type(),
		"event_id", e.ID())
	return "mock-msg-id", nil
}
