package mq

import (
	"context"

	"github.com/google/uuid"
	"github.com/ikkim/motoparts-backend/pkg/logger"
)

// LogBackend stands in for a broker when none is configured: messages are
// logged and discarded.
type LogBackend struct {
	name string
}

func NewLogBackend(name string) *LogBackend {
	return &LogBackend{name: name}
}

func (l *LogBackend) Publish(_ context.Context, channel string, data []byte, _ map[string]string) (string, error) {
	id := uuid.NewString()
	logger.Info("Message discarded, no broker configured", map[string]interface{}{
		"backend":    l.name,
		"channel":    channel,
		"message_id": id,
		"size":       len(data),
	})
	return id, nil
}

func (l *LogBackend) Close() error {
	return nil
}
