package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/motoparts-backend/internal/mq"
	"github.com/ikkim/motoparts-backend/pkg/logger"
)

// DefaultPublishTimeout bounds a single publish when none is configured.
const DefaultPublishTimeout = 5 * time.Second

// Envelope is the wire format consumers expect: a pattern naming the handler
// and the handler's payload.
type Envelope struct {
	Pattern string      `json:"pattern"`
	Data    interface{} `json:"data"`
}

// Dispatcher publishes envelopes to one channel without blocking the caller.
// Delivery is best-effort: failures are logged and dropped.
type Dispatcher struct {
	backend mq.Backend
	channel string
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(backend mq.Backend, channel string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Dispatcher{
		backend: backend,
		channel: channel,
		timeout: timeout,
	}
}

// Emit encodes the envelope and publishes it in the background.
func (d *Dispatcher) Emit(pattern string, data interface{}) {
	body, err := json.Marshal(Envelope{Pattern: pattern, Data: data})
	if err != nil {
		logger.Error("Failed to encode outbound message", err, map[string]interface{}{
			"pattern": pattern,
			"channel": d.channel,
		})
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		id, err := d.backend.Publish(ctx, d.channel, body, map[string]string{"pattern": pattern})
		if err != nil {
			logger.Error("Failed to publish outbound message", err, map[string]interface{}{
				"pattern": pattern,
				"channel": d.channel,
			})
			return
		}
		logger.Debug("Outbound message published", map[string]interface{}{
			"pattern":    pattern,
			"channel":    d.channel,
			"message_id": id,
		})
	}()
}

// Wait blocks until every in-flight publish has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close drains in-flight publishes and closes the backend.
func (d *Dispatcher) Close() error {
	d.Wait()
	return d.backend.Close()
}
