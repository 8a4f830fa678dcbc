package mq

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ikkim/motoparts-backend/config"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the part of *amqp.Channel the client uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type amqpSession struct {
	conn    io.Closer
	channel amqpChannel
}

type amqpDialer func(url string) (*amqpSession, error)

func dialAMQP(url string) (*amqpSession, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &amqpSession{conn: conn, channel: ch}, nil
}

// RabbitMQClient publishes to named queues over a single channel. A channel
// closed by the broker is re-dialed on the next publish.
type RabbitMQClient struct {
	mu              sync.Mutex
	url             string
	dial            amqpDialer
	session         *amqpSession
	queueDurable    bool
	queueAutoDelete bool
	declared        map[string]struct{}
}

// NewRabbitMQClient dials the broker named by cfg.URL.
func NewRabbitMQClient(cfg config.RabbitMQConfig) (*RabbitMQClient, error) {
	return newRabbitMQClient(cfg, dialAMQP)
}

func newRabbitMQClient(cfg config.RabbitMQConfig, dial amqpDialer) (*RabbitMQClient, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}

	session, err := dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	return &RabbitMQClient{
		url:             cfg.URL,
		dial:            dial,
		session:         session,
		queueDurable:    cfg.QueueDurable,
		queueAutoDelete: cfg.QueueAutoDelete,
		declared:        make(map[string]struct{}),
	}, nil
}

// Publish sends a JSON message to the named queue through the default exchange.
func (r *RabbitMQClient) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("rabbitmq channel is required")
	}

	// amqp channels must not be shared between concurrent publishers
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureSession(); err != nil {
		return "", err
	}
	if err := r.declareQueue(channel); err != nil {
		return "", err
	}

	headers := amqp.Table{}
	for key, value := range attrs {
		headers[key] = value
	}

	messageID := uuid.NewString()
	err := r.session.channel.PublishWithContext(ctx, "", channel, false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   messageID,
		Headers:     headers,
		Body:        data,
	})
	if err != nil {
		return "", err
	}
	return messageID, nil
}

// Close closes the underlying channel and connection.
func (r *RabbitMQClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil
	}
	err := r.closeSession()
	r.session = nil
	return err
}

// ensureSession replaces a closed channel with a fresh connection. Queues
// are declared again on the new channel.
func (r *RabbitMQClient) ensureSession() error {
	if r.session != nil && !r.session.channel.IsClosed() {
		return nil
	}

	if r.session != nil {
		_ = r.closeSession()
		r.session = nil
	}

	logger.Warn("RabbitMQ channel closed, reconnecting")
	session, err := r.dial(r.url)
	if err != nil {
		logger.Error("Failed to reconnect to RabbitMQ", err)
		return err
	}

	r.session = session
	r.declared = make(map[string]struct{})
	logger.Info("RabbitMQ connection re-established")
	return nil
}

func (r *RabbitMQClient) closeSession() error {
	if r.session.channel != nil {
		_ = r.session.channel.Close()
	}
	if r.session.conn != nil {
		return r.session.conn.Close()
	}
	return nil
}

func (r *RabbitMQClient) declareQueue(name string) error {
	if _, ok := r.declared[name]; ok {
		return nil
	}
	_, err := r.session.channel.QueueDeclare(
		name,
		r.queueDurable,
		r.queueAutoDelete,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}
	r.declared[name] = struct{}{}
	return nil
}
