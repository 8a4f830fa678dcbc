package mq

import (
	"context"
	"testing"

	"github.com/ikkim/motoparts-backend/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBackend_Publish(t *testing.T) {
	m := New(NewLogBackend("email"))

	id, err := m.Publish(context.Background(), "email_service", []byte(`{"pattern":"send_email"}`), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, m.Close())
}

func TestNewRabbitMQClient_RequiresURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "whitespace", url: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewRabbitMQClient(config.RabbitMQConfig{URL: tt.url})
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestNewRedisClient_RequiresClient(t *testing.T) {
	client, err := NewRedisClient(nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRedisClient_RequiresChannel(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	client, err := NewRedisClient(rdb)
	require.NoError(t, err)

	_, err = client.Publish(context.Background(), " ", []byte("{}"), nil)
	assert.EqualError(t, err, "redis channel is required")
	assert.NoError(t, client.Close())
}
