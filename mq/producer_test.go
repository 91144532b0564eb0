package mq

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfigDialer(t *testing.T) {
	d, err := Config{}.dialer()
	require.NoError(t, err)
	require.Nil(t, d.SASLMechanism)

	d, err = Config{Username: "user", Password: "secret"}.dialer()
	require.NoError(t, err)
	require.NotNil(t, d.SASLMechanism)
}

func TestPublish(t *testing.T) {
	if os.Getenv("KAFKA_BROKERS") == "" {
		t.Skip("KAFKA_BROKERS not set")
	}

	p, err := NewProducer(Config{
		Brokers:  strings.Split(os.Getenv("KAFKA_BROKERS"), ","),
		Topic:    os.Getenv("KAFKA_TOPIC"),
		Username: os.Getenv("KAFKA_USERNAME"),
		Password: os.Getenv("KAFKA_PASSWORD"),
	}, zap.NewExample())
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), []byte("key"), []byte("world")))
}
