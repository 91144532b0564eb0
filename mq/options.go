package mq

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/scram"
	"go.uber.org/zap"
)

// Config carries the Kafka settings shared by producer and consumer.
type Config struct {
	Brokers []string
	Topic   string
	GroupId string

	// SCRAM-SHA-256 credentials; authentication is skipped when empty.
	Username string
	Password string
}

// dialer builds the kafka dialer described by the config.
func (c Config) dialer() (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{
		DualStack: true,
	}

	if c.Username != "" && c.Password != "" {
		mechanism, err := scram.Mechanism(scram.SHA256, c.Username, c.Password)
		if err != nil {
			return nil, errors.Wrap(err, "build scram mechanism")
		}
		dialer.SASLMechanism = mechanism
	}
	return dialer, nil
}

type infoLogger struct {
	internal *zap.Logger
}

func (l infoLogger) Printf(format string, v ...interface{}) {
	l.internal.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	internal *zap.Logger
}

func (l errorLogger) Printf(format string, v ...interface{}) {
	l.internal.Error(fmt.Sprintf(format, v...))
}
