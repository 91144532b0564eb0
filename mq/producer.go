package mq

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type producer struct {
	writer *kafka.Writer
}

// NewProducer returns a Producer writing to cfg.Topic. Writes are
// synchronous so the caller can retry on a delivery error.
func NewProducer(cfg Config, l *zap.Logger) (Producer, error) {
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}

	return &producer{writer: kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,

		Dialer:       dialer,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: int(kafka.RequireAll),
		Logger:       infoLogger{l},
		ErrorLogger:  errorLogger{l},
	})}, nil
}

func (p *producer) Publish(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}
