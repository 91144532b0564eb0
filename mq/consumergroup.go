package mq

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type consumer struct {
	group   *kafka.ConsumerGroup
	logger  *zap.Logger
	dialer  *kafka.Dialer
	brokers []string
}

// NewConsumer returns a Consumer joined to cfg.GroupId on cfg.Topic.
func NewConsumer(cfg Config, l *zap.Logger) (Consumer, error) {
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}

	group, err := kafka.NewConsumerGroup(kafka.ConsumerGroupConfig{
		Dialer:      dialer,
		ID:          cfg.GroupId,
		Brokers:     cfg.Brokers,
		Topics:      []string{cfg.Topic},
		Logger:      infoLogger{l},
		ErrorLogger: errorLogger{l},
	})
	if err != nil {
		return nil, errors.Wrap(err, "new consumer group")
	}

	return &consumer{
		group:   group,
		logger:  l,
		dialer:  dialer,
		brokers: cfg.Brokers,
	}, nil
}

func (c *consumer) wait(exit chan struct{}) {
	<-exit
	c.group.Close()
}

// Consume starts a reader per assigned partition for each group generation
// and feeds every message to callback.
func (c *consumer) Consume(exit chan struct{}, callback func(key, value []byte) error) {
	go c.wait(exit)
	for {
		gen, err := c.group.Next(context.TODO())
		if err != nil {
			if errors.Is(err, kafka.ErrGroupClosed) {
				c.logger.Info("[Consumer] group closed, exit")
				return
			}
			c.logger.Error("[Consumer] group next generation", zap.Error(err))
			return
		}

		for topic := range gen.Assignments {
			for _, assignment := range gen.Assignments[topic] {
				partition, offset := assignment.ID, assignment.Offset
				gen.Start(func(ctx context.Context) {
					c.read(ctx, gen, topic, partition, offset, callback)
				})
			}
		}
	}
}

// read consumes one partition until the generation ends.
func (c *consumer) read(ctx context.Context, gen *kafka.Generation, topic string,
	partition int, offset int64, callback func(key, value []byte) error) {
	c.logger.Info("[Consumer] start partition reader",
		zap.String("topic", topic), zap.Int("partition", partition), zap.Int64("offset", offset))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Dialer:         c.dialer,
		Brokers:        c.brokers,
		Topic:          topic,
		Partition:      partition,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	if err := reader.SetOffset(offset); err != nil {
		c.logger.Error("[Consumer] reader SetOffset", zap.Error(err))
		return
	}

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, kafka.ErrGenerationEnded) {
				c.logger.Info("[Consumer] generation ended, reader exit",
					zap.String("topic", topic), zap.Int("partition", partition))
				return
			}
			c.logger.Error("[Consumer] reader ReadMessage", zap.Error(err))
			continue
		}

		if err := callback(msg.Key, msg.Value); err != nil {
			c.logger.Error("[Consumer] callback invoke",
				zap.Int64("offset", msg.Offset), zap.Error(err))
		}

		if err := gen.CommitOffsets(map[string]map[int]int64{msg.Topic: {msg.Partition: msg.Offset + 1}}); err != nil {
			c.logger.Error("[Consumer] generation CommitOffsets", zap.Error(err))
		}
	}
}
