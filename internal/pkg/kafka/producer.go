package kafka

import (
	"BuilderCentral/internal/api/config"
	"BuilderCentral/internal/model"
	"context"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ActivityProducer 投递活动事件，以工具 ID 为分区键保证同一工具有序
type ActivityProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewActivityProducer(cfg config.KafkaConfig) (*ActivityProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &ActivityProducer{producer: producer, topic: cfg.Producer.Topic}, nil
}

func (p *ActivityProducer) PublishActivity(ctx context.Context, activity *model.Activity) error {
	payload, err := json.Marshal(NewActivityMessage(activity))
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(activity.ToolID.Hex()),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	log.DebugContext(ctx, "activity published", "topic", p.topic, "partition", partition, "offset", offset)
	return nil
}

func (p *ActivityProducer) Close() error {
	return p.producer.Close()
}
