package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/MansiJagta/echo-forge-create/platform/config"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
)

// CloneEvent is published after each successful clone-voice request.
type CloneEvent struct {
	UserID    string    `json:"user_id,omitempty"`
	VoiceID   string    `json:"voice_id"`
	Filename  string    `json:"filename"`
	AudioURL  string    `json:"audio_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Producer emits clone events. A nil *Producer drops them, so the
// orchestrator never branches on whether kafka is configured.
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer returns nil when no brokers are configured.
func NewProducer(cfg *config.Config) *Producer {
	if cfg.KafkaBrokers == "" {
		return nil
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	logging.Info("kafka producer configured", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	return &Producer{writer: writer, topic: cfg.KafkaTopic}
}

// PublishCloneCompleted is fire-and-forget: failures are logged and never
// surface into the request that triggered them.
func (p *Producer) PublishCloneCompleted(ctx context.Context, event CloneEvent) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		logging.Warn("encoding clone event failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.VoiceID),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logging.Warn("publishing clone event failed", "topic", p.topic, "error", err)
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
