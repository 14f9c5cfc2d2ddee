package pkg

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RosterEventWriter 把名额变更事件投到 kafka。
// 以 分组类别:分组ID 作分区键，同一分组的事件落同一分区、消费侧保序。
type RosterEventWriter struct {
	writer *kafka.Writer
}

func NewRosterEventWriter(cfg KafkaConfig) *RosterEventWriter {
	return &RosterEventWriter{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        false,
		},
	}
}

func (w *RosterEventWriter) Close() error {
	if w == nil || w.writer == nil {
		return nil
	}
	return w.writer.Close()
}

// Publish 投递一条事件。payload 是引擎在事务里落好的 JSON，原样转发。
func (w *RosterEventWriter) Publish(ctx context.Context, eventType, groupKind string, groupID uint64, payload []byte) error {
	msg := kafka.Message{
		Key:   []byte(rosterEventKey(groupKind, groupID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	return w.writer.WriteMessages(ctx, msg)
}

func rosterEventKey(groupKind string, groupID uint64) string {
	return fmt.Sprintf("%s:%d", groupKind, groupID)
}
