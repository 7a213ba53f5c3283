package xnames

import (
	"context"

	"github.com/segmentio/kafka-go"
)

const (
	EventTopic = "xnames_registry_event"
)

type KWriter struct {
	w *kafka.Writer
}

func NewKWriter(topic string, uri string) (*KWriter, error) {
	w := &kafka.Writer{
		Addr:     kafka.TCP(uri),
		Topic:    topic,
		Balancer: &kafka.Hash{},
	}

	return &KWriter{
		w: w,
	}, nil
}

// Write keys the message by token id so one token's events share a partition.
func (kw *KWriter) Write(key string, body []byte) error {
	err := kw.w.WriteMessages(
		context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: body,
		},
	)
	return err
}

func (kw *KWriter) Close() {
	kw.w.Close()
}
