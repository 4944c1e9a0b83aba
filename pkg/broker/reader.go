// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
)

// kafkaReader abstracts kafka-go Reader for testability.
type kafkaReader interface {
	// Fetch blocks until a record is available or context is cancelled.
	Fetch(ctx context.Context) (Record, error)
	// Commit commits the provided record's offset.
	Commit(ctx context.Context, rec Record) error
	// Close releases reader resources.
	Close() error
	// Topic returns the topic this reader is consuming.
	Topic() string
}

// readerFactory creates a kafkaReader for the given topic based on configuration.
var readerFactory = func(cfg *Config, topic string) (kafkaReader, error) {
	return newKafkaGoReader(cfg, topic)
}

// kafkaGoReader wraps github.com/segmentio/kafka-go.Reader to satisfy kafkaReader.
type kafkaGoReader struct {
	r     *kafka.Reader
	topic string

	mu   sync.Mutex
	seen map[string]kafka.Message // partition:offset -> msg, held until commit
}

func newKafkaGoReader(cfg *Config, topic string) (*kafkaGoReader, error) {
	if cfg == nil || len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("broker: endpoints required for reader")
	}

	dialer := &kafka.Dialer{
		ClientID:  cfg.ClientID,
		Timeout:   cfg.DialTimeout,
		DualStack: true,
	}

	// StartOffset is LastOffset so a newly promoted consumer does not
	// replay historical backlog.
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           cfg.Endpoints,
		GroupID:           cfg.ConsumerGroup,
		Topic:             topic,
		MinBytes:          1,
		MaxBytes:          10 * 1024 * 1024,
		MaxWait:           cfg.MaxWait,
		SessionTimeout:    cfg.SessionTimeout,
		HeartbeatInterval: cfg.HeartbeatInterval,
		StartOffset:       kafka.LastOffset,
		Dialer:            dialer,
	})

	return &kafkaGoReader{r: r, topic: topic, seen: make(map[string]kafka.Message)}, nil
}

func (gr *kafkaGoReader) Fetch(ctx context.Context) (Record, error) {
	msg, err := gr.r.FetchMessage(ctx)
	if err != nil {
		return Record{}, err
	}
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	rec := Record{
		Topic:     gr.topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Timestamp: msg.Time,
	}
	gr.mu.Lock()
	gr.seen[gr.key(rec.Partition, rec.Offset)] = msg
	gr.mu.Unlock()
	return rec, nil
}

func (gr *kafkaGoReader) Commit(ctx context.Context, rec Record) error {
	gr.mu.Lock()
	msg, ok := gr.seen[gr.key(rec.Partition, rec.Offset)]
	if ok {
		delete(gr.seen, gr.key(rec.Partition, rec.Offset))
	}
	gr.mu.Unlock()
	if !ok {
		// best-effort: construct minimal message for commit
		msg = kafka.Message{Topic: gr.topic, Partition: rec.Partition, Offset: rec.Offset}
	}
	return gr.r.CommitMessages(ctx, msg)
}

func (gr *kafkaGoReader) Close() error { return gr.r.Close() }

func (gr *kafkaGoReader) Topic() string { return gr.topic }

func (gr *kafkaGoReader) key(partition int, offset int64) string {
	return fmt.Sprintf("%d:%d", partition, offset)
}
