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
	"sync"

	"github.com/segmentio/kafka-go"
)

// kafkaWriter abstracts kafka-go Writer for testability.
type kafkaWriter interface {
	// WriteMessage publishes one message and reports the partition and
	// offset it landed on (-1/-1 when unknown).
	WriteMessage(ctx context.Context, msg kafka.Message) (partition int, offset int64, err error)
	// Close releases writer resources.
	Close() error
}

// writerFactory creates the kafkaWriter used by a Client.
var writerFactory = func(cfg *Config) (kafkaWriter, error) {
	return newKafkaGoWriter(cfg)
}

// kafkaGoWriter wraps github.com/segmentio/kafka-go.Writer. Writes are
// serialized so at most one batch is in flight, preserving publish
// order, and so the Completion callback can be matched to the write
// that triggered it.
type kafkaGoWriter struct {
	w *kafka.Writer

	mu            sync.Mutex
	lastPartition int
	lastOffset    int64
	lastReported  bool
}

func newKafkaGoWriter(cfg *Config) (*kafkaGoWriter, error) {
	gw := &kafkaGoWriter{lastPartition: -1, lastOffset: -1}
	gw.w = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Endpoints...),
		Balancer:     &kafka.Hash{}, // key-based partitioning colocates one entity's events
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Async:        false,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil || len(messages) == 0 {
				return
			}
			last := messages[len(messages)-1]
			gw.lastPartition = last.Partition
			gw.lastOffset = last.Offset
			gw.lastReported = true
		},
	}
	return gw, nil
}

func (gw *kafkaGoWriter) WriteMessage(ctx context.Context, msg kafka.Message) (int, int64, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.lastReported = false
	if err := gw.w.WriteMessages(ctx, msg); err != nil {
		return -1, -1, err
	}
	// In synchronous mode the completion callback has run by the time
	// WriteMessages returns.
	if !gw.lastReported {
		return -1, -1, nil
	}
	return gw.lastPartition, gw.lastOffset, nil
}

func (gw *kafkaGoWriter) Close() error { return gw.w.Close() }
