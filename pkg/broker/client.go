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
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/resilience"
)

// ErrAlreadySubscribed is returned when Subscribe is called twice on the
// same client. The role controller relies on this to guarantee a single
// consumer loop per process.
var ErrAlreadySubscribed = errors.New("broker: client already subscribed")

// dialBroker verifies broker reachability. Variable so tests can stub
// out the network.
var dialBroker = func(ctx context.Context, endpoint string, timeout time.Duration) error {
	d := &kafka.Dialer{Timeout: timeout, DualStack: true}
	conn, err := d.DialContext(ctx, "tcp", endpoint)
	if err != nil {
		return err
	}
	return conn.Close()
}

// Client owns the producer and consumer sessions of one process
// instance against the Kafka cluster.
type Client struct {
	cfg *Config
	log *zap.Logger

	writer kafkaWriter

	mu      sync.Mutex
	readers map[string]kafkaReader

	connected  atomic.Bool
	subscribed atomic.Bool

	consumeCtx    context.Context
	consumeCancel context.CancelFunc
	wg            sync.WaitGroup
}

// NewClient validates configuration and builds an unconnected client.
func NewClient(cfg *Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:     cfg,
		log:     logger.GetLogger(),
		readers: make(map[string]kafkaReader),
	}, nil
}

// Connect dials the broker with bounded exponential backoff. Exhausting
// the attempt budget is fatal: the instance must not run half-connected.
func (c *Client) Connect(ctx context.Context) error {
	calc := resilience.NewCalculator(c.cfg.Retry)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.ConnectMaxAttempts; attempt++ {
		endpoint := c.cfg.Endpoints[(attempt-1)%len(c.cfg.Endpoints)]
		lastErr = dialBroker(ctx, endpoint, c.cfg.DialTimeout)
		if lastErr == nil {
			w, err := writerFactory(c.cfg)
			if err != nil {
				return err
			}
			c.writer = w
			c.connected.Store(true)
			c.log.Info("kafka connected",
				zap.String("client_id", c.cfg.ClientID),
				zap.Strings("endpoints", c.cfg.Endpoints))
			return nil
		}

		c.log.Warn("kafka connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.ConnectMaxAttempts),
			zap.String("endpoint", endpoint),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(calc.Delay(attempt)):
		}
	}
	return fmt.Errorf("broker: connect failed after %d attempts: %w", c.cfg.ConnectMaxAttempts, lastErr)
}

// Connected reports whether Connect has succeeded.
func (c *Client) Connected() bool { return c.connected.Load() }

// Subscribed reports whether a consumer session is running.
func (c *Client) Subscribed() bool { return c.subscribed.Load() }

// Publish serializes value to JSON, attaches the standard headers and
// publishes it keyed by key. Returns where the message landed.
func (c *Client) Publish(ctx context.Context, topic string, value interface{}, key string) (*PublishResult, error) {
	if !c.connected.Load() {
		return nil, fmt.Errorf("broker: publish before connect")
	}

	payload, err := marshalValue(value)
	if err != nil {
		return nil, fmt.Errorf("broker: serialize message for %s: %w", topic, err)
	}

	msg := kafka.Message{
		Topic: topic,
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: HeaderContainerRole, Value: []byte(c.cfg.ContainerRole)},
			{Key: HeaderSchemaVersion, Value: []byte(SchemaVersion)},
		},
	}
	if key != "" {
		msg.Key = []byte(key)
	}

	partition, offset, err := c.writer.WriteMessage(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("broker: publish to %s: %w", topic, err)
	}

	c.log.Info("message published",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.Int("partition", partition),
		zap.Int64("offset", offset))
	return &PublishResult{Partition: partition, Offset: offset}, nil
}

// Subscribe starts one reader per topic from the current offset and
// dispatches records to handler. Per-reader dispatch is sequential, so
// within one partition handler invocations are strictly ordered.
// Subscribing twice is an error.
func (c *Client) Subscribe(ctx context.Context, topics []string, handler Handler) error {
	if len(topics) == 0 {
		return fmt.Errorf("broker: topics must be a non-empty list")
	}
	if !c.connected.Load() {
		return fmt.Errorf("broker: subscribe before connect")
	}
	if !c.subscribed.CompareAndSwap(false, true) {
		return ErrAlreadySubscribed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.consumeCtx, c.consumeCancel = context.WithCancel(ctx)
	for _, topic := range topics {
		r, err := readerFactory(c.cfg, topic)
		if err != nil {
			c.consumeCancel()
			c.subscribed.Store(false)
			return err
		}
		c.readers[topic] = r

		c.wg.Add(1)
		go c.consumeLoop(r, handler)
	}

	c.log.Info("subscribed to topics",
		zap.Strings("topics", topics),
		zap.String("group", c.cfg.ConsumerGroup),
		zap.String("container", c.cfg.ContainerRole))
	return nil
}

func (c *Client) consumeLoop(r kafkaReader, handler Handler) {
	defer c.wg.Done()

	for {
		rec, err := r.Fetch(c.consumeCtx)
		if err != nil {
			if c.consumeCtx.Err() != nil {
				return
			}
			c.log.Warn("fetch failed, backing off",
				zap.String("topic", r.Topic()), zap.Error(err))
			select {
			case <-c.consumeCtx.Done():
				return
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}

		// Handler errors are terminal for this record: the handler owns
		// dead-lettering, the loop's job is to keep consuming.
		if err := handler(c.consumeCtx, rec); err != nil {
			c.log.Error("message handler failed",
				zap.String("topic", rec.Topic),
				zap.Int("partition", rec.Partition),
				zap.Int64("offset", rec.Offset),
				zap.Error(err))
		}

		if err := r.Commit(c.consumeCtx, rec); err != nil && c.consumeCtx.Err() == nil {
			c.log.Warn("offset commit failed",
				zap.String("topic", rec.Topic),
				zap.Int64("offset", rec.Offset),
				zap.Error(err))
		}
	}
}

// Unsubscribe stops the consumer loops, waiting up to drainTimeout for
// in-flight handlers to finish before readers are closed.
func (c *Client) Unsubscribe(drainTimeout time.Duration) {
	if !c.subscribed.CompareAndSwap(true, false) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.consumeCancel != nil {
		c.consumeCancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(drainTimeout):
		c.log.Warn("consumer drain timed out, forcing disconnect",
			zap.Duration("timeout", drainTimeout))
	}

	for topic, r := range c.readers {
		if err := r.Close(); err != nil {
			c.log.Warn("reader close failed", zap.String("topic", topic), zap.Error(err))
		}
		delete(c.readers, topic)
	}
}

// Close tears down the consumer session and the producer.
func (c *Client) Close() error {
	c.Unsubscribe(5 * time.Second)

	if !c.connected.CompareAndSwap(true, false) {
		return nil
	}
	if c.writer != nil {
		if err := c.writer.Close(); err != nil {
			return fmt.Errorf("broker: close writer: %w", err)
		}
	}
	c.log.Info("kafka disconnected", zap.String("client_id", c.cfg.ClientID))
	return nil
}

func marshalValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case json.RawMessage:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
