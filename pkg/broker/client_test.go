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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/resilience"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessage(ctx context.Context, msg kafka.Message) (int, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return -1, -1, f.err
	}
	f.messages = append(f.messages, msg)
	return 0, int64(len(f.messages) - 1), nil
}

func (f *fakeWriter) Close() error { return nil }

type fakeReader struct {
	topic  string
	recCh  chan Record
	closed bool
}

func (f *fakeReader) Fetch(ctx context.Context) (Record, error) {
	select {
	case rec, ok := <-f.recCh:
		if !ok {
			return Record{}, errors.New("reader closed")
		}
		return rec, nil
	case <-ctx.Done():
		return Record{}, ctx.Err()
	}
}
func (f *fakeReader) Commit(ctx context.Context, rec Record) error { return nil }
func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}
func (f *fakeReader) Topic() string { return f.topic }

func testConfig() *Config {
	return &Config{
		Endpoints:          []string{"localhost:9092"},
		ContainerRole:      "secondary",
		ConnectMaxAttempts: 3,
		Retry:              resilience.Config{Strategy: resilience.StrategyFixed, InitialDelay: time.Millisecond},
	}
}

func newTestClient(t *testing.T) (*Client, *fakeWriter, map[string]*fakeReader) {
	t.Helper()

	fw := &fakeWriter{}
	readers := make(map[string]*fakeReader)

	origDial, origWriter, origReader := dialBroker, writerFactory, readerFactory
	t.Cleanup(func() {
		dialBroker, writerFactory, readerFactory = origDial, origWriter, origReader
	})

	dialBroker = func(ctx context.Context, endpoint string, timeout time.Duration) error { return nil }
	writerFactory = func(cfg *Config) (kafkaWriter, error) { return fw, nil }
	readerFactory = func(cfg *Config, topic string) (kafkaReader, error) {
		r := &fakeReader{topic: topic, recCh: make(chan Record, 16)}
		readers[topic] = r
		return r, nil
	}

	c, err := NewClient(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.Connect(context.Background()))
	return c, fw, readers
}

func TestConnectRetriesThenFails(t *testing.T) {
	origDial := dialBroker
	t.Cleanup(func() { dialBroker = origDial })

	attempts := 0
	dialBroker = func(ctx context.Context, endpoint string, timeout time.Duration) error {
		attempts++
		return errors.New("connection refused")
	}

	c, err := NewClient(testConfig())
	require.NoError(t, err)

	err = c.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.False(t, c.Connected())
}

func TestPublishAttachesStandardHeaders(t *testing.T) {
	c, fw, _ := newTestClient(t)

	res, err := c.Publish(context.Background(), "product-events", map[string]string{"eventType": "DELETE"}, "P100")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Partition)
	assert.Equal(t, int64(0), res.Offset)

	require.Len(t, fw.messages, 1)
	msg := fw.messages[0]
	assert.Equal(t, "product-events", msg.Topic)
	assert.Equal(t, []byte("P100"), msg.Key)

	headers := make(map[string]string)
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "secondary", headers[HeaderContainerRole])
	assert.Equal(t, SchemaVersion, headers[HeaderSchemaVersion])
}

func TestPublishBeforeConnect(t *testing.T) {
	c, err := NewClient(testConfig())
	require.NoError(t, err)

	_, err = c.Publish(context.Background(), "product-events", "x", "")
	assert.Error(t, err)
}

func TestSubscribeDispatchesInPartitionOrder(t *testing.T) {
	c, _, readers := newTestClient(t)

	var mu sync.Mutex
	var offsets []int64
	done := make(chan struct{}, 3)

	err := c.Subscribe(context.Background(), []string{"product-events"}, func(ctx context.Context, rec Record) error {
		mu.Lock()
		offsets = append(offsets, rec.Offset)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	r := readers["product-events"]
	for i := int64(0); i < 3; i++ {
		r.recCh <- Record{Topic: "product-events", Partition: 0, Offset: i}
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for dispatch")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int64{0, 1, 2}, offsets)

	c.Unsubscribe(time.Second)
}

func TestSubscribeTwiceFails(t *testing.T) {
	c, _, _ := newTestClient(t)

	handler := func(ctx context.Context, rec Record) error { return nil }
	require.NoError(t, c.Subscribe(context.Background(), []string{"member-events"}, handler))

	err := c.Subscribe(context.Background(), []string{"member-events"}, handler)
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	c.Unsubscribe(time.Second)
}

func TestHandlerErrorDoesNotStopConsumption(t *testing.T) {
	c, _, readers := newTestClient(t)

	seen := make(chan int64, 2)
	err := c.Subscribe(context.Background(), []string{"member-events"}, func(ctx context.Context, rec Record) error {
		seen <- rec.Offset
		if rec.Offset == 0 {
			return errors.New("poison message")
		}
		return nil
	})
	require.NoError(t, err)

	r := readers["member-events"]
	r.recCh <- Record{Topic: "member-events", Offset: 0}
	r.recCh <- Record{Topic: "member-events", Offset: 1}

	for want := int64(0); want < 2; want++ {
		select {
		case got := <-seen:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for record after handler failure")
		}
	}

	c.Unsubscribe(time.Second)
}

func TestUnsubscribeClosesReaders(t *testing.T) {
	c, _, readers := newTestClient(t)

	require.NoError(t, c.Subscribe(context.Background(), []string{"product-events", "member-events"},
		func(ctx context.Context, rec Record) error { return nil }))
	c.Unsubscribe(time.Second)

	for topic, r := range readers {
		assert.True(t, r.closed, "reader for %s should be closed", topic)
	}
	assert.False(t, c.Subscribed())

	// A fresh subscribe after unsubscribe is allowed.
	require.NoError(t, c.Subscribe(context.Background(), []string{"pharma-events"},
		func(ctx context.Context, rec Record) error { return nil }))
	c.Unsubscribe(time.Second)
}

func TestConfigRoleDefaults(t *testing.T) {
	secondary := &Config{Endpoints: []string{"x:9092"}, ContainerRole: "secondary"}
	secondary.ApplyDefaults()
	assert.Equal(t, 6*time.Second, secondary.SessionTimeout)
	assert.Equal(t, time.Second, secondary.HeartbeatInterval)
	assert.Equal(t, 100*time.Millisecond, secondary.MaxWait)

	main := &Config{Endpoints: []string{"x:9092"}, ContainerRole: "main"}
	main.ApplyDefaults()
	assert.Equal(t, 30*time.Second, main.SessionTimeout)
	assert.Equal(t, 3*time.Second, main.HeartbeatInterval)
	assert.Equal(t, time.Second, main.MaxWait)

	bad := &Config{Endpoints: []string{"x:9092"}, ContainerRole: "tertiary"}
	bad.ApplyDefaults()
	assert.Error(t, bad.Validate())
}
