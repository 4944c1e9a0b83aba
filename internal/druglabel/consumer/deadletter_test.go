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

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
)

func TestDeadLetterRouterBuildsRecord(t *testing.T) {
	pub := &fakePublisher{}
	d := NewDeadLetterRouter(pub, "dead-letter-queue", "main")

	env := &event.Envelope{
		Topic:     "product-events",
		Partition: 1,
		Offset:    42,
		Key:       "P100",
		Value:     json.RawMessage(`{"eventType":"ADD_PRODUCT_WITH_PHARMA"}`),
		Timestamp: time.Now(),
	}

	d.Route(context.Background(), env, errors.New("handler blew up"))

	require.Len(t, pub.published, 1)
	assert.Equal(t, "dead-letter-queue", pub.published[0].topic)
	assert.Equal(t, "P100", pub.published[0].key)

	rec, ok := pub.published[0].value.(event.DeadLetterRecord)
	require.True(t, ok)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "product-events", rec.OriginalTopic)
	assert.Equal(t, "handler blew up", rec.Error)
	assert.Equal(t, "main", rec.ContainerRole)
	assert.Equal(t, 1, rec.OriginalMessage.Partition)
	assert.Equal(t, int64(42), rec.OriginalMessage.Offset)
	assert.JSONEq(t, string(env.Value), rec.OriginalMessage.Value)
	assert.Greater(t, rec.Timestamp, int64(0))
}

func TestDeadLetterRouterSwallowsPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	d := NewDeadLetterRouter(pub, "dead-letter-queue", "main")

	env := &event.Envelope{Topic: "product-events", Offset: 1}

	// Must not panic or propagate; the record is dropped with a log.
	d.Route(context.Background(), env, errors.New("original failure"))
	assert.Empty(t, pub.published)
}

func TestRetryProducerBoundsAttempts(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRetryProducer(pub, "secondary", 3)

	env := &event.Envelope{
		Topic:     "member-events",
		Offset:    7,
		Key:       "pharma01",
		Value:     json.RawMessage(`{"eventType":"ADD_MEMBER"}`),
		Timestamp: time.Now(),
	}

	require.NoError(t, r.Schedule(context.Background(), env, 0))
	require.NoError(t, r.Schedule(context.Background(), env, 2))
	assert.ErrorIs(t, r.Schedule(context.Background(), env, 3), ErrRetryExhausted)

	require.Len(t, pub.published, 2)
	assert.Equal(t, "member-events-retry", pub.published[0].topic)

	rec, ok := pub.published[0].value.(event.RetryRecord)
	require.True(t, ok)
	assert.Equal(t, 1, rec.RetryCount)
	assert.Equal(t, "secondary", rec.ContainerRole)
}

func TestRetryProducerRejectsUnknownTopic(t *testing.T) {
	r := NewRetryProducer(&fakePublisher{}, "secondary", 3)

	env := &event.Envelope{Topic: "mystery", Offset: 1}
	assert.Error(t, r.Schedule(context.Background(), env, 0))
}
