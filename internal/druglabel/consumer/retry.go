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
	"fmt"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// ErrRetryExhausted is returned when a message has already used up its
// retry budget; the caller should dead-letter it.
var ErrRetryExhausted = fmt.Errorf("retry budget exhausted")

// RetryProducer publishes transiently failed messages to the
// per-domain retry topic with a bounded attempt count.
type RetryProducer struct {
	publisher  Publisher
	role       string
	maxRetries int
	log        *zap.Logger
}

// NewRetryProducer creates a retry producer with the given attempt budget.
func NewRetryProducer(publisher Publisher, role string, maxRetries int) *RetryProducer {
	return &RetryProducer{
		publisher:  publisher,
		role:       role,
		maxRetries: maxRetries,
		log:        logger.GetLogger(),
	}
}

// Schedule publishes the envelope to its retry topic with the attempt
// count incremented. Returns ErrRetryExhausted once retryCount would
// exceed the budget, leaving the dead-letter decision to the caller.
func (r *RetryProducer) Schedule(ctx context.Context, env *event.Envelope, retryCount int) error {
	next := retryCount + 1
	if next > r.maxRetries {
		return ErrRetryExhausted
	}

	topic, ok := event.ParseTopic(env.Topic)
	if !ok {
		return fmt.Errorf("no retry topic for %q", env.Topic)
	}

	rec := event.RetryRecord{
		OriginalData:  env.Value,
		RetryCount:    next,
		Timestamp:     env.Timestamp.UnixMilli(),
		ContainerRole: r.role,
	}
	if _, err := r.publisher.Publish(ctx, event.RetryTopic(topic), rec, env.Key); err != nil {
		return fmt.Errorf("schedule retry for %s: %w", env.MessageID(), err)
	}

	r.log.Info("message scheduled for retry",
		zap.String("topic", env.Topic),
		zap.String("message_id", env.MessageID()),
		zap.Int("retry_count", next))
	return nil
}
