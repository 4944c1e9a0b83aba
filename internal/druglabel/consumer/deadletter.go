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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/broker"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// Publisher is the producing side of the broker client the routers need.
type Publisher interface {
	Publish(ctx context.Context, topic string, value interface{}, key string) (*broker.PublishResult, error)
}

// DeadLetterRouter publishes terminally failed messages to the
// dead-letter topic. Dead-lettering is best effort: a failure to publish
// is logged and swallowed so a broken dead-letter path can never wedge
// the consume loop.
type DeadLetterRouter struct {
	publisher Publisher
	topic     string
	role      string
	log       *zap.Logger
}

// NewDeadLetterRouter creates a dead-letter router publishing to topic.
func NewDeadLetterRouter(publisher Publisher, topic, role string) *DeadLetterRouter {
	return &DeadLetterRouter{
		publisher: publisher,
		topic:     topic,
		role:      role,
		log:       logger.GetLogger(),
	}
}

// Route publishes a dead-letter record for the failed envelope. The
// record id is freshly generated so inspection tooling can reference
// individual failures.
func (d *DeadLetterRouter) Route(ctx context.Context, env *event.Envelope, handleErr error) {
	rec := event.DeadLetterRecord{
		ID:            uuid.NewString(),
		OriginalTopic: env.Topic,
		OriginalMessage: event.OriginalMessage{
			Key:       env.Key,
			Value:     string(env.Value),
			Offset:    env.Offset,
			Partition: env.Partition,
		},
		Error:         handleErr.Error(),
		Timestamp:     time.Now().UnixMilli(),
		ContainerRole: d.role,
	}

	if _, err := d.publisher.Publish(ctx, d.topic, rec, env.Key); err != nil {
		d.log.Error("dead-letter publish failed, record dropped",
			zap.String("topic", env.Topic),
			zap.String("message_id", env.MessageID()),
			zap.Error(err))
		return
	}

	deadLettersProduced.WithLabelValues(env.Topic).Inc()
	d.log.Warn("message routed to dead-letter topic",
		zap.String("topic", env.Topic),
		zap.String("message_id", env.MessageID()),
		zap.String("dead_letter_id", rec.ID),
		zap.String("reason", handleErr.Error()))
}
