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
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/repository"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/broker"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// Status is the terminal outcome of routing one message.
type Status int

const (
	// StatusProcessed means the handler applied the message.
	StatusProcessed Status = iota
	// StatusSkippedDuplicate means the idempotency guard had already
	// seen the message id.
	StatusSkippedDuplicate
	// StatusRetried means the handler failed and the message was
	// re-published to its retry topic.
	StatusRetried
	// StatusDeadLettered means the message was routed to the
	// dead-letter topic.
	StatusDeadLettered
	// StatusIgnored means the message was outside the routable topic
	// set and dropped.
	StatusIgnored
)

// String implements fmt.Stringer for log fields.
func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkippedDuplicate:
		return "skipped_duplicate"
	case StatusRetried:
		return "retried"
	case StatusDeadLettered:
		return "dead_lettered"
	case StatusIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// TypedHandler applies one domain's events.
type TypedHandler interface {
	Handle(ctx context.Context, p *event.Payload) error
}

// Handlers groups the per-domain handlers the router dispatches to.
type Handlers struct {
	Products      TypedHandler
	Members       TypedHandler
	Prescriptions TypedHandler
	Pharma        TypedHandler
}

// Router is the single dispatch point for consumed messages. It runs
// the guard check, parses the payload, dispatches to the domain handler
// for the topic and settles failures via retry or dead-letter. Route
// never returns an error: every message reaches a terminal Status so
// the consume loop can always commit and move on.
type Router struct {
	guard      *Guard
	deadLetter *DeadLetterRouter
	retry      *RetryProducer
	handlers   Handlers
	role       string
	log        *zap.Logger
}

// NewRouter creates a router. retry may be nil to disable the retry
// path; failures then go straight to the dead-letter topic.
func NewRouter(guard *Guard, deadLetter *DeadLetterRouter, retry *RetryProducer, handlers Handlers, role string) *Router {
	return &Router{
		guard:      guard,
		deadLetter: deadLetter,
		retry:      retry,
		handlers:   handlers,
		role:       role,
		log:        logger.GetLogger(),
	}
}

// EnvelopeFromRecord converts a consumed broker record into the event
// envelope the router works with.
func EnvelopeFromRecord(rec broker.Record) *event.Envelope {
	return &event.Envelope{
		Topic:     rec.Topic,
		Partition: rec.Partition,
		Offset:    rec.Offset,
		Key:       string(rec.Key),
		Value:     rec.Value,
		Headers:   rec.Headers,
		Timestamp: rec.Timestamp,
	}
}

// Route processes one envelope to a terminal status.
func (r *Router) Route(ctx context.Context, env *event.Envelope) Status {
	id := env.MessageID()
	if !r.guard.ShouldProcess(id) {
		duplicatesSkipped.WithLabelValues(env.Topic).Inc()
		r.log.Warn("duplicate message skipped",
			zap.String("message_id", id),
			zap.String("topic", env.Topic))
		return StatusSkippedDuplicate
	}

	work, topic, retryCount, err := r.unwrap(env)
	if err != nil {
		r.deadLetter.Route(ctx, env, err)
		r.mark(id, env, "")
		return StatusDeadLettered
	}
	if topic == event.TopicDeadLetter {
		// The dead-letter topic is written by us and read by tooling;
		// never re-process it.
		r.log.Debug("ignoring dead-letter topic record", zap.String("message_id", id))
		return StatusIgnored
	}

	payload, err := event.ParsePayload(work.Value)
	if err != nil {
		r.deadLetter.Route(ctx, env, err)
		r.mark(id, env, "")
		return StatusDeadLettered
	}

	if err := r.dispatch(ctx, topic, payload); err != nil {
		status := r.settleFailure(ctx, env, work, retryCount, err)
		r.mark(id, env, payload.EventType)
		return status
	}

	messagesProcessed.WithLabelValues(env.Topic).Inc()
	r.mark(id, env, payload.EventType)
	r.log.Info("message processed",
		zap.String("message_id", id),
		zap.String("topic", env.Topic),
		zap.String("event_type", payload.EventType))
	return StatusProcessed
}

// unwrap resolves the routable topic for an envelope. Records on a
// {topic}-retry topic carry a RetryRecord wrapper; the original value
// and attempt count are lifted out and routed as the base topic.
func (r *Router) unwrap(env *event.Envelope) (*event.Envelope, event.Topic, int, error) {
	name := env.Topic
	if base, isRetry := strings.CutSuffix(name, "-retry"); isRetry {
		topic, ok := event.ParseTopic(base)
		if !ok {
			return env, "", 0, errors.New("unroutable retry topic " + name)
		}
		var rec event.RetryRecord
		if err := json.Unmarshal(env.Value, &rec); err != nil {
			return env, "", 0, errors.New("malformed retry record: " + err.Error())
		}
		work := *env
		work.Topic = base
		work.Value = rec.OriginalData
		return &work, topic, rec.RetryCount, nil
	}

	topic, ok := event.ParseTopic(name)
	if !ok {
		return env, "", 0, errors.New("unroutable topic " + name)
	}
	return env, topic, 0, nil
}

func (r *Router) dispatch(ctx context.Context, topic event.Topic, payload *event.Payload) error {
	switch topic {
	case event.TopicProductEvents:
		return r.handlers.Products.Handle(ctx, payload)
	case event.TopicMemberEvents:
		return r.handlers.Members.Handle(ctx, payload)
	case event.TopicPrescriptionEvents:
		return r.handlers.Prescriptions.Handle(ctx, payload)
	case event.TopicPharmaEvents:
		return r.handlers.Pharma.Handle(ctx, payload)
	case event.TopicDeadLetter:
		return nil
	default:
		return errors.New("no handler for topic " + string(topic))
	}
}

// settleFailure decides between retry and dead-letter for a failed
// message and returns the resulting status. Not-found failures skip the
// retry path: redelivery cannot make a missing entity appear.
func (r *Router) settleFailure(ctx context.Context, env, work *event.Envelope, retryCount int, handleErr error) Status {
	r.log.Error("message handling failed",
		zap.String("message_id", env.MessageID()),
		zap.String("topic", env.Topic),
		zap.Int("retry_count", retryCount),
		zap.Error(handleErr))

	if r.retry != nil && work != nil && !errors.Is(handleErr, repository.ErrNotFound) {
		switch err := r.retry.Schedule(ctx, work, retryCount); {
		case err == nil:
			return StatusRetried
		case !errors.Is(err, ErrRetryExhausted):
			r.log.Error("retry scheduling failed, falling through to dead-letter",
				zap.String("message_id", env.MessageID()),
				zap.Error(err))
		}
	}

	r.deadLetter.Route(ctx, env, handleErr)
	return StatusDeadLettered
}

func (r *Router) mark(id string, env *event.Envelope, eventType string) {
	r.guard.MarkProcessed(id, ProcessedRecord{
		Timestamp: time.Now(),
		Topic:     env.Topic,
		Key:       env.Key,
		EventType: eventType,
		Role:      r.role,
	})
}
