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

// Package event defines the wire contract shared by producers and the
// event consumer: topics, message envelopes, domain payloads and the
// dead-letter/retry records.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is a single consumed record with its broker coordinates.
// (Topic, Partition, Offset) is globally unique per broker guarantee and
// serves as the deduplication identity; Key is the entity natural key
// used as a secondary idempotency hint.
type Envelope struct {
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Key       string            `json:"key,omitempty"`
	Value     json.RawMessage   `json:"value"`
	Headers   map[string]string `json:"headers,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// MessageID returns the dedup identity of this envelope.
func (e *Envelope) MessageID() string {
	return fmt.Sprintf("%s-%d-%d", e.Topic, e.Partition, e.Offset)
}

// Payload is the domain payload carried in every event value.
type Payload struct {
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
	Source    string          `json:"source,omitempty"`
	Timestamp int64           `json:"timestamp,omitempty"`
}

// ParsePayload decodes the envelope value into the common payload shape.
func ParsePayload(value []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(value, &p); err != nil {
		return nil, fmt.Errorf("malformed event payload: %w", err)
	}
	if p.EventType == "" {
		return nil, fmt.Errorf("event payload missing eventType")
	}
	return &p, nil
}
