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

// Package consumer implements the active/standby event core: role
// control, health-probe failover, message routing with duplicate
// suppression, and dead-letter handling.
package consumer

import (
	"container/list"
	"sync"
	"time"
)

// ProcessedRecord is the metadata kept for a processed message id.
type ProcessedRecord struct {
	Timestamp time.Time
	Topic     string
	Key       string
	EventType string
	Role      string
}

// Guard is a bounded, insertion-ordered cache of recently processed
// message ids. It is a fast path only: the cache is process-local and
// volatile, so absence never means "unprocessed". Durable duplicate
// suppression is the natural-key existence check in the repositories.
type Guard struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = oldest
}

type guardEntry struct {
	id  string
	rec ProcessedRecord
}

// NewGuard creates a guard with the given capacity. Capacity must be
// positive; the config layer enforces that.
func NewGuard(capacity int) *Guard {
	return &Guard{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// ShouldProcess reports whether the message id has not been seen in the
// current window. Callers must invoke MarkProcessed after handling.
func (g *Guard) ShouldProcess(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, seen := g.entries[id]
	return !seen
}

// MarkProcessed records a completed message id, evicting the oldest
// entry once capacity is exceeded.
func (g *Guard) MarkProcessed(id string, rec ProcessedRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if el, ok := g.entries[id]; ok {
		el.Value.(*guardEntry).rec = rec
		return
	}

	g.entries[id] = g.order.PushBack(&guardEntry{id: id, rec: rec})
	for g.order.Len() > g.capacity {
		oldest := g.order.Front()
		g.order.Remove(oldest)
		delete(g.entries, oldest.Value.(*guardEntry).id)
	}
}

// Lookup returns the recorded metadata for a message id.
func (g *Guard) Lookup(id string) (ProcessedRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	el, ok := g.entries[id]
	if !ok {
		return ProcessedRecord{}, false
	}
	return el.Value.(*guardEntry).rec, true
}

// Len returns the number of cached message ids.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.order.Len()
}
