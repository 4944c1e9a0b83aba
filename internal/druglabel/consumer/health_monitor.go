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
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// HealthMonitor probes the peer container's health endpoint on a fixed
// interval and fires the failover callback after a run of consecutive
// failures. The callback fires at most once for the monitor's lifetime;
// recovery of the peer after promotion never demotes this instance.
type HealthMonitor struct {
	peerURL   string
	interval  time.Duration
	threshold int
	client    *http.Client
	log       *zap.Logger

	mu       sync.Mutex
	failures int
	fired    bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewHealthMonitor creates a monitor probing peerURL + "/health".
func NewHealthMonitor(peerURL string, interval, probeTimeout time.Duration, threshold int) *HealthMonitor {
	return &HealthMonitor{
		peerURL:   peerURL,
		interval:  interval,
		threshold: threshold,
		client:    &http.Client{Timeout: probeTimeout},
		log:       logger.GetLogger(),
	}
}

// Start launches the probe loop. onFailover is invoked from the loop
// goroutine when the failure threshold is crossed.
func (m *HealthMonitor) Start(ctx context.Context, onFailover func()) {
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.log.Info("peer health monitoring started",
		zap.String("peer_url", m.peerURL),
		zap.Duration("interval", m.interval),
		zap.Int("failure_threshold", m.threshold))

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if m.probe(ctx) {
					m.recordSuccess()
					continue
				}
				if m.recordFailure() {
					onFailover()
					return
				}
			}
		}
	}()
}

// Stop terminates the probe loop and waits for it to exit.
func (m *HealthMonitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Failures returns the current consecutive failure count.
func (m *HealthMonitor) Failures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

func (m *HealthMonitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.peerURL+"/health", nil)
	if err != nil {
		m.log.Error("building peer health request failed", zap.Error(err))
		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		m.log.Warn("peer health probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.log.Warn("peer reported unhealthy",
			zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

func (m *HealthMonitor) recordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.log.Info("peer recovered", zap.Int("previous_failures", m.failures))
	}
	m.failures = 0
}

// recordFailure increments the consecutive failure count and reports
// whether the threshold was crossed for the first time.
func (m *HealthMonitor) recordFailure() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
	m.log.Warn(fmt.Sprintf("peer health check failed (%d/%d)", m.failures, m.threshold))
	if m.failures >= m.threshold && !m.fired {
		m.fired = true
		return true
	}
	return false
}
