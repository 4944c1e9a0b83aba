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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthMonitorFiresAfterConsecutiveFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewHealthMonitor(srv.URL, 10*time.Millisecond, time.Second, 3)
	fired := make(chan struct{})
	m.Start(context.Background(), func() { close(fired) })
	defer m.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("failover callback never fired")
	}
	assert.GreaterOrEqual(t, m.Failures(), 3)
}

func TestHealthMonitorResetsOnRecovery(t *testing.T) {
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewHealthMonitor(srv.URL, 10*time.Millisecond, time.Second, 50)
	var fires atomic.Int32
	m.Start(context.Background(), func() { fires.Add(1) })
	defer m.Stop()

	// Let a few failures accumulate, then recover.
	assert.Eventually(t, func() bool { return m.Failures() >= 2 }, time.Second, 5*time.Millisecond)
	healthy.Store(true)
	assert.Eventually(t, func() bool { return m.Failures() == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), fires.Load())
}

func TestHealthMonitorFiresAtMostOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewHealthMonitor(srv.URL, 5*time.Millisecond, time.Second, 2)
	var fires atomic.Int32
	m.Start(context.Background(), func() { fires.Add(1) })

	assert.Eventually(t, func() bool { return fires.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
	m.Stop()
}

func TestHealthMonitorStopTerminatesLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewHealthMonitor(srv.URL, 5*time.Millisecond, time.Second, 3)
	m.Start(context.Background(), func() { t.Error("healthy peer must not trigger failover") })

	time.Sleep(30 * time.Millisecond)
	m.Stop()
	// Stop waits for the loop; reaching here without deadlock is the assertion.
}

func TestHealthMonitorUnreachablePeerCountsAsFailure(t *testing.T) {
	// Closed server: connection refused on every probe.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	m := NewHealthMonitor(url, 10*time.Millisecond, 100*time.Millisecond, 2)
	fired := make(chan struct{})
	m.Start(context.Background(), func() { close(fired) })
	defer m.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("unreachable peer never triggered failover")
	}
}
