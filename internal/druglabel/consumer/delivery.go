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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/broker"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// Delivery decides where a consumed message is processed: on this
// instance or handed to the peer container.
type Delivery interface {
	Deliver(ctx context.Context, env *event.Envelope) Status
}

// LocalDelivery routes every message through the local router.
type LocalDelivery struct {
	router *Router
}

// NewLocalDelivery creates the in-process delivery strategy.
func NewLocalDelivery(router *Router) *LocalDelivery {
	return &LocalDelivery{router: router}
}

// Deliver routes the envelope locally.
func (d *LocalDelivery) Deliver(ctx context.Context, env *event.Envelope) Status {
	return d.router.Route(ctx, env)
}

// ForwardDelivery posts each envelope to the peer container's ingest
// endpoint and falls back to local routing when the peer is
// unreachable or rejects the message.
type ForwardDelivery struct {
	peerURL string
	client  *http.Client
	local   *LocalDelivery
	log     *zap.Logger
}

// NewForwardDelivery creates the peer-forwarding delivery strategy.
// local is the mandatory fallback.
func NewForwardDelivery(peerURL string, timeout time.Duration, local *LocalDelivery) *ForwardDelivery {
	return &ForwardDelivery{
		peerURL: peerURL,
		client:  &http.Client{Timeout: timeout},
		local:   local,
		log:     logger.GetLogger(),
	}
}

// Deliver forwards the envelope to the peer, falling back to local
// processing on any failure.
func (d *ForwardDelivery) Deliver(ctx context.Context, env *event.Envelope) Status {
	if err := d.forward(ctx, env); err != nil {
		forwardFallbacks.Inc()
		d.log.Warn("peer forward failed, processing locally",
			zap.String("message_id", env.MessageID()),
			zap.Error(err))
		return d.local.Deliver(ctx, env)
	}

	d.log.Debug("message forwarded to peer",
		zap.String("message_id", env.MessageID()),
		zap.String("peer_url", d.peerURL))
	return StatusProcessed
}

func (d *ForwardDelivery) forward(ctx context.Context, env *event.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.peerURL+"/internal/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build forward request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("forward to peer: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("peer rejected envelope with status %d", resp.StatusCode)
	}
	return nil
}

// AsHandler adapts a delivery strategy into the broker handler the
// subscribe path expects.
func AsHandler(delivery Delivery) broker.Handler {
	return func(ctx context.Context, rec broker.Record) error {
		delivery.Deliver(ctx, EnvelopeFromRecord(rec))
		return nil
	}
}
