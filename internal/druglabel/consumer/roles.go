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
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/broker"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// RoleState is the consumption posture of this instance.
type RoleState int32

const (
	// RoleStarting is the pre-Start state.
	RoleStarting RoleState = iota
	// RolePrimaryActive consumes from boot; the instance was configured
	// as the active processor.
	RolePrimaryActive
	// RoleStandbyPassive monitors the peer and does not consume.
	RoleStandbyPassive
	// RoleStandbyPromoted was standby and took over after peer failure.
	// Promotion is permanent until restart.
	RoleStandbyPromoted
)

// String implements fmt.Stringer for log fields and health reporting.
func (s RoleState) String() string {
	switch s {
	case RoleStarting:
		return "STARTING"
	case RolePrimaryActive:
		return "PRIMARY_ACTIVE"
	case RoleStandbyPassive:
		return "STANDBY_PASSIVE"
	case RoleStandbyPromoted:
		return "STANDBY_PROMOTED"
	default:
		return "UNKNOWN"
	}
}

// Subscriber is the consuming side of the broker client the controller
// needs.
type Subscriber interface {
	Subscribe(ctx context.Context, topics []string, handler broker.Handler) error
}

// RoleController decides whether this instance consumes. The active
// instance subscribes immediately; the standby instance watches the
// peer and promotes itself once the health monitor gives up on it.
// There is no automatic failback: once promoted, the instance stays
// active until it is restarted with an operator decision.
type RoleController struct {
	initiallyActive bool
	topics          []string
	subscriber      Subscriber
	handler         broker.Handler
	monitor         *HealthMonitor
	state           atomic.Int32
	log             *zap.Logger
}

// NewRoleController creates a controller. monitor may be nil when the
// instance is initially active and has no peer to watch.
func NewRoleController(initiallyActive bool, topics []string, subscriber Subscriber, handler broker.Handler, monitor *HealthMonitor) *RoleController {
	c := &RoleController{
		initiallyActive: initiallyActive,
		topics:          topics,
		subscriber:      subscriber,
		handler:         handler,
		monitor:         monitor,
		log:             logger.GetLogger(),
	}
	c.state.Store(int32(RoleStarting))
	return c
}

// Start begins consumption or peer monitoring depending on the
// configured posture.
func (c *RoleController) Start(ctx context.Context) error {
	if c.initiallyActive {
		if err := c.subscriber.Subscribe(ctx, c.topics, c.handler); err != nil {
			return fmt.Errorf("start active consumption: %w", err)
		}
		c.state.Store(int32(RolePrimaryActive))
		c.log.Info("role controller started",
			zap.Stringer("state", RolePrimaryActive),
			zap.Strings("topics", c.topics))
		return nil
	}

	c.state.Store(int32(RoleStandbyPassive))
	c.log.Info("role controller started", zap.Stringer("state", RoleStandbyPassive))
	if c.monitor != nil {
		c.monitor.Start(ctx, func() {
			if err := c.Promote(ctx); err != nil {
				c.log.Error("failover promotion failed", zap.Error(err))
			}
		})
	}
	return nil
}

// Promote switches a passive standby to active consumption. It is
// idempotent: concurrent or repeated calls promote at most once.
func (c *RoleController) Promote(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(RoleStandbyPassive), int32(RoleStandbyPromoted)) {
		c.log.Warn("promotion requested but instance is not passive standby",
			zap.Stringer("state", c.State()))
		return nil
	}

	c.log.Warn("peer declared failed, promoting standby to active consumption",
		zap.Strings("topics", c.topics))

	if err := c.subscriber.Subscribe(ctx, c.topics, c.handler); err != nil {
		// Keep the promoted state: retrying a failed subscribe is the
		// caller's decision, and falling back to passive would leave
		// both instances idle.
		return fmt.Errorf("subscribe after promotion: %w", err)
	}

	failoverPromotions.Inc()
	return nil
}

// Stop halts peer monitoring. Consumption shutdown is owned by the
// broker client.
func (c *RoleController) Stop() {
	if c.monitor != nil {
		c.monitor.Stop()
	}
}

// State returns the current role state.
func (c *RoleController) State() RoleState {
	return RoleState(c.state.Load())
}

// IsConsuming reports whether this instance is actively consuming.
func (c *RoleController) IsConsuming() bool {
	s := c.State()
	return s == RolePrimaryActive || s == RoleStandbyPromoted
}
