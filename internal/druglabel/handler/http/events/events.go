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

// Package events exposes the internal ingest endpoint the peer
// container forwards consumed messages to.
package events

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/consumer"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

// EventRouter routes one envelope to a terminal status.
type EventRouter interface {
	Route(ctx context.Context, env *event.Envelope) consumer.Status
}

// Handler serves POST /internal/events.
type Handler struct {
	router EventRouter
	log    *zap.Logger
}

// NewHandler creates an ingest handler over the message router.
func NewHandler(router EventRouter) *Handler {
	return &Handler{router: router, log: logger.GetLogger()}
}

// RegisterRoutes registers the ingest endpoint on the router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/internal/events", h.Ingest)
}

// Ingest accepts a forwarded envelope and settles it through the local
// router. Any terminal status is a 200: the forwarding peer must not
// fall back and process the message a second time once it was settled
// here, even when settling meant the dead-letter topic.
func (h *Handler) Ingest(c *gin.Context) {
	var env event.Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "malformed envelope: " + err.Error(),
		})
		return
	}
	if env.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "envelope missing topic",
		})
		return
	}

	status := h.router.Route(c.Request.Context(), &env)
	h.log.Debug("forwarded envelope settled",
		zap.String("message_id", env.MessageID()),
		zap.Stringer("status", status))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status.String(),
	})
}
