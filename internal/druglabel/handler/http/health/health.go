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

// Package health exposes the liveness endpoint the peer container
// probes for failover decisions.
package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checks are the dependency probes reported by the health endpoint.
type Checks struct {
	// Role is the configured container role.
	Role string
	// State returns the current role-controller state string.
	State func() string
	// Broker reports producer connectivity.
	Broker func() bool
	// Database pings the database, returning an error when unreachable.
	Database func() error
}

// Handler serves GET /health.
type Handler struct {
	checks Checks
}

// NewHandler creates a health handler over the given probes.
func NewHandler(checks Checks) *Handler {
	return &Handler{checks: checks}
}

// RegisterRoutes registers the health endpoint on the router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
}

// Health reports overall instance health. Any failed dependency makes
// the whole response 503 so the peer's monitor counts it as a failure.
func (h *Handler) Health(c *gin.Context) {
	brokerOK := h.checks.Broker == nil || h.checks.Broker()

	dbOK := true
	var dbErr string
	if h.checks.Database != nil {
		if err := h.checks.Database(); err != nil {
			dbOK = false
			dbErr = err.Error()
		}
	}

	services := gin.H{
		"kafka":    statusWord(brokerOK),
		"database": statusWord(dbOK),
	}
	if dbErr != "" {
		services["database_error"] = dbErr
	}

	body := gin.H{
		"success":   brokerOK && dbOK,
		"container": h.checks.Role,
		"state":     h.checks.State(),
		"timestamp": time.Now().UnixMilli(),
		"services":  services,
	}

	if !brokerOK || !dbOK {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func statusWord(ok bool) string {
	if ok {
		return "healthy"
	}
	return "unhealthy"
}
