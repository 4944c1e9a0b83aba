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

package broker

import (
	"fmt"
	"time"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/resilience"
)

// SchemaVersion is attached to every published message header.
const SchemaVersion = "1.0"

// Standard header keys.
const (
	HeaderContainerRole = "x-container-role"
	HeaderSchemaVersion = "x-schema-version"
)

// Config configures a broker Client.
type Config struct {
	// Endpoints is the Kafka bootstrap address list.
	Endpoints []string

	// ClientID identifies this process to the broker.
	ClientID string

	// ConsumerGroup is the consumer group id shared by both instances.
	ConsumerGroup string

	// ContainerRole is "main" or "secondary". The secondary instance is
	// given tighter group timeouts so the broker detects its departure
	// faster during failover.
	ContainerRole string

	// DialTimeout bounds broker connection attempts.
	DialTimeout time.Duration

	// SessionTimeout and HeartbeatInterval control consumer group
	// membership. Zero values are filled from the container role.
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration

	// MaxWait bounds how long a fetch blocks waiting for records.
	MaxWait time.Duration

	// ConnectMaxAttempts bounds the connect retry loop; exhausting it is
	// fatal to the caller.
	ConnectMaxAttempts int

	// Retry configures the delay between connection attempts.
	Retry resilience.Config
}

// ApplyDefaults fills zero-valued fields, deriving group timeouts from
// the container role the way the deployment expects: the secondary
// (initially active) instance heartbeats aggressively, the main
// (standby) instance uses relaxed timeouts.
func (c *Config) ApplyDefaults() {
	if c.ClientID == "" {
		c.ClientID = fmt.Sprintf("drug-label-%s", c.roleOrDefault())
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "primary-processors"
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.SessionTimeout <= 0 {
		if c.roleOrDefault() == "secondary" {
			c.SessionTimeout = 6 * time.Second
		} else {
			c.SessionTimeout = 30 * time.Second
		}
	}
	if c.HeartbeatInterval <= 0 {
		if c.roleOrDefault() == "secondary" {
			c.HeartbeatInterval = 1 * time.Second
		} else {
			c.HeartbeatInterval = 3 * time.Second
		}
	}
	if c.MaxWait <= 0 {
		if c.roleOrDefault() == "secondary" {
			c.MaxWait = 100 * time.Millisecond
		} else {
			c.MaxWait = 1 * time.Second
		}
	}
	if c.ConnectMaxAttempts <= 0 {
		c.ConnectMaxAttempts = 8
	}
	if c.Retry.InitialDelay <= 0 {
		c.Retry = resilience.DefaultConfig()
	}
}

// Validate reports configuration errors that would make the client
// unusable.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("broker: at least one endpoint is required")
	}
	switch c.ContainerRole {
	case "main", "secondary":
	default:
		return fmt.Errorf("broker: container role must be main or secondary, got %q", c.ContainerRole)
	}
	return nil
}

func (c *Config) roleOrDefault() string {
	if c.ContainerRole == "" {
		return "main"
	}
	return c.ContainerRole
}
