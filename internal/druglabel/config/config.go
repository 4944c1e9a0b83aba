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

// Package config loads the instance configuration from druglabel.yaml
// and DRUGLABEL_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// RoleMain and RoleSecondary are the two deployable container roles.
// The secondary instance starts as the active processor, the main
// instance starts as the passive standby.
const (
	RoleMain      = "main"
	RoleSecondary = "secondary"
)

// Delivery modes for consumed messages.
const (
	DeliveryLocal   = "local"
	DeliveryForward = "forward"
)

// Config is the full configuration surface of one backend instance.
type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		DBName   string `mapstructure:"dbname"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Kafka struct {
		Brokers            []string `mapstructure:"brokers"`
		ConsumerGroup      string   `mapstructure:"consumer_group"`
		Topics             []string `mapstructure:"topics"`
		DeadLetterTopic    string   `mapstructure:"dead_letter_topic"`
		ConnectMaxAttempts int      `mapstructure:"connect_max_attempts"`
	} `mapstructure:"kafka"`

	Container struct {
		Role    string `mapstructure:"role"`
		PeerURL string `mapstructure:"peer_url"`
	} `mapstructure:"container"`

	Health struct {
		Interval         time.Duration `mapstructure:"interval"`
		ProbeTimeout     time.Duration `mapstructure:"probe_timeout"`
		FailureThreshold int           `mapstructure:"failure_threshold"`
	} `mapstructure:"health"`

	Idempotency struct {
		CacheCapacity int `mapstructure:"cache_capacity"`
	} `mapstructure:"idempotency"`

	Delivery struct {
		Mode       string `mapstructure:"mode"`
		MaxRetries int    `mapstructure:"max_retries"`
	} `mapstructure:"delivery"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig loads the configuration exactly once and returns it.
// Missing config files are tolerated; every knob has a default and an
// environment override.
func GetConfig() *Config {
	once.Do(func() {
		c, err := Load(viper.New())
		if err != nil {
			panic(fmt.Errorf("FATAL ERROR CONFIG: %w", err))
		}
		cfg = c
	})
	return cfg
}

// Load reads configuration from druglabel.yaml plus environment
// variables into a fresh Config. Exposed separately from GetConfig so
// tests can build isolated instances.
func Load(v *viper.Viper) (*Config, error) {
	v.SetConfigName("druglabel")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/druglabel")

	v.SetEnvPrefix("DRUGLABEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.username", "druglabel")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "druglabel")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group", "primary-processors")
	v.SetDefault("kafka.topics", []string{
		"product-events", "member-events", "prescription-events", "pharma-events",
	})
	v.SetDefault("kafka.dead_letter_topic", "dead-letter-queue")
	v.SetDefault("kafka.connect_max_attempts", 8)

	v.SetDefault("container.role", RoleMain)
	v.SetDefault("container.peer_url", "http://second-backend:3001")

	v.SetDefault("health.interval", 10*time.Second)
	v.SetDefault("health.probe_timeout", 5*time.Second)
	v.SetDefault("health.failure_threshold", 3)

	v.SetDefault("idempotency.cache_capacity", 1000)

	v.SetDefault("delivery.mode", DeliveryLocal)
	v.SetDefault("delivery.max_retries", 3)
}

// Validate rejects configurations the event core cannot run with.
func (c *Config) Validate() error {
	switch c.Container.Role {
	case RoleMain, RoleSecondary:
	default:
		return fmt.Errorf("container.role must be %q or %q, got %q", RoleMain, RoleSecondary, c.Container.Role)
	}
	switch c.Delivery.Mode {
	case DeliveryLocal, DeliveryForward:
	default:
		return fmt.Errorf("delivery.mode must be %q or %q, got %q", DeliveryLocal, DeliveryForward, c.Delivery.Mode)
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers must not be empty")
	}
	if len(c.Kafka.Topics) == 0 {
		return fmt.Errorf("kafka.topics must not be empty")
	}
	if c.Health.FailureThreshold <= 0 {
		return fmt.Errorf("health.failure_threshold must be positive")
	}
	if c.Idempotency.CacheCapacity <= 0 {
		return fmt.Errorf("idempotency.cache_capacity must be positive")
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Database.Host, c.Database.Username, c.Database.Password,
		c.Database.DBName, c.Database.Port, c.Database.SSLMode)
}

// IsInitiallyActive reports whether this role starts as the active
// processor. The secondary instance processes from startup; the main
// instance stands by.
func (c *Config) IsInitiallyActive() bool {
	return c.Container.Role == RoleSecondary
}
