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

// Package server assembles one backend instance: database, broker
// client, the event core and the HTTP surface.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/config"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/consumer"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/db"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/event"
	eventshandler "github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/handler/http/events"
	healthhandler "github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/handler/http/health"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/internal/druglabel/repository"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/broker"
	"github.com/zZBANK22Zz/Wang-Drug-Label-Backend/pkg/logger"
)

const shutdownDrainTimeout = 10 * time.Second

// Server is one running backend instance.
type Server struct {
	cfg    *config.Config
	log    *zap.Logger
	gormDB *gorm.DB
	broker *broker.Client
	roles  *consumer.RoleController
	router *consumer.Router
	httpd  *http.Server
}

// NewServer wires every component from configuration. The broker is not
// dialed yet; Start owns all network activity.
func NewServer(cfg *config.Config) (*Server, error) {
	log := logger.GetLogger()

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	client, err := broker.NewClient(&broker.Config{
		Endpoints:          cfg.Kafka.Brokers,
		ConsumerGroup:      cfg.Kafka.ConsumerGroup,
		ContainerRole:      cfg.Container.Role,
		ConnectMaxAttempts: cfg.Kafka.ConnectMaxAttempts,
	})
	if err != nil {
		return nil, err
	}

	role := cfg.Container.Role
	guard := consumer.NewGuard(cfg.Idempotency.CacheCapacity)
	deadLetter := consumer.NewDeadLetterRouter(client, cfg.Kafka.DeadLetterTopic, role)
	var retry *consumer.RetryProducer
	if cfg.Delivery.MaxRetries > 0 {
		retry = consumer.NewRetryProducer(client, role, cfg.Delivery.MaxRetries)
	}

	router := consumer.NewRouter(guard, deadLetter, retry, consumer.Handlers{
		Products:      consumer.NewProductHandler(repository.NewProductRepository(gormDB)),
		Members:       consumer.NewMemberHandler(repository.NewMemberRepository(gormDB)),
		Prescriptions: consumer.NewPrescriptionHandler(repository.NewPrescriptionRepository(gormDB)),
		Pharma:        consumer.NewPharmaHandler(repository.NewPharmaRepository(gormDB)),
	}, role)

	local := consumer.NewLocalDelivery(router)
	var delivery consumer.Delivery = local
	if cfg.Delivery.Mode == config.DeliveryForward {
		delivery = consumer.NewForwardDelivery(cfg.Container.PeerURL, cfg.Health.ProbeTimeout, local)
	}

	var monitor *consumer.HealthMonitor
	if !cfg.IsInitiallyActive() {
		monitor = consumer.NewHealthMonitor(cfg.Container.PeerURL,
			cfg.Health.Interval, cfg.Health.ProbeTimeout, cfg.Health.FailureThreshold)
	}

	roles := consumer.NewRoleController(cfg.IsInitiallyActive(),
		subscribeTopics(cfg.Kafka.Topics), client, consumer.AsHandler(delivery), monitor)

	s := &Server{
		cfg:    cfg,
		log:    log,
		gormDB: gormDB,
		broker: client,
		roles:  roles,
		router: router,
	}
	s.httpd = &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: s.buildEngine(),
	}
	return s, nil
}

// subscribeTopics appends the per-domain retry topic for every known
// base topic so re-published failures flow back through the router.
func subscribeTopics(base []string) []string {
	topics := make([]string, 0, 2*len(base))
	for _, name := range base {
		topics = append(topics, name)
		if t, ok := event.ParseTopic(name); ok && t != event.TopicDeadLetter {
			topics = append(topics, event.RetryTopic(t))
		}
	}
	return topics
}

func (s *Server) buildEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	healthhandler.NewHandler(healthhandler.Checks{
		Role:   s.cfg.Container.Role,
		State:  func() string { return s.roles.State().String() },
		Broker: s.broker.Connected,
		Database: func() error {
			sqlDB, err := s.gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Ping()
		},
	}).RegisterRoutes(engine)

	eventshandler.NewHandler(s.router).RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return engine
}

// Start connects the broker, starts the role controller and serves
// HTTP. It blocks until the HTTP server stops.
func (s *Server) Start(ctx context.Context) error {
	if err := s.broker.Connect(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := s.roles.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	s.log.Info("server listening",
		zap.String("addr", s.httpd.Addr),
		zap.String("container", s.cfg.Container.Role),
		zap.Stringer("role_state", s.roles.State()))

	if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: http listener: %w", err)
	}
	return nil
}

// Shutdown drains consumption, closes the broker session and stops the
// HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	s.roles.Stop()
	s.broker.Unsubscribe(shutdownDrainTimeout)
	if err := s.broker.Close(); err != nil {
		s.log.Warn("broker close failed", zap.Error(err))
	}

	if err := s.httpd.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: http shutdown: %w", err)
	}

	if sqlDB, err := s.gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.log.Warn("database close failed", zap.Error(err))
		}
	}

	s.log.Info("server stopped")
	return nil
}
