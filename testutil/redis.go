package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/seedkit/component"
	"github.com/kbukum/seedkit/logger"
	"github.com/kbukum/seedkit/redis"
)

// RedisComponent runs an in-process miniredis server with a connected client.
type RedisComponent struct {
	cfg    redis.Config
	server *miniredis.Miniredis
	client *redis.Client
}

var _ TestComponent = (*RedisComponent)(nil)

// NewRedisComponent creates a miniredis-backed component. Addr in cfg is
// ignored and replaced with the server's address on Start.
func NewRedisComponent(cfg redis.Config) *RedisComponent {
	cfg.ApplyDefaults()
	return &RedisComponent{cfg: cfg}
}

// Client returns the connected client, or nil before Start.
func (c *RedisComponent) Client() *redis.Client { return c.client }

// Server returns the miniredis server for direct inspection.
func (c *RedisComponent) Server() *miniredis.Miniredis { return c.server }

// Name returns the component name.
func (c *RedisComponent) Name() string { return "miniredis." + c.cfg.Name }

// Start launches miniredis and connects a client to it.
func (c *RedisComponent) Start(ctx context.Context) error {
	srv := miniredis.NewMiniRedis()
	if err := srv.Start(); err != nil {
		return fmt.Errorf("miniredis start: %w", err)
	}
	cfg := c.cfg
	cfg.Addr = srv.Addr()
	client, err := redis.New(cfg, logger.Nop())
	if err != nil {
		srv.Close()
		return err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		srv.Close()
		return err
	}
	c.server, c.client = srv, client
	return nil
}

// Stop closes the client and the server.
func (c *RedisComponent) Stop(_ context.Context) error {
	if c.server == nil {
		return nil
	}
	err := c.client.Close()
	c.server.Close()
	c.server, c.client = nil, nil
	return err
}

// Health reports whether the server is running.
func (c *RedisComponent) Health(ctx context.Context) component.Health {
	if c.client == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.client.Ping(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset flushes every database on the server.
func (c *RedisComponent) Reset(_ context.Context) error {
	if c.server == nil {
		return fmt.Errorf("%s not started", c.Name())
	}
	c.server.FlushAll()
	return nil
}

// NewRedis starts miniredis with a "default" client under the "fixtures"
// prefix and stops it when the test ends.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	comp := NewRedisComponent(redis.Config{Name: "default"})
	T(t).Setup(comp)
	return comp.Client(), comp.Server()
}
