package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/seedkit/component"
	"github.com/kbukum/seedkit/logger"
)

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db        *DB
	cfg       Config
	log       *logger.Logger
	dialector gorm.Dialector
}

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: logger.OrGlobal(log).WithComponent("database"),
	}
}

// WithDialector overrides the built-in dialector for cfg.Driver.
func (c *Component) WithDialector(d gorm.Dialector) *Component {
	c.dialector = d
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

// ensure Component satisfies component.Component
var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "database." + c.cfg.Name }

// Start connects to the database.
func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	dialector := c.dialector
	if dialector == nil {
		var err error
		if dialector, err = DialectorFor(c.cfg); err != nil {
			return err
		}
	}
	db, err := NewWithContext(ctx, dialector, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db
	return nil
}

// Stop gracefully closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health returns the current health status of the database.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not initialized",
		}
	}

	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns a one-line summary for the CLI.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "database",
		Details: fmt.Sprintf("%s pool=%d/%d", c.cfg.Driver, c.cfg.MaxOpenConns, c.cfg.MaxIdleConns),
	}
}
