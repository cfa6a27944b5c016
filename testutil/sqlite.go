package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/seedkit/component"
	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/logger"
)

// SQLiteComponent is a file-backed SQLite database with foreign keys on.
// The schema statements run on every Start.
type SQLiteComponent struct {
	name string
	path string
	ddl  []string
	db   *database.DB
}

var _ TestComponent = (*SQLiteComponent)(nil)

// NewSQLiteComponent creates a SQLite component storing its file in dir.
func NewSQLiteComponent(name, dir string, ddl ...string) *SQLiteComponent {
	return &SQLiteComponent{
		name: name,
		path: filepath.Join(dir, name+".db"),
		ddl:  ddl,
	}
}

// DB returns the open database, or nil before Start.
func (c *SQLiteComponent) DB() *database.DB { return c.db }

// Name returns the component name.
func (c *SQLiteComponent) Name() string { return "sqlite." + c.name }

// Start opens the database and applies the schema.
func (c *SQLiteComponent) Start(ctx context.Context) error {
	db, err := database.Open(ctx, database.Config{
		Name:       c.name,
		Driver:     database.DriverSQLite,
		DSN:        c.path + "?_foreign_keys=on",
		MaxRetries: 1,
		LogLevel:   "silent",
	}, logger.Nop())
	if err != nil {
		return err
	}
	for _, stmt := range c.ddl {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			_ = db.Close()
			return fmt.Errorf("schema %q: %w", stmt, err)
		}
	}
	c.db = db
	return nil
}

// Stop closes the database.
func (c *SQLiteComponent) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health reports whether the database answers a ping.
func (c *SQLiteComponent) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset deletes every row from every table with foreign keys off. All
// statements share one connection, since the pragma is connection scoped.
func (c *SQLiteComponent) Reset(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("%s not started", c.Name())
	}
	return c.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		tables, err := database.ListTables(conn)
		if err != nil {
			return err
		}
		if err := conn.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return err
		}
		defer conn.Exec("PRAGMA foreign_keys = ON")

		for _, table := range tables {
			if err := database.DeleteAll(conn, table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

// NewSQLite starts a SQLite database in t.TempDir, applies ddl and closes
// it when the test ends.
func NewSQLite(t testing.TB, ddl ...string) *database.DB {
	t.Helper()
	comp := NewSQLiteComponent("test", t.TempDir(), ddl...)
	T(t).Setup(comp)
	return comp.DB()
}
