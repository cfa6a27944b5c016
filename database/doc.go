// Package database provides a GORM-based database component with connection
// pooling, retrying connects, transactions, and the dialect-specific
// operations the fixture purger needs: listing tables, toggling foreign key
// enforcement, and truncating tables.
//
// # Quick Start
//
//	cfg := database.Config{Name: "default", Driver: "sqlite", DSN: "fixtures.db?_foreign_keys=on"}
//	comp := database.NewComponent(cfg, log)
//	registry.Register(comp)
//	registry.StartAll(ctx)
//	db := comp.DB()
//
// SQLite is built in. Other engines are used by passing their GORM dialector
// with WithDialector; the integrity toggle and truncate support follow the
// dialector's name ("mysql", "postgres").
//
// SQLite pragmas are scoped to a connection, so sqlite configs default to a
// single open connection.
package database
