package database

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTruncateUnsupported is returned by TruncateTable on engines without
// a TRUNCATE statement.
var ErrTruncateUnsupported = stderrors.New("truncate is not supported by this dialect")

// Dialect returns the GORM dialector name: "sqlite", "mysql", "postgres".
func (d *DB) Dialect() string {
	return d.GormDB.Dialector.Name()
}

// SetForeignKeyChecks turns referential integrity enforcement on or off.
// The statements are connection scoped and run on whichever pooled
// connection is free; use a Session when later statements must see the
// change.
func (d *DB) SetForeignKeyChecks(ctx context.Context, enabled bool) error {
	return d.setForeignKeyChecks(d.GormDB.WithContext(ctx), enabled)
}

func (d *DB) setForeignKeyChecks(tx *gorm.DB, enabled bool) error {
	stmt, ok := foreignKeyStatement(d.Dialect(), enabled)
	if !ok {
		d.log.Debug("Dialect has no foreign key toggle", map[string]interface{}{"dialect": d.Dialect()})
		return nil
	}
	if err := tx.Exec(stmt).Error; err != nil {
		return FromDatabase(fmt.Errorf("%s: %w", stmt, err), "foreign key checks")
	}
	return nil
}

func foreignKeyStatement(dialect string, enabled bool) (string, bool) {
	switch dialect {
	case DriverSQLite:
		if enabled {
			return "PRAGMA foreign_keys = ON", true
		}
		return "PRAGMA foreign_keys = OFF", true
	case DriverMySQL:
		if enabled {
			return "SET FOREIGN_KEY_CHECKS = 1", true
		}
		return "SET FOREIGN_KEY_CHECKS = 0", true
	case DriverPostgres:
		if enabled {
			return "SET session_replication_role = 'origin'", true
		}
		return "SET session_replication_role = 'replica'", true
	default:
		return "", false
	}
}

// ForeignKeysEnabled reports whether sqlite currently enforces foreign keys.
// Other dialects always report true.
func (d *DB) ForeignKeysEnabled(ctx context.Context) (bool, error) {
	return d.foreignKeysEnabled(d.GormDB.WithContext(ctx))
}

func (d *DB) foreignKeysEnabled(tx *gorm.DB) (bool, error) {
	if d.Dialect() != DriverSQLite {
		return true, nil
	}
	var on int
	if err := tx.Raw("PRAGMA foreign_keys").Scan(&on).Error; err != nil {
		return false, FromDatabase(err, "foreign key checks")
	}
	return on == 1, nil
}

// Tables lists user tables in name order.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	return ListTables(d.GormDB.WithContext(ctx))
}

// ListTables lists user tables visible to tx in name order. Use it inside
// a transaction when the pool holds a single connection.
func ListTables(tx *gorm.DB) ([]string, error) {
	tables, err := tx.Migrator().GetTables()
	if err != nil {
		return nil, FromDatabase(err, "tables")
	}
	tables = slices.DeleteFunc(tables, func(name string) bool {
		return strings.HasPrefix(name, "sqlite_")
	})
	slices.Sort(tables)
	return tables, nil
}

// SupportsTruncate reports whether TruncateTable can run on this dialect.
func (d *DB) SupportsTruncate() bool {
	return d.Dialect() != DriverSQLite
}

// TruncateTable empties table with TRUNCATE on tx.
func (d *DB) TruncateTable(tx *gorm.DB, table string) error {
	switch d.Dialect() {
	case DriverSQLite:
		return ErrTruncateUnsupported
	case DriverPostgres:
		return tx.Exec("TRUNCATE TABLE ? CASCADE", clause.Table{Name: table}).Error
	default:
		return tx.Exec("TRUNCATE TABLE ?", clause.Table{Name: table}).Error
	}
}

// DeleteAll removes every row from table on tx.
func DeleteAll(tx *gorm.DB, table string) error {
	return tx.Exec("DELETE FROM ?", clause.Table{Name: table}).Error
}

// CountRows returns the number of rows in table.
func (d *DB) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	err := d.GormDB.WithContext(ctx).Table(table).Count(&n).Error
	return n, err
}
