package orm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kbukum/seedkit/database"
	"github.com/kbukum/seedkit/fixture"
)

// DefaultPrimaryKey is the primary key column when a file sets none.
const DefaultPrimaryKey = "id"

// Fixture inserts the entries of one fixture file into a table.
type Fixture struct {
	model      string
	table      string
	primaryKey string
	entries    *fixture.Map
}

var _ fixture.Fixture = (*Fixture)(nil)

// NewFixture is the orm StrategyFactory.
func NewFixture(rec *fixture.Record) (fixture.Fixture, error) {
	entries, err := rec.Entries()
	if err != nil {
		return nil, err
	}
	for name, v := range entries.All() {
		if _, ok := v.(*fixture.Map); !ok && v != nil {
			return nil, fmt.Errorf("fixture %q must be a mapping of field to value", name)
		}
	}
	return &Fixture{
		model:      rec.Model,
		table:      rec.String(fixture.KeyTable, ""),
		primaryKey: rec.String(fixture.KeyPrimaryKey, DefaultPrimaryKey),
		entries:    entries,
	}, nil
}

// Table returns the target table, deriving it from the model's type name
// with the database's naming strategy when no table was set.
func (f *Fixture) Table(db *database.DB) string {
	if f.table != "" {
		return f.table
	}
	return db.GormDB.NamingStrategy.TableName(fixture.TypeName(f.model))
}

// Load inserts every entry in file order inside one transaction and
// registers each row as a fixture.Entity under its entry name.
func (f *Fixture) Load(ctx context.Context, m fixture.Manager, refs *fixture.References) error {
	mgr, ok := m.(*Manager)
	if !ok {
		return fmt.Errorf("orm fixture needs an orm manager, got %T", m)
	}
	table := f.Table(mgr.db)

	return mgr.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		for name, v := range f.entries.All() {
			fields, _ := v.(*fixture.Map)
			row, err := refs.ResolveFields(fields)
			if err != nil {
				return fmt.Errorf("fixture %q: %w", name, err)
			}
			if row[f.primaryKey] == nil {
				id, err := uuid.NewV7()
				if err != nil {
					return err
				}
				row[f.primaryKey] = id.String()
			}

			values, err := columnValues(row)
			if err != nil {
				return fmt.Errorf("fixture %q: %w", name, err)
			}
			if err := tx.Table(table).Create(values).Error; err != nil {
				return fmt.Errorf("fixture %q: insert into %s: %w", name, table, database.FromDatabase(err, table))
			}

			refs.Set(name, &fixture.Entity{
				Model:  f.model,
				Name:   name,
				ID:     row[f.primaryKey],
				Fields: row,
			})
		}
		return nil
	})
}

// columnValues stores nested mappings and sequences as JSON text.
func columnValues(row map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(row))
	for k, v := range row {
		switch v.(type) {
		case map[string]any, []any:
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", k, err)
			}
			out[k] = string(raw)
		default:
			out[k] = v
		}
	}
	return out, nil
}
