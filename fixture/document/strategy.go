package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm/schema"

	"github.com/kbukum/seedkit/fixture"
	"github.com/kbukum/seedkit/redis"
)

// DefaultPrimaryKey is the id field when a file sets none.
const DefaultPrimaryKey = "id"

var naming = schema.NamingStrategy{}

// Fixture stores the entries of one fixture file as documents.
type Fixture struct {
	model      string
	collection string
	primaryKey string
	entries    *fixture.Map
}

var _ fixture.Fixture = (*Fixture)(nil)

// NewFixture is the document-store StrategyFactory.
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
	collection := rec.String(fixture.KeyTable, "")
	if collection == "" {
		collection = naming.TableName(fixture.TypeName(rec.Model))
	}
	return &Fixture{
		model:      rec.Model,
		collection: collection,
		primaryKey: rec.String(fixture.KeyPrimaryKey, DefaultPrimaryKey),
		entries:    entries,
	}, nil
}

// Collection returns the collection documents are written to.
func (f *Fixture) Collection() string { return f.collection }

// Load saves every entry in file order and registers each document as a
// fixture.Entity. Documents already saved stay when a later one fails.
func (f *Fixture) Load(ctx context.Context, m fixture.Manager, refs *fixture.References) error {
	mgr, ok := m.(*Manager)
	if !ok {
		return fmt.Errorf("document fixture needs a document-store manager, got %T", m)
	}
	coll := redis.NewCollection[map[string]any](mgr.client, f.collection)

	for name, v := range f.entries.All() {
		fields, _ := v.(*fixture.Map)
		doc, err := refs.ResolveFields(fields)
		if err != nil {
			return fmt.Errorf("fixture %q: %w", name, err)
		}
		if doc[f.primaryKey] == nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			doc[f.primaryKey] = id.String()
		}

		id := fmt.Sprint(doc[f.primaryKey])
		if err := coll.Save(ctx, id, &doc); err != nil {
			return fmt.Errorf("fixture %q: %w", name, err)
		}
		refs.Set(name, &fixture.Entity{
			Model:  f.model,
			Name:   name,
			ID:     doc[f.primaryKey],
			Fields: doc,
		})
	}
	return nil
}
