package fixture

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/kbukum/seedkit/errors"
)

// ReferencePrefix marks a field value as a reference; a doubled prefix
// escapes a literal leading "@".
const ReferencePrefix = "@"

// Entity is the handle strategies register for a created row or document.
type Entity struct {
	Model  string
	Name   string
	ID     any
	Fields map[string]any
}

// Field returns the named field. The empty name returns ID, as does "id"
// when no field of that name was stored.
func (e *Entity) Field(name string) (any, bool) {
	if name == "" {
		return e.ID, e.ID != nil
	}
	if v, ok := e.Fields[name]; ok {
		return v, true
	}
	if name == "id" {
		return e.ID, e.ID != nil
	}
	return nil, false
}

// References maps symbolic names to entities created during one load run.
// It is not safe for concurrent use; a run executes records sequentially.
type References struct {
	entries map[string]any
}

// NewReferences returns an empty registry.
func NewReferences() *References {
	return &References{entries: make(map[string]any)}
}

// Set stores or overwrites the entity registered under name.
func (r *References) Set(name string, entity any) {
	r.entries[name] = entity
}

// Get returns the entity registered under name. An empty name returns
// (nil, nil); an unknown name returns a REFERENCE_NOT_FOUND error.
func (r *References) Get(name string) (any, error) {
	if name == "" {
		return nil, nil
	}
	v, ok := r.entries[name]
	if !ok {
		return nil, errors.ReferenceNotFound(name)
	}
	return v, nil
}

// Has reports whether name has been set.
func (r *References) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *References) Names() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

// Len returns the number of registered names.
func (r *References) Len() int { return len(r.entries) }

// Resolve substitutes references in a field value. "@name" becomes the
// entity's ID, "@name.field" one of its fields and "@@text" the literal
// "@text". Sequences and Maps are resolved element-wise; other values pass
// through unchanged.
func (r *References) Resolve(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return r.resolveString(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			resolved, err := r.Resolve(e)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	case *Map:
		out := NewMap()
		for k, e := range v.All() {
			resolved, err := r.Resolve(e)
			if err != nil {
				return nil, err
			}
			out.Set(k, resolved)
		}
		return out, nil
	default:
		return value, nil
	}
}

// ResolveFields resolves every value of fields into a plain map.
func (r *References) ResolveFields(fields *Map) (map[string]any, error) {
	resolved, err := r.Resolve(fields)
	if err != nil {
		return nil, err
	}
	return resolved.(*Map).ToMap(), nil
}

func (r *References) resolveString(s string) (any, error) {
	// A lone "@" names nothing and stays literal.
	if !strings.HasPrefix(s, ReferencePrefix) || s == ReferencePrefix {
		return s, nil
	}
	if strings.HasPrefix(s, ReferencePrefix+ReferencePrefix) {
		return s[len(ReferencePrefix):], nil
	}

	name := s[len(ReferencePrefix):]
	field := ""
	if !r.Has(name) {
		if i := strings.LastIndex(name, "."); i > 0 {
			name, field = name[:i], name[i+1:]
		}
	}

	target, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	entity, ok := target.(*Entity)
	if !ok {
		if field != "" {
			return nil, errors.InvalidInput(field, fmt.Sprintf("reference %q is not an entity", name)).
				WithDetail(errors.DetailReference, name)
		}
		return target, nil
	}
	v, ok := entity.Field(field)
	if !ok {
		return nil, errors.InvalidInput(field, fmt.Sprintf("entity %q has no field %q", name, field)).
			WithDetail(errors.DetailReference, name)
	}
	return v, nil
}
