package fixture

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/seedkit/errors"
)

// Keys recognized inside a fixture file's data section.
const (
	KeyData        = "data"
	KeyOrder       = "order"
	KeyPersistence = "persistence"
	KeyManager     = "manager"
	KeyTable       = "table"
	KeyPrimaryKey  = "primary_key"
	KeyTags        = "tags"
	KeyFixtures    = "fixtures"
	KeyModel       = "model"
)

// Document is one parsed fixture file: a model identifier and its body.
type Document struct {
	Model string
	Body  *Map
}

// Data returns the data section when it is a non-empty mapping.
func (d *Document) Data() (*Map, bool) {
	if d == nil || d.Body == nil {
		return nil, false
	}
	v, ok := d.Body.Get(KeyData)
	if !ok {
		return nil, false
	}
	data, ok := v.(*Map)
	if !ok || data.Len() == 0 {
		return nil, false
	}
	return data, true
}

// Parser turns a fixture file into a Document.
type Parser interface {
	Parse(path string) (*Document, error)
}

// YAMLParser reads YAML fixture files from an afero filesystem, keeping
// mapping keys in document order.
type YAMLParser struct {
	Fs afero.Fs
}

// NewYAMLParser creates a parser reading from fs.
func NewYAMLParser(fs afero.Fs) *YAMLParser {
	return &YAMLParser{Fs: fs}
}

// Parse reads path. The document must be a mapping with exactly one key,
// the model identifier. A null body yields a Document with no data.
func (p *YAMLParser) Parse(path string) (*Document, error) {
	raw, err := afero.ReadFile(p.Fs, path)
	if err != nil {
		return nil, errors.Parse(path, "cannot read file").WithCause(err)
	}
	return ParseBytes(path, raw)
}

// ParseBytes parses raw fixture YAML; path is used for error details only.
func ParseBytes(path string, raw []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, errors.Parse(path, "invalid yaml").WithCause(err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.Parse(path, "empty document")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.Parse(path, "top level must be a mapping of model to body")
	}
	if n := len(top.Content) / 2; n != 1 {
		return nil, errors.Parse(path, fmt.Sprintf("expected exactly one model key, found %d", n))
	}

	model := top.Content[0].Value
	if model == "" {
		return nil, errors.Parse(path, "model identifier is empty")
	}
	body, err := newDecoder().decode(top.Content[1])
	switch {
	case stderrors.Is(err, errRecursiveAlias):
		return nil, errors.Parse(path, "recursive alias").WithCause(err).WithDetail(errors.DetailModel, model)
	case stderrors.Is(err, errAliasExpansion):
		return nil, errors.Parse(path, "excessive aliasing").WithDetail(errors.DetailModel, model)
	case err != nil:
		return nil, errors.Parse(path, "cannot decode body").WithCause(err).WithDetail(errors.DetailModel, model)
	}

	doc := &Document{Model: model}
	switch b := body.(type) {
	case nil:
	case *Map:
		doc.Body = b
	default:
		return nil, errors.Parse(path, "model body must be a mapping").WithDetail(errors.DetailModel, model)
	}
	return doc, nil
}

// maxAliasNodes caps how many nodes may be produced by alias expansion
// in one document.
const maxAliasNodes = 10000

var (
	errRecursiveAlias = stderrors.New("recursive alias")
	errAliasExpansion = stderrors.New("excessive aliasing")
)

// decoder turns a yaml.Node tree into Map, slice and scalar values. Aliases
// are expanded in place; an alias reached again while it is being expanded
// is a cycle.
type decoder struct {
	expanding  map[*yaml.Node]bool
	aliasDepth int
	aliasNodes int
}

func newDecoder() *decoder {
	return &decoder{expanding: make(map[*yaml.Node]bool)}
}

func (d *decoder) decode(n *yaml.Node) (any, error) {
	if d.aliasDepth > 0 {
		d.aliasNodes++
		if d.aliasNodes > maxAliasNodes {
			return nil, errAliasExpansion
		}
	}
	switch n.Kind {
	case yaml.AliasNode:
		return d.alias(n)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				if err := d.mergeInto(m, v); err != nil {
					return nil, err
				}
				continue
			}
			val, err := d.decode(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	default:
		return nil, nil
	}
}

func (d *decoder) alias(n *yaml.Node) (any, error) {
	target := n.Alias
	if target == nil {
		return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
	}
	if d.expanding[target] {
		return nil, fmt.Errorf("line %d: %w", n.Line, errRecursiveAlias)
	}
	d.expanding[target] = true
	d.aliasDepth++
	defer func() {
		delete(d.expanding, target)
		d.aliasDepth--
	}()
	return d.decode(target)
}

// mergeInto applies a YAML merge key (<<: *anchor) without overriding keys
// already set.
func (d *decoder) mergeInto(dst *Map, src *yaml.Node) error {
	val, err := d.decode(src)
	if err != nil {
		return err
	}
	sources := []any{val}
	if seq, ok := val.([]any); ok {
		sources = seq
	}
	for _, s := range sources {
		m, ok := s.(*Map)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
		}
		for k, v := range m.All() {
			if !dst.Has(k) {
				dst.Set(k, v)
			}
		}
	}
	return nil
}
