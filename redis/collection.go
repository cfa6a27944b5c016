package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"slices"

	goredis "github.com/redis/go-redis/v9"
)

// Collection stores JSON documents of type C under
// <prefix>:<name>:<id> and indexes their ids in the set <prefix>:<name>.
type Collection[C any] struct {
	client *Client
	name   string
}

// NewCollection creates a Collection backed by the given Redis client.
func NewCollection[C any](client *Client, name string) *Collection[C] {
	return &Collection[C]{client: client, name: name}
}

// Name returns the collection name.
func (s *Collection[C]) Name() string { return s.name }

// IndexKey returns the key of the id set.
func (s *Collection[C]) IndexKey() string { return s.client.Key(s.name) }

// DocumentKey returns the key holding document id.
func (s *Collection[C]) DocumentKey(id string) string { return s.client.Key(s.name, id) }

// Save writes the document and indexes its id in one MULTI/EXEC block.
func (s *Collection[C]) Save(ctx context.Context, id string, doc *C) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("collection %s marshal %q: %w", s.name, id, err)
	}
	_, err = s.client.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.DocumentKey(id), data, 0)
		pipe.SAdd(ctx, s.IndexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("collection %s save %q: %w", s.name, id, err)
	}
	return nil
}

// Load returns the document, or (nil, nil) if it does not exist.
func (s *Collection[C]) Load(ctx context.Context, id string) (*C, error) {
	raw, err := s.client.rdb.Get(ctx, s.DocumentKey(id)).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("collection %s load %q: %w", s.name, id, err)
	}

	var val C
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, fmt.Errorf("collection %s unmarshal %q: %w", s.name, id, err)
	}
	return &val, nil
}

// IDs returns the indexed document ids in sorted order.
func (s *Collection[C]) IDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.rdb.SMembers(ctx, s.IndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("collection %s ids: %w", s.name, err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Delete removes the document and its index entry.
func (s *Collection[C]) Delete(ctx context.Context, id string) error {
	_, err := s.client.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, s.DocumentKey(id))
		pipe.SRem(ctx, s.IndexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("collection %s delete %q: %w", s.name, id, err)
	}
	return nil
}
