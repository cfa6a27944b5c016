// Package redis provides a Redis client component with connection pooling,
// lifecycle management, and health checks for seedkit.
//
// The document-store fixture backend keeps one JSON value per document and
// one index set per collection, all under the client's key prefix:
//
//	<prefix>:<collection>:<id>   JSON document
//	<prefix>:<collection>        set of document ids
//
// Collection provides typed access to that layout:
//
//	users := redis.NewCollection[map[string]any](client, "users")
//	users.Save(ctx, "u-1", &doc)
//	ids, _ := users.IDs(ctx)
//
// DeleteMatching removes every key under a pattern with SCAN and DEL, which
// is how the document-store purger empties a manager.
package redis
