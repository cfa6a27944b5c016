// Package document binds the "document-store" fixture backend to Redis.
//
// Each named redis.Client is a Manager. A fixture entry becomes a JSON
// document at <prefix>:<collection>:<id> and its id joins the set
// <prefix>:<collection>. The collection is the file's `table` or the
// pluralized snake_case type name of the model.
//
// Redis has no referential integrity, so managers do not implement
// fixture.IntegrityToggler, and no truncate: purging always deletes every
// key under the manager's prefix.
package document
