// Package fixture loads declarative YAML fixtures into data stores.
//
// A run moves through strictly sequential phases:
//
//	collect -> parse -> resolve model -> build records -> order -> execute
//
// The Collector finds fixture files for a list of module specifiers, the
// YAMLParser turns each file into an ordered Document, the ModelResolver
// rewrites placeholder model identifiers, AssignOrder gives every Record a
// total OrderingKey, and the Loader executes records one at a time against
// the manager each record resolved for itself. All records of a run share a
// single References registry so later fixtures can point at entities that
// earlier ones created.
//
// Backends plug in through a Directory of Bindings. A Binding pairs a
// ManagerProvider (named connections), a StrategyFactory (turns one record
// into a Fixture) and PurgeTools (empties a manager). The "orm" and
// "document-store" bindings live in the orm and document subpackages.
package fixture
