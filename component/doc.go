// Package component defines lifecycle-managed infrastructure for seedkit.
//
// Database handles and Redis clients are wrapped as components so the CLI
// can start them in dependency order before a load run and stop them in
// reverse order afterwards.
//
// # Interfaces
//
//   - Component: Core lifecycle interface (Start/Stop/Health)
//   - Describable: one-line summaries printed by the CLI
package component
