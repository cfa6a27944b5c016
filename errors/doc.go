// Package errors provides the structured error type shared by seedkit
// packages. Every AppError carries a machine-readable code plus details such
// as the fixture file, model identifier and backend, so a failed run can be
// diagnosed from its error alone.
package errors
