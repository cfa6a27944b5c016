// Package logger provides structured logging for seedkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("seedkit").WithComponent("loader")
//	log.Info("fixture loaded", logger.Fields(logger.FieldFile, path, logger.FieldModel, model))
package logger
