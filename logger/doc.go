// Package logger provides structured logging for bridge clients using
// zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. A client logs through
// the logger it was built with; debug mode emits the dispatch and
// completion lines of every call.
//
// # Configuration
//
//	logger:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug"}, "bridge")
//	log.Debug("dispatching", logger.Fields("method", "GET", "url", u))
package logger
