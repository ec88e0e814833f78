// Package logger provides structured logging for pusherrest using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("restclient")
//	log.Debug("request completed", logger.Fields("status", 200))
package logger
