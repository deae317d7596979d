// Package logging provides structured logging for homenet applications.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the facade, its outbound
// targets and the application's own domain logic.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Rotating file output via lumberjack
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Configuration
//
// The logger is built from a declarative YAML file whose path is passed on
// the command line (--nlogconfig):
//
//	level: "debug"     # debug, info, warn, error
//	format: "text"     # json, text
//	output: "file"     # stdout, stderr, file
//	file:
//	  path: "logs/homenet.log"
//	  max_size: 10     # megabytes
//	  max_backups: 5
//	  max_age: 30      # days
//	  compress: true
//
// # Usage
//
//	logger, err := logging.Load("nlog.config", "my-worker", "1.0.0")
//	if err != nil {
//	    return err
//	}
//	logger.Info("starting service", "interval", 10)
//
// # Security
//
// Never log secrets, tokens or passwords. Outbound target configs render
// themselves with the password masked.
package logging
