// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The engine logs at these levels:
//   - Debug: dispatch, completion, unresolved path placeholders
//   - Warn: classified failures, async credential errors
//   - Error: recovered hook panics
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	log := logger.ForAction("GetUser", execID)
//	log.Debug("Dispatching", logging.Method("GET"), logging.Path("/users/1"))
package logging
