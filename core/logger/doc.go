// Package logger constructs the application's zap logger.
//
// The logger is built once at startup from the log section of the
// configuration and handed to every service. Handlers attach the per-request
// ray id via WithRayID so storage failures can be traced back to the request
// that triggered them.
package logger
