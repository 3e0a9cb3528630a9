// Package logger wraps zap with a process-wide sugared console logger that
// writes human-readable lines to stdout.
//
// Loggers travel inside context.Context: services name their logger with
// WithName, attach run-scoped fields with WithKV and log through the package
// helpers (Infof, WarnKV, ErrorKV and friends), which read the logger back
// from the context and fall back to the global one.
package logger
