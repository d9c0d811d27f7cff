// Package logging wraps log/slog with the handlers and attribute helpers
// shared across the application: a human-oriented console handler, a JSON
// file handler for run logs, and a fanout that feeds both.
package logging
