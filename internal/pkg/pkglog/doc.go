// Package pkglog contains logging helpers used across the application.
//
// It is built around slog: a JSON handler with stable keys ("ts", "severity",
// "file") and a wrapper that stamps every record with the service name and the
// request correlation ID, when the context has one.
package pkglog
