// Package slog provides logging decorators for docchat services using the
// standard structured logger. Each decorator logs one Info line per call
// with the operation, its size, duration and error.
package slog
