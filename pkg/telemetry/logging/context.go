package logging

import (
	"context"
	"log/slog"
)

// Context keys for export log fields.
type contextKey string

const (
	// RunIDKey is the context key for export run ids.
	RunIDKey contextKey = "run_id"

	// StatementTypeKey is the context key for the exported statement type label.
	StatementTypeKey contextKey = "statement_type"

	// NetworkTypeKey is the context key for the exported network type.
	NetworkTypeKey contextKey = "network_type"
)

// WithRunID adds an export run id to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the export run id from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithStatementType adds a statement type label to the context.
func WithStatementType(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, StatementTypeKey, label)
}

// GetStatementType retrieves the statement type label from the context.
func GetStatementType(ctx context.Context) string {
	if label, ok := ctx.Value(StatementTypeKey).(string); ok {
		return label
	}
	return ""
}

// WithNetworkType adds a network type to the context.
func WithNetworkType(ctx context.Context, networkType string) context.Context {
	return context.WithValue(ctx, NetworkTypeKey, networkType)
}

// GetNetworkType retrieves the network type from the context.
func GetNetworkType(ctx context.Context) string {
	if networkType, ok := ctx.Value(NetworkTypeKey).(string); ok {
		return networkType
	}
	return ""
}

// extractContextFields returns the export fields in ctx as key-value pairs
// suitable for slog.Logger.With.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, string(RunIDKey), runID)
	}
	if label := GetStatementType(ctx); label != "" {
		fields = append(fields, string(StatementTypeKey), label)
	}
	if networkType := GetNetworkType(ctx); networkType != "" {
		fields = append(fields, string(NetworkTypeKey), networkType)
	}

	return fields
}

// FromContext returns base extended with the export fields found in ctx.
// Packages that log through slog directly use it instead of a *Logger.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	if fields := extractContextFields(ctx); len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}
