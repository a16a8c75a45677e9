package logging

import "context"

type contextKey struct{}

// WithLogData attaches a LogData to the context so handlers and services
// can record fields and timings against the surrounding request log line.
func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, contextKey{}, logData)
}

// GetLogData returns the request-scoped LogData, or nil when the caller is
// not running under the request logging middleware.
func GetLogData(ctx context.Context) *LogData {
	logData, ok := ctx.Value(contextKey{}).(*LogData)
	if !ok {
		return nil
	}
	return logData
}
