package logging

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey int

const (
	projectKey ctxKey = iota
	windowKey
)

// WithProject tags ctx with the project identity.
func WithProject(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, projectKey, identity)
}

// WithWindow tags ctx with the editor window id.
func WithWindow(ctx context.Context, windowID int) context.Context {
	return context.WithValue(ctx, windowKey, windowID)
}

// ContextFields extracts the tags set by WithProject and WithWindow.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if id, ok := ctx.Value(projectKey).(string); ok {
		fields = append(fields, zap.String("project", id))
	}
	if win, ok := ctx.Value(windowKey).(int); ok {
		fields = append(fields, zap.Int("window", win))
	}
	return fields
}
