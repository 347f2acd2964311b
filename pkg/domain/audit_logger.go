package domain

import "context"

// AuditLogger records audit events. Services depend on this interface.
type AuditLogger interface {
	Log(ctx context.Context, action, actor string, metadata map[string]any) error
}

// AuditLoggerFunc adapts a function to AuditLogger.
type AuditLoggerFunc func(ctx context.Context, action, actor string, metadata map[string]any) error

func (f AuditLoggerFunc) Log(ctx context.Context, action, actor string, metadata map[string]any) error {
	return f(ctx, action, actor, metadata)
}

// NopAuditLogger discards audit events.
var NopAuditLogger AuditLogger = AuditLoggerFunc(func(context.Context, string, string, map[string]any) error { return nil })
