package bootstrap

import "context"

// AuditLog adalah satu entri audit lifecycle aplikasi (startup, shutdown).
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
