package ports

import (
	"context"

	"github.com/marketdesk/portfolio-api/internal/core/domain"
)

// AuditLog stores authentication audit events.
type AuditLog interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// NopAuditLog discards events.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, domain.AuditEvent) error { return nil }
