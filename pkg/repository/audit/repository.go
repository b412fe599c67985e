package audit

import (
	"context"

	"github.com/amirasaad/pointmarket/pkg/dto"
)

// Repository is the append-only audit log.
type Repository interface {
	// Append records an entry.
	Append(ctx context.Context, create dto.AuditCreate) error

	// ListByAccount returns the most recent entries where the account is actor or target.
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*dto.AuditRead, error)
}
