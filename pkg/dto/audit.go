package dto

import (
	"time"

	"github.com/google/uuid"
)

// AuditRead is a read-optimized DTO for audit log queries.
type AuditRead struct {
	ID        uuid.UUID
	Type      string
	ActorID   string
	TargetID  string
	Amount    int64
	ListingID *int64
	Detail    string
	CreatedAt time.Time
}

// AuditCreate is a DTO for appending to the audit log.
type AuditCreate struct {
	ID        uuid.UUID
	Type      string
	ActorID   string
	TargetID  string
	Amount    int64
	ListingID *int64
	Detail    string
	CreatedAt time.Time
}
