package repository

import (
	"context"

	"github.com/amirasaad/pointmarket/infra/repository/model"
	"github.com/amirasaad/pointmarket/pkg/dto"
	repoaudit "github.com/amirasaad/pointmarket/pkg/repository/audit"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates an audit log repository on the given session.
func NewAuditRepository(db *gorm.DB) repoaudit.Repository {
	return &auditRepository{db: db}
}

// Append implements audit.Repository.
func (r *auditRepository) Append(ctx context.Context, create dto.AuditCreate) error {
	entry := model.AuditEntry{
		ID:        create.ID,
		Type:      create.Type,
		ActorID:   create.ActorID,
		TargetID:  create.TargetID,
		Amount:    create.Amount,
		ListingID: create.ListingID,
		Detail:    create.Detail,
		CreatedAt: create.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&entry).Error
	})
}

// ListByAccount implements audit.Repository.
func (r *auditRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*dto.AuditRead, error) {
	var entries []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("actor_id = ? OR target_id = ?", accountID, accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.AuditRead, 0, len(entries))
	for _, e := range entries {
		result = append(result, &dto.AuditRead{
			ID:        e.ID,
			Type:      e.Type,
			ActorID:   e.ActorID,
			TargetID:  e.TargetID,
			Amount:    e.Amount,
			ListingID: e.ListingID,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	return result, nil
}
