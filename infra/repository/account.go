package repository

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/infra/repository/model"
	"github.com/amirasaad/pointmarket/pkg/domain"
	accountdomain "github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/dto"
	repoaccount "github.com/amirasaad/pointmarket/pkg/repository/account"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a ledger repository on the given session.
func NewAccountRepository(db *gorm.DB) repoaccount.Repository {
	return &accountRepository{db: db}
}

// Ensure implements account.Repository.
func (r *accountRepository) Ensure(ctx context.Context, id string) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.Account{ID: id}).Error
	})
}

// Get implements account.Repository.
func (r *accountRepository) Get(ctx context.Context, id string) (*dto.AccountRead, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&acct).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDTO(&acct), nil
}

// GetForUpdate implements account.Repository.
func (r *accountRepository) GetForUpdate(ctx context.Context, id string) (*dto.AccountRead, error) {
	var acct model.Account
	q := forUpdate(r.db.WithContext(ctx))
	if err := q.Where("id = ?", id).Take(&acct).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountModelToDTO(&acct), nil
}

// LockOrdered implements account.Repository.
func (r *accountRepository) LockOrdered(ctx context.Context, ids []string) ([]*dto.AccountRead, error) {
	var accts []model.Account
	err := forUpdate(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&accts).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapAccountModelToDTO(&accts[i]))
	}
	return result, nil
}

// Credit implements account.Repository.
func (r *accountRepository) Credit(ctx context.Context, id string, amount int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"points":     gorm.Expr("points + ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, domain.ErrNotFound
	}
	return r.points(ctx, id)
}

// Debit implements account.Repository.
func (r *accountRepository) Debit(ctx context.Context, id string, amount int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND points >= ?", id, amount).
		Updates(map[string]any{
			"points":     gorm.Expr("points - ?", amount),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, accountdomain.ErrInsufficientFunds
	}
	return r.points(ctx, id)
}

// StampClaim implements account.Repository.
func (r *accountRepository) StampClaim(ctx context.Context, id string, day string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND (last_claim_day IS NULL OR last_claim_day <> ?)", id, day).
		Updates(map[string]any{
			"last_claim_day": day,
			"last_claim_at":  at,
			"updated_at":     at,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return accountdomain.ErrAlreadyClaimedToday
	}
	return nil
}

// Top implements account.Repository.
func (r *accountRepository) Top(ctx context.Context, limit int) ([]*dto.AccountRead, error) {
	var accts []model.Account
	err := r.db.WithContext(ctx).
		Order("points DESC").
		Order("id ASC").
		Limit(limit).
		Find(&accts).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapAccountModelToDTO(&accts[i]))
	}
	return result, nil
}

func (r *accountRepository) points(ctx context.Context, id string) (int64, error) {
	var acct model.Account
	if err := r.db.WithContext(ctx).Select("points").Where("id = ?", id).Take(&acct).Error; err != nil {
		return 0, MapGormErrorToDomain(err)
	}
	return acct.Points, nil
}

// mapAccountModelToDTO maps a GORM model to a read-optimized DTO.
func mapAccountModelToDTO(acct *model.Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:          acct.ID,
		Points:      acct.Points,
		LastClaimAt: acct.LastClaimAt,
		CreatedAt:   acct.CreatedAt,
		UpdatedAt:   acct.UpdatedAt,
	}
}

// forUpdate adds a row lock on engines that support SELECT ... FOR UPDATE.
// SQLite serializes writers on its own and rejects the clause.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
