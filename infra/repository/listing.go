package repository

import (
	"context"
	"time"

	"github.com/amirasaad/pointmarket/infra/repository/model"
	"github.com/amirasaad/pointmarket/pkg/domain"
	listingdomain "github.com/amirasaad/pointmarket/pkg/domain/listing"
	"github.com/amirasaad/pointmarket/pkg/dto"
	repolisting "github.com/amirasaad/pointmarket/pkg/repository/listing"
	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a listing repository on the given session.
func NewListingRepository(db *gorm.DB) repolisting.Repository {
	return &listingRepository{db: db}
}

// Create implements listing.Repository.
func (r *listingRepository) Create(ctx context.Context, create dto.ListingCreate) (int64, error) {
	l := model.Listing{
		SellerID:    create.SellerID,
		Price:       create.Price,
		Name:        create.Name,
		Description: create.Description,
		Link:        create.Link,
	}
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return 0, MapGormErrorToDomain(err)
	}
	return l.ID, nil
}

// Get implements listing.Repository.
func (r *listingRepository) Get(ctx context.Context, id int64) (*dto.ListingRead, error) {
	var l model.Listing
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&l).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapListingModelToDTO(&l), nil
}

// GetForUpdate implements listing.Repository.
func (r *listingRepository) GetForUpdate(ctx context.Context, id int64) (*dto.ListingRead, error) {
	var l model.Listing
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).Take(&l).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapListingModelToDTO(&l), nil
}

// ListActive implements listing.Repository.
func (r *listingRepository) ListActive(ctx context.Context, limit int) ([]*dto.ListingRead, error) {
	var ls []model.Listing
	err := r.db.WithContext(ctx).
		Where("sold = ?", false).
		Order("id DESC").
		Limit(limit).
		Find(&ls).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.ListingRead, 0, len(ls))
	for i := range ls {
		result = append(result, mapListingModelToDTO(&ls[i]))
	}
	return result, nil
}

// MarkSold implements listing.Repository.
func (r *listingRepository) MarkSold(ctx context.Context, id int64, buyerID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND sold = ?", id, false).
		Updates(map[string]any{
			"sold":       true,
			"buyer_id":   buyerID,
			"sold_at":    at,
			"updated_at": at,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return listingdomain.ErrAlreadySold
	}
	return nil
}

// Update implements listing.Repository.
func (r *listingRepository) Update(ctx context.Context, id int64, update dto.ListingUpdate) error {
	updates := mapListingUpdateDTOToModel(update)
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ? AND sold = ?", id, false).
		Updates(updates)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return listingdomain.ErrAlreadySold
	}
	return nil
}

// Delete implements listing.Repository.
func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Listing{})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapListingUpdateDTOToModel maps ListingUpdate DTO to a map for GORM Updates.
func mapListingUpdateDTOToModel(update dto.ListingUpdate) map[string]any {
	updates := make(map[string]any)
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Price != nil {
		updates["price"] = *update.Price
	}
	if update.Link != nil {
		updates["link"] = *update.Link
	}
	return updates
}

// mapListingModelToDTO maps a GORM model to a read-optimized DTO.
func mapListingModelToDTO(l *model.Listing) *dto.ListingRead {
	return &dto.ListingRead{
		ID:          l.ID,
		SellerID:    l.SellerID,
		Price:       l.Price,
		Name:        l.Name,
		Description: l.Description,
		Link:        l.Link,
		Sold:        l.Sold,
		BuyerID:     l.BuyerID,
		SoldAt:      l.SoldAt,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
