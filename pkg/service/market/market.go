// Package market implements listing submission, browsing, management and
// the purchase transaction.
package market

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/pointmarket/pkg/cache"
	"github.com/amirasaad/pointmarket/pkg/config"
	"github.com/amirasaad/pointmarket/pkg/domain"
	"github.com/amirasaad/pointmarket/pkg/domain/account"
	"github.com/amirasaad/pointmarket/pkg/domain/audit"
	"github.com/amirasaad/pointmarket/pkg/domain/events"
	"github.com/amirasaad/pointmarket/pkg/domain/listing"
	"github.com/amirasaad/pointmarket/pkg/dto"
	"github.com/amirasaad/pointmarket/pkg/eventbus"
	"github.com/amirasaad/pointmarket/pkg/mapper"
	"github.com/amirasaad/pointmarket/pkg/repository"
	"github.com/amirasaad/pointmarket/pkg/service/ledger"
)

// CreateListing is a listing submission.
type CreateListing struct {
	SellerID    string
	Name        string
	Description string
	Price       int64
	Link        string
}

// CreateResult identifies the new listing and reports the seller's balance.
type CreateResult struct {
	ListingID     int64
	SellerBalance int64
}

// PurchaseResult is returned to the buyer. Link is only ever revealed here.
type PurchaseResult struct {
	ListingID     int64
	SellerID      string
	BuyerID       string
	Price         int64
	Link          string
	Name          string
	BuyerBalance  int64
	SellerBalance int64
}

// Service provides marketplace operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	board  cache.Invalidator
	policy *config.Market
	logger *slog.Logger
	now    func() time.Time
}

// New creates a market Service.
func New(
	uow repository.UnitOfWork,
	bus eventbus.Bus,
	board cache.Invalidator,
	policy *config.Market,
	logger *slog.Logger,
) *Service {
	if policy == nil {
		policy = &config.Market{}
	}
	return &Service{
		uow:    uow,
		bus:    bus,
		board:  board,
		policy: policy,
		logger: logger.With("service", "market"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) schemes() []string {
	if len(s.policy.AllowedLinkSchemes) == 0 {
		return listing.DefaultSchemes
	}
	return s.policy.AllowedLinkSchemes
}

// CreateListing validates and stores a new Active listing.
func (s *Service) CreateListing(ctx context.Context, cmd CreateListing) (res CreateResult, err error) {
	logger := s.logger.With("seller", cmd.SellerID, "price", cmd.Price)
	logger.Info("CreateListing started")

	l, err := listing.New().
		WithSeller(cmd.SellerID).
		WithName(cmd.Name).
		WithDescription(cmd.Description).
		WithPrice(cmd.Price).
		WithLink(cmd.Link).
		WithAllowedSchemes(s.schemes()).
		Build()
	if err != nil {
		ledger.LogFailure(logger, "CreateListing", err)
		return res, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := accounts.Ensure(ctx, l.SellerID); err != nil {
			return err
		}
		listings, err := uow.ListingRepository()
		if err != nil {
			return err
		}
		if res.ListingID, err = listings.Create(ctx, dto.ListingCreate{
			SellerID:    l.SellerID,
			Price:       l.Price,
			Name:        l.Name,
			Description: l.Description,
			Link:        l.Link,
		}); err != nil {
			return err
		}
		seller, err := accounts.Get(ctx, l.SellerID)
		if err != nil {
			return err
		}
		res.SellerBalance = seller.Points
		return ledger.AppendAudit(ctx, uow,
			audit.NewEntry(audit.TypeListingCreated, l.SellerID, l.SellerID, l.Price).
				ForListing(res.ListingID).
				WithDetail(l.Name))
	})
	if err != nil {
		ledger.LogFailure(logger, "CreateListing", err)
		return CreateResult{}, err
	}

	ledger.AfterCommit(ctx, s.bus, nil, logger, &events.ListingCreated{
		Meta:      events.NewMeta(),
		ListingID: res.ListingID,
		SellerID:  l.SellerID,
		Name:      l.Name,
		Price:     l.Price,
	})
	logger.Info("CreateListing successful", "listing_id", res.ListingID)
	return res, nil
}

// GetListing returns a listing including its link. Callers showing it to
// anyone but the buyer should use PublicView.
func (s *Service) GetListing(ctx context.Context, id int64) (*listing.Listing, error) {
	repo, err := s.uow.ListingRepository()
	if err != nil {
		return nil, err
	}
	row, err := repo.Get(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return mapper.MapListingReadToDomain(row), nil
}

// ListActive returns unsold listings newest first. limit is clamped to the
// configured page size.
func (s *Service) ListActive(ctx context.Context, limit int) ([]*listing.Listing, error) {
	if pageSize := s.policy.ListLimit; pageSize > 0 && (limit <= 0 || limit > pageSize) {
		limit = pageSize
	}
	repo, err := s.uow.ListingRepository()
	if err != nil {
		return nil, err
	}
	rows, err := repo.ListActive(ctx, limit)
	if err != nil {
		s.logger.Error("ListActive failed", "error", err)
		return nil, err
	}
	out := make([]*listing.Listing, 0, len(rows))
	for _, r := range rows {
		out = append(out, mapper.MapListingReadToDomain(r))
	}
	return out, nil
}

// Purchase sells listingID to buyerID. The buyer debit, seller credit, sold
// flag and audit entry commit together or not at all. Guards are checked in
// order: listing exists, not sold, buyer is not the seller, buyer can pay.
func (s *Service) Purchase(ctx context.Context, listingID int64, buyerID string) (res PurchaseResult, err error) {
	logger := s.logger.With("listing_id", listingID, "buyer", buyerID)
	logger.Info("Purchase started")

	if err = account.ValidateID(buyerID); err != nil {
		return res, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		listings, err := uow.ListingRepository()
		if err != nil {
			return err
		}
		row, err := listings.GetForUpdate(ctx, listingID)
		if err != nil {
			return notFound(err)
		}
		l := mapper.MapListingReadToDomain(row)
		soldAt := s.now()
		if err := l.MarkSold(buyerID, soldAt); err != nil {
			return err
		}
		if _, err := ledger.LockAccounts(ctx, uow, buyerID, l.SellerID); err != nil {
			return err
		}

		if res.BuyerBalance, err = ledger.DebitTx(ctx, uow, buyerID, l.Price); err != nil {
			return err
		}
		if res.SellerBalance, err = ledger.CreditTx(ctx, uow, l.SellerID, l.Price); err != nil {
			return err
		}
		if err := listings.MarkSold(ctx, l.ID, buyerID, soldAt); err != nil {
			return err
		}

		res.ListingID = l.ID
		res.SellerID = l.SellerID
		res.BuyerID = buyerID
		res.Price = l.Price
		res.Link = l.Link
		res.Name = l.Name
		return ledger.AppendAudit(ctx, uow,
			audit.NewEntry(audit.TypePurchase, buyerID, l.SellerID, l.Price).
				ForListing(l.ID).
				WithDetail(l.Name))
	})
	if err != nil {
		ledger.LogFailure(logger, "Purchase", err)
		return PurchaseResult{}, err
	}

	ledger.AfterCommit(ctx, s.bus, s.board, logger, &events.ListingPurchased{
		Meta:          events.NewMeta(),
		ListingID:     res.ListingID,
		Name:          res.Name,
		SellerID:      res.SellerID,
		BuyerID:       res.BuyerID,
		Price:         res.Price,
		SellerBalance: res.SellerBalance,
		BuyerBalance:  res.BuyerBalance,
	})
	logger.Info("Purchase successful", "seller", res.SellerID, "price", res.Price)
	return res, nil
}

// EditListing applies fields to an Active listing. Only the seller or an
// administrator may edit; id and seller never change.
func (s *Service) EditListing(
	ctx context.Context,
	id int64,
	editorID string,
	fields listing.Fields,
) (edited *listing.Listing, err error) {
	logger := s.logger.With("listing_id", id, "editor", editorID)
	logger.Info("EditListing started")

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		listings, err := uow.ListingRepository()
		if err != nil {
			return err
		}
		row, err := listings.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}
		edited = mapper.MapListingReadToDomain(row)
		if err := edited.CanManage(editorID, s.policy.IsAdmin(editorID)); err != nil {
			return err
		}
		if err := edited.Edit(fields, s.schemes(), s.now()); err != nil {
			return err
		}
		if fields.Empty() {
			return nil
		}
		if err := listings.Update(ctx, id, mapper.MapListingToUpdate(edited)); err != nil {
			return err
		}
		return ledger.AppendAudit(ctx, uow,
			audit.NewEntry(audit.TypeListingUpdated, editorID, edited.SellerID, edited.Price).
				ForListing(id).
				WithDetail(changed(fields)))
	})
	if err != nil {
		ledger.LogFailure(logger, "EditListing", err)
		return nil, err
	}
	if fields.Empty() {
		return edited, nil
	}

	ledger.AfterCommit(ctx, s.bus, nil, logger, &events.ListingUpdated{
		Meta:      events.NewMeta(),
		ListingID: id,
		EditorID:  editorID,
		Name:      edited.Name,
		Price:     edited.Price,
	})
	logger.Info("EditListing successful")
	return edited, nil
}

// DeleteListing removes a listing. Sellers may withdraw their Active
// listings; administrators may remove any listing.
func (s *Service) DeleteListing(ctx context.Context, id int64, editorID string) (err error) {
	logger := s.logger.With("listing_id", id, "editor", editorID)
	logger.Info("DeleteListing started")

	var removed *listing.Listing
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		listings, err := uow.ListingRepository()
		if err != nil {
			return err
		}
		row, err := listings.GetForUpdate(ctx, id)
		if err != nil {
			return notFound(err)
		}
		removed = mapper.MapListingReadToDomain(row)
		if err := removed.CanDelete(editorID, s.policy.IsAdmin(editorID)); err != nil {
			return err
		}
		if err := listings.Delete(ctx, id); err != nil {
			return notFound(err)
		}
		return ledger.AppendAudit(ctx, uow,
			audit.NewEntry(audit.TypeListingDeleted, editorID, removed.SellerID, removed.Price).
				ForListing(id).
				WithDetail(removed.Name))
	})
	if err != nil {
		ledger.LogFailure(logger, "DeleteListing", err)
		return err
	}

	ledger.AfterCommit(ctx, s.bus, nil, logger, &events.ListingDeleted{
		Meta:      events.NewMeta(),
		ListingID: id,
		EditorID:  editorID,
		SellerID:  removed.SellerID,
		Name:      removed.Name,
	})
	logger.Info("DeleteListing successful")
	return nil
}

// IsAdmin reports whether id is an administrative principal.
func (s *Service) IsAdmin(id string) bool {
	return s.policy.IsAdmin(id)
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return listing.ErrListingNotFound
	}
	return err
}

func changed(f listing.Fields) string {
	var parts []string
	if f.Name != nil {
		parts = append(parts, "name")
	}
	if f.Description != nil {
		parts = append(parts, "description")
	}
	if f.Price != nil {
		parts = append(parts, "price")
	}
	if f.Link != nil {
		parts = append(parts, "link")
	}
	return strings.Join(parts, ",")
}
