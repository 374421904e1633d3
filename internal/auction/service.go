package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/db/models"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/money"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service places bids on auction listings.
type Service interface {
	PlaceBid(ctx context.Context, productID uuid.UUID, actor types.Actor, amountCents int64) (*models.Product, error)
}

type service struct {
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the auction service.
func NewService(tx txRunner, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{tx: tx, logg: logg, now: time.Now}, nil
}

// PlaceBid validates the bid against the listing and, when it wins the
// validation, appends it to the history and raises the watermark. The
// watermark update is guarded so two concurrent bids can both pass the read
// check but only the higher one moves current_bid; the loser detects zero
// rows affected and fails as too low.
//
// Precondition order: not found, not an auction, auction closed, bid too low,
// seller bidding on own listing.
func (s *service) PlaceBid(ctx context.Context, productID uuid.UUID, actor types.Actor, amountCents int64) (*models.Product, error) {
	if amountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid amount must be positive")
	}

	var result *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return err
		}

		if err := checkBid(&product, actor, amountCents, s.now()); err != nil {
			return err
		}

		bid := &models.Bid{
			ProductID:   product.ID,
			BidderID:    actor.ID,
			BidderEmail: actor.Email,
			AmountCents: amountCents,
		}
		if err := tx.Create(bid).Error; err != nil {
			return err
		}

		update := tx.Model(&models.Product{}).
			Where("id = ? AND (current_bid_cents IS NULL OR current_bid_cents < ?)", product.ID, amountCents).
			Update("current_bid_cents", amountCents)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			// A concurrent bid moved the watermark past us between the read
			// and the guarded update. Re-read for the accurate message.
			var fresh models.Product
			if err := tx.First(&fresh, "id = ?", product.ID).Error; err != nil {
				return err
			}
			return bidTooLow(&fresh)
		}

		var reloaded models.Product
		if err := tx.
			Preload("Bids", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC")
			}).
			First(&reloaded, "id = ?", product.ID).Error; err != nil {
			return err
		}

		result = &reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"product_id": productID.String(),
			"bidder_id":  actor.ID.String(),
			"amount":     money.Format(amountCents),
		}), "bid.placed")
	}

	return result, nil
}

func checkBid(product *models.Product, actor types.Actor, amountCents int64, now time.Time) error {
	if !product.IsAuction() {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "product is not an auction")
	}
	if product.AuctionEndsAt != nil && !product.AuctionEndsAt.After(now) {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "auction has ended")
	}
	if amountCents <= currentBid(product) {
		return bidTooLow(product)
	}
	if product.SellerID == actor.ID {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "sellers cannot bid on their own listing")
	}
	return nil
}

func bidTooLow(product *models.Product) error {
	return pkgerrors.Newf(pkgerrors.CodeBusinessRule,
		"bid must be higher than the current bid of %s", money.Format(currentBid(product)))
}

func currentBid(product *models.Product) int64 {
	if product.CurrentBidCents != nil {
		return *product.CurrentBidCents
	}
	if product.StartingPriceCents != nil {
		return *product.StartingPriceCents
	}
	return 0
}
