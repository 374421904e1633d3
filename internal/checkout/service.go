package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/money"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Line is one requested purchase line.
type Line struct {
	ProductID uuid.UUID
	Qty       int
}

// Input is the checkout request.
type Input struct {
	Lines         []Line
	PaymentMethod enums.PaymentMethod
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, actor types.Actor, input Input) (*models.Order, error)
}

type service struct {
	tx   txRunner
	logg *logger.Logger
}

// NewService builds the checkout service.
func NewService(tx txRunner, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{tx: tx, logg: logg}, nil
}

// Execute creates an order from the requested lines inside a single
// transaction. Each fixed-price line decrements stock with a guarded update;
// a line that cannot be satisfied rolls back the whole order. Auction lines
// do not carry stock and are charged at the current bid. Totals are computed
// server-side from the stored prices.
func (s *service) Execute(ctx context.Context, actor types.Actor, input Input) (*models.Order, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one item")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	for _, line := range input.Lines {
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
	}

	status := enums.OrderStatusCompleted
	if input.PaymentMethod == enums.PaymentMethodBit {
		status = enums.OrderStatusPendingPayment
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order := &models.Order{
			BuyerID:       actor.ID,
			PaymentMethod: input.PaymentMethod,
			Status:        status,
		}

		var total int64
		items := make([]models.OrderItem, 0, len(input.Lines))

		for _, line := range input.Lines {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", line.ProductID)
				}
				return err
			}

			unitPrice := product.PriceCents
			if product.IsAuction() {
				// Auction wins are charged at the final bid; no stock to move.
				if line.Qty != 1 {
					return pkgerrors.New(pkgerrors.CodeValidation, "auction items are bought one at a time")
				}
				if product.CurrentBidCents != nil {
					unitPrice = *product.CurrentBidCents
				} else if product.StartingPriceCents != nil {
					unitPrice = *product.StartingPriceCents
				}
			} else {
				if err := s.decrementStock(tx, &product, line.Qty); err != nil {
					return err
				}
			}

			productID := product.ID
			sellerID := product.SellerID
			item := models.OrderItem{
				ProductID:      &productID,
				SellerID:       &sellerID,
				Name:           product.Name,
				UnitPriceCents: unitPrice,
				CardNumber:     product.CardNumber,
				Qty:            line.Qty,
			}
			if len(product.ImageURLs) > 0 {
				url := product.ImageURLs[0]
				item.ImageURL = &url
			}
			items = append(items, item)
			total += unitPrice * int64(line.Qty)
		}

		order.TotalCents = total
		order.Items = items

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": result.ID.String(),
			"buyer_id": actor.ID.String(),
			"total":    money.Format(result.TotalCents),
			"status":   result.Status.String(),
		}), "checkout.completed")
	}

	return result, nil
}

// decrementStock performs the guarded decrement. Zero rows affected means a
// concurrent checkout drained the stock after our read; re-read to name the
// remaining quantity in the error.
func (s *service) decrementStock(tx *gorm.DB, product *models.Product, qty int) error {
	if product.Amount < qty {
		return insufficientStock(product, product.Amount)
	}

	update := tx.Model(&models.Product{}).
		Where("id = ? AND amount >= ?", product.ID, qty).
		Update("amount", gorm.Expr("amount - ?", qty))
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		var fresh models.Product
		if err := tx.First(&fresh, "id = ?", product.ID).Error; err != nil {
			return err
		}
		return insufficientStock(product, fresh.Amount)
	}
	return nil
}

func insufficientStock(product *models.Product, remaining int) error {
	return pkgerrors.Newf(pkgerrors.CodeBusinessRule,
		"insufficient stock for %q: %d remaining", product.Name, remaining)
}
