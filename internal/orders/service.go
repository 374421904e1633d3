package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/pkg/db/models"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SellerContact is the buyer-facing contact info attached to an order view.
type SellerContact struct {
	Telephone *string `json:"telephone,omitempty"`
	BitQRURL  *string `json:"bitQrUrl,omitempty"`
}

// View is an order with the seller contact details for the first line item.
type View struct {
	Order  *models.Order  `json:"order"`
	Seller *SellerContact `json:"seller,omitempty"`
}

// Service exposes order reads.
type Service interface {
	ListForBuyer(ctx context.Context, actor types.Actor) ([]models.Order, error)
	Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*View, error)
}

type service struct {
	repo  Repository
	users userLoader
}

// NewService builds the order service.
func NewService(repo Repository, users userLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) ListForBuyer(ctx context.Context, actor types.Actor) ([]models.Order, error) {
	return s.repo.ListByBuyer(ctx, actor.ID)
}

// Get returns one order with items. Buyers see only their own orders; admins
// see any. The first item's seller contributes telephone and bit QR for
// out-of-band payment.
func (s *service) Get(ctx context.Context, actor types.Actor, id uuid.UUID) (*View, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not your order")
	}

	view := &View{Order: order}
	if len(order.Items) > 0 && order.Items[0].SellerID != nil {
		seller, err := s.users.FindByID(ctx, *order.Items[0].SellerID)
		if err == nil {
			view.Seller = &SellerContact{
				Telephone: seller.Telephone,
				BitQRURL:  seller.BitQRURL,
			}
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
	}
	return view, nil
}
