package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

const maxImageURLs = 3

// Service manages product listings.
type Service interface {
	Catalog(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, actor types.Actor, input Input) (*models.Product, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, input Input) (*models.Product, error)
	Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error
	ToggleVisibility(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Product, error)
	ListMine(ctx context.Context, actor types.Actor) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
}

// Input carries the writable listing fields.
type Input struct {
	Name               string
	Description        *string
	PriceCents         int64
	Amount             int
	ImageURLs          []string
	Category           string
	Condition          string
	Rarity             *string
	CardNumber         *string
	ListingType        enums.ListingType
	StartingPriceCents *int64
	AuctionEndsAt      *time.Time
}

type service struct {
	repo Repository
}

// NewService builds the product service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// Catalog returns the public storefront listing, hidden products excluded.
func (s *service) Catalog(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, ListFilter{})
}

// Get returns a product with its bid history when the listing is an auction.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByIDWithBids(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsAuction() {
		product.Bids = nil
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input Input) (*models.Product, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		SellerID:           actor.ID,
		Name:               input.Name,
		Description:        input.Description,
		PriceCents:         input.PriceCents,
		Amount:             input.Amount,
		ImageURLs:          input.ImageURLs,
		Category:           input.Category,
		Condition:          input.Condition,
		Rarity:             input.Rarity,
		CardNumber:         input.CardNumber,
		ListingType:        input.ListingType,
		StartingPriceCents: input.StartingPriceCents,
		AuctionEndsAt:      input.AuctionEndsAt,
	}
	if product.IsAuction() {
		// The watermark starts at the asking price; the first valid bid must beat it.
		product.CurrentBidCents = input.StartingPriceCents
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id uuid.UUID, input Input) (*models.Product, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceCents = input.PriceCents
	product.Amount = input.Amount
	product.ImageURLs = input.ImageURLs
	product.Category = input.Category
	product.Condition = input.Condition
	product.Rarity = input.Rarity
	product.CardNumber = input.CardNumber

	// Listing type and auction parameters are immutable once bids exist; the
	// bid history would become meaningless otherwise.
	if product.ListingType != input.ListingType {
		bidCount, countErr := s.repo.CountBids(ctx, product.ID)
		if countErr != nil {
			return nil, countErr
		}
		if bidCount > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "listing type cannot change after bids were placed")
		}
		product.ListingType = input.ListingType
		product.StartingPriceCents = input.StartingPriceCents
		product.AuctionEndsAt = input.AuctionEndsAt
		if product.IsAuction() {
			product.CurrentBidCents = input.StartingPriceCents
		} else {
			product.CurrentBidCents = nil
		}
	} else if product.IsAuction() {
		product.AuctionEndsAt = input.AuctionEndsAt
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ToggleVisibility(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	product.IsHidden = !product.IsHidden
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) ListMine(ctx context.Context, actor types.Actor) ([]models.Product, error) {
	sellerID := actor.ID
	return s.repo.List(ctx, ListFilter{SellerID: &sellerID, IncludeHidden: true})
}

// ListAll returns every product including hidden ones. Admin surface.
func (s *service) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx, ListFilter{IncludeHidden: true})
}

func (s *service) loadOwned(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the listing owner")
	}
	return product, nil
}

func validateInput(input *Input) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if len(input.ImageURLs) > maxImageURLs {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "at most %d image urls allowed", maxImageURLs)
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount cannot be negative")
	}
	if !input.ListingType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
	}
	if input.ListingType == enums.ListingTypeAuction {
		if input.StartingPriceCents == nil || *input.StartingPriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "auction requires a starting price")
		}
		if input.AuctionEndsAt == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "auction requires an end time")
		}
	}
	return nil
}
