package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/enums"
)

// Product represents a marketplace listing, fixed-price or auction.
// CurrentBidCents is null for fixed-price listings; for auctions it starts at
// the starting price and only ever moves up.
type Product struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID           uuid.UUID         `gorm:"column:seller_id;type:uuid;not null;index"`
	Name               string            `gorm:"column:name;not null"`
	Description        *string           `gorm:"column:description"`
	PriceCents         int64             `gorm:"column:price_cents;not null;default:0"`
	Amount             int               `gorm:"column:amount;not null;default:0"`
	ImageURLs          pq.StringArray    `gorm:"column:image_urls;type:text[]"`
	Category           string            `gorm:"column:category;not null;index"`
	Condition          string            `gorm:"column:condition;not null"`
	Rarity             *string           `gorm:"column:rarity"`
	CardNumber         *string           `gorm:"column:card_number"`
	ListingType        enums.ListingType `gorm:"column:listing_type;type:text;not null;default:'fixed_price'"`
	StartingPriceCents *int64            `gorm:"column:starting_price_cents"`
	CurrentBidCents    *int64            `gorm:"column:current_bid_cents"`
	AuctionEndsAt      *time.Time        `gorm:"column:auction_ends_at"`
	IsHidden           bool              `gorm:"column:is_hidden;not null;default:false"`
	Bids               []Bid             `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsAuction reports whether the listing takes bids.
func (p *Product) IsAuction() bool {
	return p.ListingType == enums.ListingTypeAuction
}
