package auction

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/migrate"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

func setupTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.BootstrapSQLite(conn))
	return db.NewWithConn(conn)
}

func newAuction(t *testing.T, client *db.Client, sellerID uuid.UUID, startingCents int64, endsAt time.Time) *models.Product {
	t.Helper()

	starting := startingCents
	watermark := startingCents
	product := &models.Product{
		SellerID:           sellerID,
		Name:               "Charizard Holo 1st Edition",
		Category:           "Pokemon",
		Condition:          "near_mint",
		ListingType:        enums.ListingTypeAuction,
		StartingPriceCents: &starting,
		CurrentBidCents:    &watermark,
		AuctionEndsAt:      &endsAt,
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func bidder() types.Actor {
	return types.Actor{ID: uuid.New(), Email: "bidder@example.com", Role: enums.UserRoleUser}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestPlaceBidRaisesWatermarkAndRecordsHistory(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	sellerID := uuid.New()
	product := newAuction(t, client, sellerID, 1000, time.Now().Add(time.Hour))
	actor := bidder()

	updated, err := svc.PlaceBid(context.Background(), product.ID, actor, 1500)
	require.NoError(t, err)

	require.NotNil(t, updated.CurrentBidCents)
	assert.Equal(t, int64(1500), *updated.CurrentBidCents)
	require.Len(t, updated.Bids, 1)
	assert.Equal(t, actor.ID, updated.Bids[0].BidderID)
	assert.Equal(t, actor.Email, updated.Bids[0].BidderEmail)
	assert.Equal(t, int64(1500), updated.Bids[0].AmountCents)
}

func TestPlaceBidHistoryNewestFirst(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	product := newAuction(t, client, uuid.New(), 1000, time.Now().Add(time.Hour))

	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 1100)
	require.NoError(t, err)
	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 1300)
	require.NoError(t, err)
	updated, err := svc.PlaceBid(context.Background(), product.ID, bidder(), 1700)
	require.NoError(t, err)

	require.Len(t, updated.Bids, 3)
	assert.Equal(t, int64(1700), updated.Bids[0].AmountCents)
	assert.Equal(t, int64(1300), updated.Bids[1].AmountCents)
	assert.Equal(t, int64(1100), updated.Bids[2].AmountCents)
}

func TestPlaceBidRejectsNonPositiveAmount(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	_, err = svc.PlaceBid(context.Background(), uuid.New(), bidder(), 0)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestPlaceBidUnknownProduct(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	_, err = svc.PlaceBid(context.Background(), uuid.New(), bidder(), 1500)
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestPlaceBidRejectsFixedPriceListing(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	product := &models.Product{
		SellerID:    uuid.New(),
		Name:        "Base Set Booster",
		Category:    "Pokemon",
		Condition:   "sealed",
		PriceCents:  2500,
		Amount:      4,
		ListingType: enums.ListingTypeFixedPrice,
	}
	require.NoError(t, client.DB().Create(product).Error)

	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 3000)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "not an auction")
}

func TestPlaceBidRejectsClosedAuction(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	product := newAuction(t, client, uuid.New(), 1000, time.Now().Add(-time.Minute))

	// A closed auction wins over a too-low amount.
	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 500)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "auction has ended")
}

func TestPlaceBidMustBeatStartingPrice(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	product := newAuction(t, client, uuid.New(), 1000, time.Now().Add(time.Hour))

	// Equal to the asking price is not enough.
	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 1000)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "10.00")
}

func TestPlaceBidMustBeatCurrentBid(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	product := newAuction(t, client, uuid.New(), 1000, time.Now().Add(time.Hour))

	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 2000)
	require.NoError(t, err)

	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 2000)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "20.00")

	// The losing attempt must not land in the history.
	var count int64
	require.NoError(t, client.DB().Model(&models.Bid{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPlaceBidRejectsSeller(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	sellerID := uuid.New()
	product := newAuction(t, client, sellerID, 1000, time.Now().Add(time.Hour))
	seller := types.Actor{ID: sellerID, Email: "seller@example.com", Role: enums.UserRoleUser}

	_, err = svc.PlaceBid(context.Background(), product.ID, seller, 1500)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "own listing")
}

func TestPlaceBidClockInjection(t *testing.T) {
	client := setupTestDB(t)
	svc, err := NewService(client, nil)
	require.NoError(t, err)

	endsAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	product := newAuction(t, client, uuid.New(), 1000, endsAt)

	impl := svc.(*service)
	impl.now = func() time.Time { return endsAt.Add(time.Second) }

	_, err = svc.PlaceBid(context.Background(), product.ID, bidder(), 1500)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "auction has ended")
}

func TestNewServiceRequiresTxRunner(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}
