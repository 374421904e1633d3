package categories

import (
	"context"
	"fmt"
	"strings"
	"testing"

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
)

func setupTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migrate.BootstrapSQLite(conn))
	return db.NewWithConn(conn)
}

func newService(t *testing.T, client *db.Client) Service {
	t.Helper()

	svc, err := NewService(client.DB(), client)
	require.NoError(t, err)
	return svc
}

func newProductIn(t *testing.T, client *db.Client, category string) *models.Product {
	t.Helper()

	product := &models.Product{
		SellerID:    uuid.New(),
		Name:        "Dark Magician",
		Category:    category,
		Condition:   "played",
		PriceCents:  500,
		Amount:      1,
		ListingType: enums.ListingTypeFixedPrice,
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()

	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateCategory(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	category, err := svc.Create(context.Background(), Input{Name: "Yu-Gi-Oh"})
	require.NoError(t, err)
	assert.Equal(t, "Yu-Gi-Oh", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	_, err := svc.Create(context.Background(), Input{Name: "Magic"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Input{Name: "Magic"})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	_, err := svc.Create(context.Background(), Input{Name: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateRenameCascadesToProducts(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	category, err := svc.Create(context.Background(), Input{Name: "Pokemon TCG"})
	require.NoError(t, err)

	inCategory := newProductIn(t, client, "Pokemon TCG")
	other := newProductIn(t, client, "Sports")

	updated, err := svc.Update(context.Background(), category.ID, Input{Name: "Pokemon"})
	require.NoError(t, err)
	assert.Equal(t, "Pokemon", updated.Name)

	var moved models.Product
	require.NoError(t, client.DB().First(&moved, "id = ?", inCategory.ID).Error)
	assert.Equal(t, "Pokemon", moved.Category)

	var untouched models.Product
	require.NoError(t, client.DB().First(&untouched, "id = ?", other.ID).Error)
	assert.Equal(t, "Sports", untouched.Category)
}

func TestUpdateRejectsNameTakenByAnotherCategory(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	_, err := svc.Create(context.Background(), Input{Name: "Magic"})
	require.NoError(t, err)
	category, err := svc.Create(context.Background(), Input{Name: "Digimon"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), category.ID, Input{Name: "Magic"})
	assertCode(t, err, pkgerrors.CodeConflict)

	// The failed rename must not have moved anything.
	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	names := []string{listed[0].Name, listed[1].Name}
	assert.Contains(t, names, "Digimon")
}

func TestUpdateUnknownCategory(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	_, err := svc.Update(context.Background(), uuid.New(), Input{Name: "Ghost"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteCategoryInUse(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	category, err := svc.Create(context.Background(), Input{Name: "Vintage"})
	require.NoError(t, err)
	newProductIn(t, client, "Vintage")

	err = svc.Delete(context.Background(), category.ID)
	assertCode(t, err, pkgerrors.CodeBusinessRule)
	assert.Contains(t, err.Error(), "used by 1 products")
}

func TestDeleteUnusedCategory(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	category, err := svc.Create(context.Background(), Input{Name: "Promos"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), category.ID))

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListSortsByName(t *testing.T) {
	client := setupTestDB(t)
	svc := newService(t, client)

	for _, name := range []string{"Sports", "Magic", "Pokemon"} {
		_, err := svc.Create(context.Background(), Input{Name: name})
		require.NoError(t, err)
	}

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Magic", listed[0].Name)
	assert.Equal(t, "Pokemon", listed[1].Name)
	assert.Equal(t, "Sports", listed[2].Name)
}
