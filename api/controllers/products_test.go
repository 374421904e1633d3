package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/api/middleware"
	productsvc "github.com/kardzapp/kardz-backend/internal/products"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

type stubProducts struct {
	product *models.Product
	list    []models.Product
	err     error

	createdInput productsvc.Input
}

func (s *stubProducts) Catalog(context.Context) ([]models.Product, error) {
	return s.list, s.err
}

func (s *stubProducts) Get(context.Context, uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProducts) Create(_ context.Context, _ types.Actor, input productsvc.Input) (*models.Product, error) {
	s.createdInput = input
	return s.product, s.err
}

func (s *stubProducts) Update(context.Context, types.Actor, uuid.UUID, productsvc.Input) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProducts) Delete(context.Context, types.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubProducts) ToggleVisibility(context.Context, types.Actor, uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProducts) ListMine(context.Context, types.Actor) ([]models.Product, error) {
	return s.list, s.err
}

func (s *stubProducts) ListAll(context.Context) ([]models.Product, error) {
	return s.list, s.err
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withActor(r *http.Request, actor types.Actor) *http.Request {
	return r.WithContext(middleware.WithActor(r.Context(), actor))
}

func testActor() types.Actor {
	return types.Actor{ID: uuid.New(), Email: "seller@example.com", Role: enums.UserRoleUser}
}

func TestGetProductSuccess(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Charizard", Category: "Pokemon"}
	handler := GetProduct(&stubProducts{product: product}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+product.ID.String(), nil)
	req = withURLParam(req, "productID", product.ID.String())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data models.Product `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != product.ID {
		t.Fatalf("unexpected product %v", envelope.Data.ID)
	}
}

func TestGetProductInvalidID(t *testing.T) {
	handler := GetProduct(&stubProducts{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/nope", nil)
	req = withURLParam(req, "productID", "nope")
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetProductNotFound(t *testing.T) {
	handler := GetProduct(&stubProducts{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil)
	req = withURLParam(req, "productID", id)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCreateProductConvertsPriceToCents(t *testing.T) {
	stub := &stubProducts{product: &models.Product{ID: uuid.New()}}
	handler := CreateProduct(stub, nil)

	body := `{
		"name": "Blastoise",
		"price": 24.99,
		"amount": 2,
		"category": "Pokemon",
		"condition": "near_mint",
		"listingType": "fixed_price"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req = withActor(req, testActor())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.createdInput.PriceCents != 2499 {
		t.Fatalf("expected 2499 cents, got %d", stub.createdInput.PriceCents)
	}
	if stub.createdInput.ListingType != enums.ListingTypeFixedPrice {
		t.Fatalf("unexpected listing type %s", stub.createdInput.ListingType)
	}
}

func TestCreateProductRequiresActor(t *testing.T) {
	handler := CreateProduct(&stubProducts{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCreateProductRejectsUnknownListingType(t *testing.T) {
	handler := CreateProduct(&stubProducts{}, nil)

	body := `{
		"name": "Oddity",
		"amount": 1,
		"category": "Pokemon",
		"condition": "played",
		"listingType": "raffle"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req = withActor(req, testActor())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateProductRejectsUnknownFields(t *testing.T) {
	handler := CreateProduct(&stubProducts{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"surprise":true}`))
	req = withActor(req, testActor())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDeleteProductReportsStatus(t *testing.T) {
	handler := DeleteProduct(&stubProducts{}, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodDelete, "/api/products/"+id, nil)
	req = withURLParam(req, "productID", id)
	req = withActor(req, testActor())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"deleted"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
