package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	usersvc "github.com/kardzapp/kardz-backend/internal/users"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
)

type stubUsers struct {
	user *models.User
	list []models.User
	err  error

	loginInput usersvc.LoginInput
}

func (s *stubUsers) Login(_ context.Context, input usersvc.LoginInput) (*models.User, error) {
	s.loginInput = input
	return s.user, s.err
}

func (s *stubUsers) GetByID(context.Context, uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUsers) UpdateProfile(context.Context, uuid.UUID, usersvc.ProfileInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUsers) List(context.Context) ([]models.User, error) {
	return s.list, s.err
}

func (s *stubUsers) UpdateRole(context.Context, uuid.UUID, enums.UserRole) (*models.User, error) {
	return s.user, s.err
}

func TestLoginSuccess(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "collector@example.com", Role: enums.UserRoleUser}
	stub := &stubUsers{user: user}
	handler := Login(stub, nil)

	body := `{"email":"Collector@Example.Com","fullName":"Ash K"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if stub.loginInput.Email != "Collector@Example.Com" {
		t.Fatalf("unexpected login email %q", stub.loginInput.Email)
	}

	var envelope struct {
		Data models.User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != user.ID {
		t.Fatalf("unexpected user id %s", envelope.Data.ID)
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	handler := Login(&stubUsers{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"not-an-email"}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestLoginRejectsMissingEmail(t *testing.T) {
	handler := Login(&stubUsers{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
