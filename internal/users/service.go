package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
)

// Service exposes user account operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
}

// LoginInput identifies the account to resolve or provision.
type LoginInput struct {
	Email    string
	FullName *string
	ImageURL *string
}

// ProfileInput carries the editable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileInput struct {
	FullName  *string
	Address   *string
	Telephone *string
	ImageURL  *string
	BitQRURL  *string
}

type service struct {
	repo       Repository
	adminEmail string
}

// NewService builds the user service. adminEmail is pinned to the admin role
// on every login.
func NewService(repo Repository, adminEmail string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{
		repo:       repo,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}, nil
}

// Login resolves the account for the given email, provisioning it on first
// sight. The configured admin email always resolves with the admin role, even
// if the stored record was demoted.
func (s *service) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
		user = nil
	}

	if user == nil {
		user = &models.User{
			Email:    email,
			Role:     s.roleFor(email),
			FullName: input.FullName,
			ImageURL: input.ImageURL,
		}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			// Lost a provisioning race; the row exists now.
			if db.IsUniqueViolation(createErr, "") {
				return s.repo.FindByEmail(ctx, email)
			}
			return nil, createErr
		}
		return user, nil
	}

	if email == s.adminEmail && user.Role != enums.UserRoleAdmin {
		user.Role = enums.UserRoleAdmin
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *service) roleFor(email string) enums.UserRole {
	if email == s.adminEmail {
		return enums.UserRoleAdmin
	}
	return enums.UserRoleUser
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = input.FullName
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.Telephone != nil {
		user.Telephone = input.Telephone
	}
	if input.ImageURL != nil {
		user.ImageURL = input.ImageURL
	}
	if input.BitQRURL != nil {
		user.BitQRURL = input.BitQRURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *service) UpdateRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Email == s.adminEmail && role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "primary admin cannot be demoted")
	}

	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
