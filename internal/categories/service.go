package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the category catalog. Renames cascade into the denormalized
// product category column inside a single transaction.
type Service interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, input Input) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Input carries the writable category fields.
type Input struct {
	Name     string
	ImageURL *string
}

type service struct {
	db *gorm.DB
	tx txRunner
}

// NewService builds the category service.
func NewService(conn *gorm.DB, tx txRunner) (Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{db: conn, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{Name: name, ImageURL: input.ImageURL}
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
		}
		return nil, err
	}
	return category, nil
}

// Update renames the category and rewrites the category column on every
// product that referenced the old name, atomically.
func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	var updated *models.Category
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return err
		}

		oldName := category.Name
		category.Name = name
		category.ImageURL = input.ImageURL

		if err := tx.Save(&category).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "category name already exists")
			}
			return err
		}

		if oldName != name {
			if err := tx.Model(&models.Product{}).
				Where("category = ?", oldName).
				Update("category", name).Error; err != nil {
				return err
			}
		}

		updated = &category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the category unless any product still references it.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return err
		}

		var inUse int64
		if err := tx.Model(&models.Product{}).
			Where("category = ?", category.Name).
			Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return pkgerrors.Newf(pkgerrors.CodeBusinessRule, "category is used by %d products", inUse)
		}

		return tx.Delete(&category).Error
	})
}
