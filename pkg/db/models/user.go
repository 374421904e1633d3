package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/enums"
)

// User represents the canonical identity entity. Login is by email only;
// there is no credential beyond the caller-supplied id.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null;default:'user'"`
	FullName  *string        `gorm:"column:full_name"`
	Address   *string        `gorm:"column:address"`
	Telephone *string        `gorm:"column:telephone"`
	ImageURL  *string        `gorm:"column:image_url"`
	BitQRURL  *string        `gorm:"column:bit_qr_url"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
