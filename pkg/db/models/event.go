package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is an organizer-run gathering with an optional participant cap.
// MaxParticipants nil means unlimited.
type Event struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizerID     uuid.UUID          `gorm:"column:organizer_id;type:uuid;not null;index"`
	Title           string             `gorm:"column:title;not null"`
	Description     *string            `gorm:"column:description"`
	Date            time.Time          `gorm:"column:date;not null;index"`
	Location        *string            `gorm:"column:location"`
	ImageURL        *string            `gorm:"column:image_url"`
	EntryFeeCents   *int64             `gorm:"column:entry_fee_cents"`
	MaxParticipants *int               `gorm:"column:max_participants"`
	Participants    []EventParticipant `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
