package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EventParticipant is the (event, user) join row. The composite unique index
// is what turns a duplicate registration into a constraint violation.
type EventParticipant struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID      uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_participants_event_user"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_event_participants_event_user"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime"`
}

func (p *EventParticipant) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
