package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kardzapp/kardz-backend/pkg/db"
	"github.com/kardzapp/kardz-backend/pkg/db/models"
	pkgerrors "github.com/kardzapp/kardz-backend/pkg/errors"
	"github.com/kardzapp/kardz-backend/pkg/types"
)

const participantUniqueIndex = "idx_event_participants_event_user"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages events and their registrations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListUpcoming(ctx context.Context) ([]models.Event, error)
	ListMine(ctx context.Context, actor types.Actor) ([]models.Event, error)
	Create(ctx context.Context, actor types.Actor, input Input) (*models.Event, error)
	Update(ctx context.Context, actor types.Actor, id uuid.UUID, input Input) (*models.Event, error)
	Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error
	Register(ctx context.Context, eventID uuid.UUID, actor types.Actor) (*models.Event, error)
	Unregister(ctx context.Context, eventID uuid.UUID, actor types.Actor) (*models.Event, error)
}

// Input carries the writable event fields.
type Input struct {
	Title           string
	Description     *string
	Date            time.Time
	Location        *string
	ImageURL        *string
	EntryFeeCents   *int64
	MaxParticipants *int
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the event service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.repo.FindByIDWithParticipants(ctx, id)
}

func (s *service) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	return s.repo.ListUpcoming(ctx)
}

func (s *service) ListMine(ctx context.Context, actor types.Actor) ([]models.Event, error) {
	return s.repo.ListByOrganizer(ctx, actor.ID)
}

func (s *service) Create(ctx context.Context, actor types.Actor, input Input) (*models.Event, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	event := &models.Event{
		OrganizerID:     actor.ID,
		Title:           input.Title,
		Description:     input.Description,
		Date:            input.Date,
		Location:        input.Location,
		ImageURL:        input.ImageURL,
		EntryFeeCents:   input.EntryFeeCents,
		MaxParticipants: input.MaxParticipants,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Update(ctx context.Context, actor types.Actor, id uuid.UUID, input Input) (*models.Event, error) {
	event, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.Date = input.Date
	event.Location = input.Location
	event.ImageURL = input.ImageURL
	event.EntryFeeCents = input.EntryFeeCents
	event.MaxParticipants = input.MaxParticipants

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) Delete(ctx context.Context, actor types.Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Register adds the actor to the event. The event row is locked for the
// transaction before the participant count is checked, so concurrent
// registrations for the last seat queue up and resolve to exactly one winner.
// A duplicate registration surfaces as the unique (event, user) violation.
func (s *service) Register(ctx context.Context, eventID uuid.UUID, actor types.Actor) (*models.Event, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event, err := repo.FindByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}

		if event.MaxParticipants == nil {
			participant := &models.EventParticipant{EventID: event.ID, UserID: actor.ID}
			if err := tx.Create(participant).Error; err != nil {
				if db.IsUniqueViolation(err, participantUniqueIndex) {
					return pkgerrors.New(pkgerrors.CodeConflict, "already registered for this event")
				}
				return err
			}
			return nil
		}

		insert := tx.Exec(`
			INSERT INTO event_participants (id, event_id, user_id, registered_at)
			SELECT ?, ?, ?, CURRENT_TIMESTAMP
			WHERE (SELECT COUNT(*) FROM event_participants WHERE event_id = ?) < ?`,
			uuid.New(), event.ID, actor.ID, event.ID, *event.MaxParticipants)
		if insert.Error != nil {
			if db.IsUniqueViolation(insert.Error, participantUniqueIndex) {
				return pkgerrors.New(pkgerrors.CodeConflict, "already registered for this event")
			}
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "event is full")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByIDWithParticipants(ctx, eventID)
}

// Unregister removes the actor's registration. Removing a registration that
// does not exist is not an error.
func (s *service) Unregister(ctx context.Context, eventID uuid.UUID, actor types.Actor) (*models.Event, error) {
	if _, err := s.repo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.
			Where("event_id = ? AND user_id = ?", eventID, actor.ID).
			Delete(&models.EventParticipant{}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByIDWithParticipants(ctx, eventID)
}

func (s *service) loadOwned(ctx context.Context, actor types.Actor, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != actor.ID && !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the event organizer")
	}
	return event, nil
}

func validateInput(input *Input) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event title is required")
	}
	if input.Date.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "event date is required")
	}
	if input.MaxParticipants != nil && *input.MaxParticipants <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max participants must be positive")
	}
	if input.EntryFeeCents != nil && *input.EntryFeeCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "entry fee cannot be negative")
	}
	return nil
}
