package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/repository"
	"github.com/yukikurage/showcase/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEntityNotFound      = errors.New("entity not found")
	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrDescriptionRequired = fmt.Errorf("%w: description is required", ErrValidation)
	ErrInvalidDateFormat   = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
)

// EntityService handles entity business logic. It keeps the stored image and
// the record's image reference in step.
type EntityService struct {
	entityRepo  repository.EntityRepository
	attachments *AttachmentService
	logger      logging.Logger
}

// NewEntityService creates a new EntityService
func NewEntityService(entityRepo repository.EntityRepository, attachments *AttachmentService, logger logging.Logger) *EntityService {
	return &EntityService{
		entityRepo:  entityRepo,
		attachments: attachments,
		logger:      logger.With("kind", entityRepo.Kind().Name),
	}
}

// EntityInput is the submitted form of an entity. Date is ignored for undated
// kinds. Image is nil when no file was uploaded.
type EntityInput struct {
	Title       string
	Description string
	Date        string
	Image       *Upload
}

// EntityPage is one page of the listing.
type EntityPage struct {
	Entities []models.Entity
	Total    int64
	Params   utils.PaginationParams
}

func (s *EntityService) Kind() models.Kind {
	return s.entityRepo.Kind()
}

// List returns all entities in listing order.
func (s *EntityService) List() ([]models.Entity, error) {
	entities, err := s.entityRepo.List()
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrPersistenceFailure, err)
	}
	return entities, nil
}

// ListPage returns one page of entities in listing order.
func (s *EntityService) ListPage(params utils.PaginationParams) (*EntityPage, error) {
	entities, total, err := s.entityRepo.ListPage(params)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrPersistenceFailure, err)
	}
	return &EntityPage{Entities: entities, Total: total, Params: params}, nil
}

// Get retrieves an entity by ID.
func (s *EntityService) Get(id uint64) (*models.Entity, error) {
	entity, err := s.entityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("%w: find: %v", ErrPersistenceFailure, err)
	}
	return entity, nil
}

// Create validates input, stores the image if any and then inserts the
// record. If the insert fails the stored image is removed again.
func (s *EntityService) Create(ctx context.Context, input EntityInput) (*models.Entity, error) {
	fields, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	entity := &models.Entity{
		Title:       fields.title,
		Description: fields.description,
		Date:        fields.date,
	}

	var stored string
	if input.Image != nil {
		stored, err = s.attachments.Store(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		entity.Image = &stored
	}

	if err := s.entityRepo.Create(entity); err != nil {
		s.logger.Error(ctx, "failed to create entity", "error", err)
		s.attachments.Remove(ctx, stored)
		return nil, fmt.Errorf("%w: create: %v", ErrPersistenceFailure, err)
	}

	s.logger.Info(ctx, "entity created", "id", entity.ID, "image", entity.ImageName())
	return entity, nil
}

// Update replaces title, description and date. The image is replaced only
// when a new one is uploaded, and the previous file is removed after the
// record is saved.
func (s *EntityService) Update(ctx context.Context, id uint64, input EntityInput) (*models.Entity, error) {
	fields, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	entity, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	previous := entity.ImageName()

	entity.Title = fields.title
	entity.Description = fields.description
	entity.Date = fields.date

	var stored string
	if input.Image != nil {
		stored, err = s.attachments.Store(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		entity.Image = &stored
	}

	if err := s.entityRepo.Update(entity); err != nil {
		s.attachments.Remove(ctx, stored)
		// Deleted after it was loaded.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		s.logger.Error(ctx, "failed to update entity", "id", id, "error", err)
		return nil, fmt.Errorf("%w: update: %v", ErrPersistenceFailure, err)
	}

	if stored != "" && previous != "" && previous != stored {
		s.attachments.Remove(ctx, previous)
	}

	s.logger.Info(ctx, "entity updated", "id", entity.ID, "image", entity.ImageName())
	return entity, nil
}

// Delete removes the record and then its image file.
func (s *EntityService) Delete(ctx context.Context, id uint64) error {
	entity, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.entityRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntityNotFound
		}
		s.logger.Error(ctx, "failed to delete entity", "id", id, "error", err)
		return fmt.Errorf("%w: delete: %v", ErrPersistenceFailure, err)
	}

	s.attachments.Remove(ctx, entity.ImageName())

	s.logger.Info(ctx, "entity deleted", "id", id)
	return nil
}

type entityFields struct {
	title       string
	description string
	date        *time.Time
}

func (s *EntityService) validate(input EntityInput) (entityFields, error) {
	fields := entityFields{
		title:       strings.TrimSpace(input.Title),
		description: strings.TrimSpace(input.Description),
	}
	if fields.title == "" {
		return fields, ErrTitleRequired
	}
	if fields.description == "" {
		return fields, ErrDescriptionRequired
	}

	if s.Kind().Dated {
		date, err := ParseDate(input.Date)
		if err != nil {
			return fields, err
		}
		fields.date = &date
	}

	return fields, nil
}

// ParseDate parses a YYYY-MM-DD date. Calendar-invalid dates such as
// 2024-02-30 are rejected.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(constants.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return date, nil
}
