package repository

import (
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/utils"
)

// EntityRepository defines the interface for entity data access
type EntityRepository interface {
	// Kind returns the entity kind this repository is bound to
	Kind() models.Kind

	// List returns every entity in listing order
	List() ([]models.Entity, error)

	// ListPage returns one page of entities in listing order plus the total count
	ListPage(params utils.PaginationParams) ([]models.Entity, int64, error)

	// FindByID finds an entity by ID
	FindByID(id uint64) (*models.Entity, error)

	// Create creates a new entity
	Create(entity *models.Entity) error

	// Update replaces the mutable fields of an entity, returning gorm.ErrRecordNotFound if the row is gone
	Update(entity *models.Entity) error

	// Delete removes an entity, returning gorm.ErrRecordNotFound if nothing was deleted
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
