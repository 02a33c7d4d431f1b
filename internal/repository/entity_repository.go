package repository

import (
	"github.com/yukikurage/showcase/internal/database"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/utils"
	"gorm.io/gorm"
)

// GormEntityRepository is a GORM implementation of EntityRepository.
// All queries run against the table of its kind.
type GormEntityRepository struct {
	db   *gorm.DB
	kind models.Kind
}

// NewEntityRepository creates a new EntityRepository bound to kind
func NewEntityRepository(db *gorm.DB, kind models.Kind) EntityRepository {
	return &GormEntityRepository{db: db, kind: kind}
}

func (r *GormEntityRepository) table() *gorm.DB {
	return r.db.Table(r.kind.Table)
}

func (r *GormEntityRepository) Kind() models.Kind {
	return r.kind
}

// List returns all entities, dated kinds ordered by date
func (r *GormEntityRepository) List() ([]models.Entity, error) {
	entities := []models.Entity{}
	if err := r.table().Scopes(database.ListOrder(r.kind)).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// ListPage returns a page of entities and the total count
func (r *GormEntityRepository) ListPage(params utils.PaginationParams) ([]models.Entity, int64, error) {
	var total int64
	if err := r.table().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entities := []models.Entity{}
	if err := r.table().
		Scopes(database.ListOrder(r.kind), database.Paginate(params)).
		Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// FindByID finds an entity by ID
func (r *GormEntityRepository) FindByID(id uint64) (*models.Entity, error) {
	var entity models.Entity
	if err := r.table().First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create creates a new entity
func (r *GormEntityRepository) Create(entity *models.Entity) error {
	return r.table().Create(entity).Error
}

// Update writes every mutable column of an existing entity. It never inserts:
// a row that is gone returns gorm.ErrRecordNotFound.
func (r *GormEntityRepository) Update(entity *models.Entity) error {
	result := r.table().
		Where("id = ?", entity.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete hard-deletes an entity
func (r *GormEntityRepository) Delete(id uint64) error {
	result := r.table().Delete(&models.Entity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
