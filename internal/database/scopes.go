package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ListOrder orders dated kinds by date, everything else by insertion.
func ListOrder(kind models.Kind) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if kind.Dated {
			return db.Order("date ASC").Order("id ASC")
		}
		return db.Order("id ASC")
	}
}
