package database

import (
	"fmt"

	"github.com/yukikurage/showcase/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddIndexes adds the listing index for dated kinds.
func AddIndexes(db *gorm.DB, kind models.Kind) error {
	if !kind.Dated {
		return nil
	}

	name := fmt.Sprintf("idx_%s_date", kind.Table)
	if db.Migrator().HasIndex(kind.Table, name) {
		return nil
	}

	err := db.Exec("CREATE INDEX ? ON ? (?)",
		clause.Table{Name: name},
		clause.Table{Name: kind.Table},
		clause.Column{Name: "date"},
	).Error
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	return nil
}
