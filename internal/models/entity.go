package models

import "time"

// Entity is the single content record managed by a deployment. The table it
// lives in is chosen by the deployment's Kind, so the struct has no TableName.
type Entity struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Date        *time.Time `gorm:"type:date" json:"date"`
	Image       *string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasImage reports whether an image filename is recorded.
func (e *Entity) HasImage() bool {
	return e.Image != nil && *e.Image != ""
}

// ImageName returns the recorded image filename or "".
func (e *Entity) ImageName() string {
	if e.Image == nil {
		return ""
	}
	return *e.Image
}
