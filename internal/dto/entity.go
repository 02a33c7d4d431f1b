package dto

import (
	"net/url"
	"time"

	"github.com/yukikurage/showcase/internal/constants"
	"github.com/yukikurage/showcase/internal/models"
	"github.com/yukikurage/showcase/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// EntityDTO represents an entity in API responses
type EntityDTO struct {
	ID          uint64    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        *string   `json:"date,omitempty"`
	Image       *string   `json:"image"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityListResponse represents a paginated list of entities
type EntityListResponse struct {
	Entities   []EntityDTO              `json:"entities"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a user to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToEntityDTO converts an entity to EntityDTO
func ToEntityDTO(kind models.Kind, entity models.Entity) EntityDTO {
	out := EntityDTO{
		ID:          entity.ID,
		Kind:        kind.Name,
		Title:       entity.Title,
		Description: entity.Description,
		Image:       entity.Image,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
	if kind.Dated && entity.Date != nil {
		date := entity.Date.Format(constants.DateLayout)
		out.Date = &date
	}
	if entity.HasImage() {
		imageURL := ImageURL(entity.ImageName())
		out.ImageURL = &imageURL
	}
	return out
}

// ToEntityListResponse converts a page of entities
func ToEntityListResponse(kind models.Kind, entities []models.Entity, params utils.PaginationParams, total int64) EntityListResponse {
	items := make([]EntityDTO, 0, len(entities))
	for _, e := range entities {
		items = append(items, ToEntityDTO(kind, e))
	}
	return EntityListResponse{
		Entities: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}

// ImageURL is the public path a stored image is served from.
func ImageURL(name string) string {
	return "/uploads/" + url.PathEscape(name)
}
