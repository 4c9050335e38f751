// Package transport defines request and response shapes for the design bank API.
package transport

import (
	"encoding/json"
	"time"

	"crm_backend/internal/designs/repository"
)

type CreateDesignRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Category      string   `json:"category" validate:"required,max=128"`
	Subcategory   *string  `json:"subcategory" validate:"omitempty,max=128"`
	ImageURL      string   `json:"imageUrl" validate:"required,url"`
	Description   *string  `json:"description" validate:"omitempty,max=4096"`
	PriceRangeMin *float64 `json:"priceRangeMin" validate:"omitempty,gte=0"`
	PriceRangeMax *float64 `json:"priceRangeMax" validate:"omitempty,gte=0"`
	Tags          []string `json:"tags" validate:"omitempty,dive,max=64"`
}

type ListDesignsRequest struct {
	Category        *string `form:"category"`
	IncludeInactive bool    `form:"includeInactive"`
}

type DesignResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Subcategory   *string   `json:"subcategory,omitempty"`
	ImageURL      string    `json:"imageUrl"`
	Description   *string   `json:"description,omitempty"`
	PriceRangeMin *float64  `json:"priceRangeMin,omitempty"`
	PriceRangeMax *float64  `json:"priceRangeMax,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToDesignResponse maps a stored design to its API shape. The tags
// column holds a JSON array as text; a malformed value degrades to no
// tags rather than failing the response.
func ToDesignResponse(design repository.Design) DesignResponse {
	resp := DesignResponse{
		ID:            design.ID,
		Name:          design.Name,
		Category:      design.Category,
		Subcategory:   design.Subcategory,
		ImageURL:      design.ImageURL,
		Description:   design.Description,
		PriceRangeMin: design.PriceRangeMin,
		PriceRangeMax: design.PriceRangeMax,
		IsActive:      design.IsActive,
		CreatedAt:     design.CreatedAt,
		UpdatedAt:     design.UpdatedAt,
	}
	if design.Tags != nil {
		var tags []string
		if err := json.Unmarshal([]byte(*design.Tags), &tags); err == nil {
			resp.Tags = tags
		}
	}
	return resp
}

// EncodeTags serializes the request's tag list for storage. Nil means
// no tags were supplied.
func EncodeTags(tags []string) (*string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, err
	}
	encoded := string(raw)
	return &encoded, nil
}
