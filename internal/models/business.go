// internal/models/business.go
package models

import "lusotown-workers/internal/directory/engine"

// Business is a directory_businesses row. Address fields are flat here to
// mirror the table; ToEntity nests them for the filter/sort engine.
type Business struct {
	ID              string            `json:"id"`
	Name            map[string]string `json:"name"`
	Description     map[string]string `json:"description"`
	Category        string            `json:"category"`
	City            string            `json:"city"`
	Region          string            `json:"region"`
	Latitude        *float64          `json:"latitude,omitempty"`
	Longitude       *float64          `json:"longitude,omitempty"`
	IsFeatured      bool              `json:"isFeatured"`
	IsPremium       bool              `json:"isPremium"`
	IsVerified      bool              `json:"isVerified"`
	Rating          float64           `json:"rating"`
	ReviewCount     int               `json:"reviewCount"`
	EstablishedYear int               `json:"establishedYear"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

// ToEntity converts the row into the engine's wire shape. This is the
// contract between the Postgres query workers and rank-directory-results:
// downstream decoding expects city/region/coordinates under "location".
func (b Business) ToEntity() engine.Entity {
	return engine.Entity{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Category:    b.Category,
		Location: engine.Location{
			City:      b.City,
			Region:    b.Region,
			Latitude:  b.Latitude,
			Longitude: b.Longitude,
		},
		IsFeatured:      b.IsFeatured,
		IsPremium:       b.IsPremium,
		IsVerified:      b.IsVerified,
		Rating:          b.Rating,
		ReviewCount:     b.ReviewCount,
		EstablishedYear: b.EstablishedYear,
	}
}
