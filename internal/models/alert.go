package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Alert is a community-reported need (shelter/food/medical) as stored by the
// frontend's datastore. This backend reads alerts, it never writes them.
type Alert struct {
	bun.BaseModel `bun:"table:alerts,alias:a"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Type        string    `bun:"type" json:"type"`
	Latitude    float64   `bun:"latitude" json:"latitude"`
	Longitude   float64   `bun:"longitude" json:"longitude"`
	Description *string   `bun:"description" json:"description"`
	CreatedBy   *string   `bun:"created_by" json:"created_by"`
	CreatedAt   time.Time `bun:"created_at" json:"created_at"`
	Resolved    bool      `bun:"resolved" json:"resolved"`
}

// AlertsResponse is the API response for the alert listing.
type AlertsResponse struct {
	Alerts []Alert `json:"alerts"`
	Count  int     `json:"count"`
}

// NearestShelter pairs one alert with its closest loaded shelter, if any.
type NearestShelter struct {
	Shelter        *ShelterRecord `json:"shelter"` // nil when no shelter is loaded in range
	DistanceMeters *float64       `json:"distanceMeters"`
	Distance       string         `json:"distance,omitempty"` // formatted, e.g. "240 m away"
}

// NearestShelterResponse maps alert ids to their nearest-shelter annotation.
type NearestShelterResponse struct {
	Annotations map[string]NearestShelter `json:"annotations"`
	Alerts      []Alert                   `json:"alerts"`
	Shelters    []ShelterRecord           `json:"shelters"`
	Count       int                       `json:"count"`
}
