package models

// ShelterRecord is the normalized view of one shelter-like point of interest
// returned by the Overpass query. The raw OSM tags are kept for traceability.
type ShelterRecord struct {
	ID              string            `json:"id"` // "type/id", stable across fetches
	Latitude        float64           `json:"latitude"`
	Longitude       float64           `json:"longitude"`
	Name            string            `json:"name"`
	Address         string            `json:"address,omitempty"`
	Capacity        string            `json:"capacity,omitempty"`
	Status          string            `json:"status,omitempty"`
	ProvidesFood    *bool             `json:"providesFood"`    // nil means unknown, not "no"
	ProvidesMedical *bool             `json:"providesMedical"` // nil means unknown, not "no"
	Description     string            `json:"description,omitempty"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// SheltersResponse is the API response for a viewport shelter query.
type SheltersResponse struct {
	Shelters []ShelterRecord `json:"shelters"`
	Count    int             `json:"count"`
}

// CacheStats is the read-only cache inspection payload.
type CacheStats struct {
	Size    int      `json:"size"`
	Entries []string `json:"entries"`
}
