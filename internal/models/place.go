package models

// Place represents a node in the place directory (a city-level point)
type Place struct {
	GeoID     int64   `json:"geo_id"`
	Type      string  `json:"type,omitempty"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Name      string  `json:"name"`
	Province  string  `json:"province,omitempty"` // empty when unmapped
}

// PlaceCandidate is a minimal place reference returned by name resolution
type PlaceCandidate struct {
	GeoID int64  `json:"geo_id"`
	Name  string `json:"name"`
}

// Relation is a directed edge between two places with a travel cost
type Relation struct {
	OriginID      int64    `json:"origin_id"`
	DestinationID int64    `json:"destination_id"`
	Cost          *float64 `json:"cost"` // nil when the stored cost is NULL
}
