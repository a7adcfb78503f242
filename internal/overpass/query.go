package overpass

import (
	"fmt"
	"strings"

	"streetaid/internal/models"
)

// shelterSelectors are the tag classifications unioned to approximate
// "homeless shelter". OSM has no single canonical tag for it: explicit
// social_facility values, homeless-restricted shelter variants, temporary
// shelters and generic amenity=shelter points (minus known false positives
// like bus-stop shelters) all occur in the wild.
var shelterSelectors = []string{
	`["social_facility"="homeless_shelter"]`,
	`["amenity"="social_facility"]["social_facility"="shelter"]`,
	`["amenity"="social_facility"]["social_facility"="shelter"]["social_facility:for"~"homeless"]`,
	`["social_facility"="temporary_shelter"]["social_facility:for"~"homeless"]`,
	`["amenity"="shelter"]["shelter_type"~"homeless|emergency"]["social_facility:for"~"homeless"]`,
	`["amenity"="shelter"]["shelter_type"="homeless"]`,
	`["amenity"="shelter"]["shelter_type"!~"^(gazebo|public_transport|bus_stop)$"]`,
}

var elementTypes = []string{"node", "way", "relation"}

// BuildShelterQuery renders the OverpassQL union query for a viewport.
// Overpass bbox order is (south,west,north,east).
func BuildShelterQuery(b models.BoundingBox) string {
	bbox := fmt.Sprintf("(%v,%v,%v,%v)", b.South, b.West, b.North, b.East)

	var q strings.Builder
	q.WriteString("[out:json][timeout:25];\n(\n")
	for _, sel := range shelterSelectors {
		for _, t := range elementTypes {
			q.WriteString("  ")
			q.WriteString(t)
			q.WriteString(sel)
			q.WriteString(bbox)
			q.WriteString(";\n")
		}
	}
	q.WriteString(");\nout center tags;\n")
	return q.String()
}
