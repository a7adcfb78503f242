package overpass

import (
	"fmt"
	"strings"

	"streetaid/internal/models"
)

// tagAccessor pulls one candidate value out of an element's tags.
type tagAccessor func(tags map[string]string) (string, bool)

func tagValue(name string) tagAccessor {
	return func(tags map[string]string) (string, bool) {
		v, ok := tags[name]
		return v, ok && v != ""
	}
}

func prefixedTag(name, prefix string) tagAccessor {
	return func(tags map[string]string) (string, bool) {
		if v := tags[name]; v != "" {
			return prefix + v, true
		}
		return "", false
	}
}

// Fallback chains, tried in order, first present tag wins. Kept data-driven
// so each chain is testable on its own.
var (
	capacityChain = []tagAccessor{
		tagValue("capacity:persons"),
		tagValue("capacity"),
		tagValue("capacity:bed"),
		tagValue("capacity:beds"),
	}

	statusChain = []tagAccessor{
		tagValue("capacity:status"),
		tagValue("operational_status"),
		prefixedTag("opening_hours", "Hours: "),
	}

	addressChain = []tagAccessor{
		tagValue("addr:full"),
		func(tags map[string]string) (string, bool) {
			parts := []string{}
			for _, name := range []string{"addr:housenumber", "addr:street"} {
				if v := tags[name]; v != "" {
					parts = append(parts, v)
				}
			}
			if len(parts) == 0 {
				return "", false
			}
			return strings.Join(parts, " "), true
		},
	}

	descriptionChain = []tagAccessor{
		tagValue("description"),
		tagValue("note"),
		tagValue("short_description"),
	}
)

func firstOf(tags map[string]string, chain []tagAccessor) string {
	for _, get := range chain {
		if v, ok := get(tags); ok {
			return v
		}
	}
	return ""
}

// excludedShelterTypes are amenity=shelter subtypes that are never homeless
// shelters. The query's negative filter cannot cover every branch, so the
// check is repeated here against each element.
var excludedShelterTypes = map[string]bool{
	"gazebo":           true,
	"public_transport": true,
	"bus_stop":         true,
}

var foodServices = map[string]bool{
	"food":         true,
	"soup_kitchen": true,
	"meal":         true,
	"nutrition":    true,
}

var medicalServices = map[string]bool{
	"medical":    true,
	"health":     true,
	"clinic":     true,
	"healthcare": true,
}

// triState resolves an explicit yes/no tag, then a service keyword match,
// and otherwise stays nil. Unknown must never collapse to false: the map
// legend distinguishes "does not provide" from "no data".
func triState(tags map[string]string, explicitTag string, keywords map[string]bool) *bool {
	switch tags[explicitTag] {
	case "yes":
		return boolPtr(true)
	case "no":
		return boolPtr(false)
	}
	for _, svc := range strings.Split(tags["social_facility:service"], ";") {
		if keywords[strings.ToLower(strings.TrimSpace(svc))] {
			return boolPtr(true)
		}
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }

// Normalize converts one raw element into a ShelterRecord. It returns false
// when the element has no usable coordinates or is a known false positive;
// a dropped element never fails the batch.
func Normalize(el Element) (models.ShelterRecord, bool) {
	lat, lon, ok := coordinates(el)
	if !ok {
		return models.ShelterRecord{}, false
	}

	tags := el.Tags
	if tags == nil {
		tags = map[string]string{}
	}

	// Second-pass exclusion. Applied only to amenity=shelter elements: the
	// social_facility branches are matched on explicit homeless tagging and
	// skip it.
	if tags["amenity"] == "shelter" && excludedShelterTypes[strings.ToLower(tags["shelter_type"])] {
		return models.ShelterRecord{}, false
	}

	name := tags["name"]
	if name == "" {
		name = "Shelter"
	}

	return models.ShelterRecord{
		ID:              fmt.Sprintf("%s/%d", el.Type, el.ID),
		Latitude:        lat,
		Longitude:       lon,
		Name:            name,
		Address:         firstOf(tags, addressChain),
		Capacity:        firstOf(tags, capacityChain),
		Status:          firstOf(tags, statusChain),
		ProvidesFood:    triState(tags, "service:food", foodServices),
		ProvidesMedical: triState(tags, "service:medical", medicalServices),
		Description:     firstOf(tags, descriptionChain),
		Tags:            tags,
	}, true
}

// coordinates prefers the element's own lat/lon and falls back to the
// Overpass-computed center for ways and relations.
func coordinates(el Element) (lat, lon float64, ok bool) {
	switch {
	case el.Lat != nil && el.Lon != nil:
		lat, lon = *el.Lat, *el.Lon
	case el.Center != nil:
		lat, lon = el.Center.Lat, el.Center.Lon
	default:
		return 0, 0, false
	}
	if !models.ValidCoordinate(lat, lon) {
		return 0, 0, false
	}
	return lat, lon, true
}

// NormalizeAll normalizes and deduplicates a raw element batch. Overlapping
// query branches can return the same physical point more than once; the map
// keyed by stable id keeps the last write.
func NormalizeAll(elements []Element) []models.ShelterRecord {
	deduped := make(map[string]models.ShelterRecord)
	order := make([]string, 0, len(elements))

	for _, el := range elements {
		rec, ok := Normalize(el)
		if !ok {
			continue
		}
		if _, seen := deduped[rec.ID]; !seen {
			order = append(order, rec.ID)
		}
		deduped[rec.ID] = rec
	}

	out := make([]models.ShelterRecord, 0, len(deduped))
	for _, id := range order {
		out = append(out, deduped[id])
	}
	return out
}
