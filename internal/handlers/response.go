package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"streetaid/internal/models"
)

// parseBounds reads the four viewport edges from query parameters.
func parseBounds(q url.Values) (models.BoundingBox, error) {
	var bounds models.BoundingBox

	for _, edge := range []struct {
		name string
		dst  *float64
	}{
		{"north", &bounds.North},
		{"south", &bounds.South},
		{"east", &bounds.East},
		{"west", &bounds.West},
	} {
		raw := q.Get(edge.name)
		if raw == "" {
			return bounds, fmt.Errorf("missing %s parameter", edge.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return bounds, fmt.Errorf("invalid %s parameter", edge.name)
		}
		*edge.dst = v
	}

	if err := bounds.Validate(); err != nil {
		return bounds, err
	}
	return bounds, nil
}

func parseBool(input string) bool {
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "1" || input == "true"
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}
