package contract

import (
	"encoding/json"
	"fmt"
)

type Location struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Region is a map viewport around a centre.
type Region struct {
	Location
	LatitudeDelta  float64 `json:"latitudeDelta" validate:"gt=0"`
	LongitudeDelta float64 `json:"longitudeDelta" validate:"gt=0"`
}

// Contains reports whether loc lies within the viewport.
func (r Region) Contains(loc Location) bool {
	return loc.Latitude >= r.Latitude-r.LatitudeDelta/2 && loc.Latitude <= r.Latitude+r.LatitudeDelta/2 &&
		loc.Longitude >= r.Longitude-r.LongitudeDelta/2 && loc.Longitude <= r.Longitude+r.LongitudeDelta/2
}

// SearchResult holds either a *Gym or a *Route in Item, selected by Type.
type SearchResult struct {
	Type       SearchResultType `json:"type"`
	Item       any              `json:"item"`
	Distance   *float64         `json:"distance,omitempty"`
	MatchScore *float64         `json:"matchScore,omitempty"`
}

func (r *SearchResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type       SearchResultType `json:"type"`
		Item       json.RawMessage  `json:"item"`
		Distance   *float64         `json:"distance"`
		MatchScore *float64         `json:"matchScore"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var item any
	switch raw.Type {
	case ResultGym:
		var g Gym
		if err := json.Unmarshal(raw.Item, &g); err != nil {
			return fmt.Errorf("search result gym: %w", err)
		}
		item = &g
	case ResultRoute:
		var rt Route
		if err := json.Unmarshal(raw.Item, &rt); err != nil {
			return fmt.Errorf("search result route: %w", err)
		}
		item = &rt
	default:
		return &EnumError{Type: "SearchResultType", Value: string(raw.Type)}
	}
	*r = SearchResult{Type: raw.Type, Item: item, Distance: raw.Distance, MatchScore: raw.MatchScore}
	return nil
}

func (r SearchResult) Gym() (*Gym, bool) {
	g, ok := r.Item.(*Gym)
	return g, ok
}

func (r SearchResult) Route() (*Route, bool) {
	rt, ok := r.Item.(*Route)
	return rt, ok
}
