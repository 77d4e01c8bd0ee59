package services

// PlacesData maps a category name (restaurants, attractions, accommodations,
// shopping, nightlife, cultural_sites, outdoor_activities,
// transportation_hubs, must_visit) to its candidate places. Each place is the
// plain map shape that flows into prompts and back out of the sanitizer.
type PlacesData map[string][]map[string]any

// priorityCategories orders categories most-important-first; the context
// filter and prompt builders iterate in this order so output is deterministic.
var priorityCategories = []string{
	"restaurants",
	"attractions",
	"accommodations",
	"must_visit",
	"cultural_sites",
	"outdoor_activities",
	"transportation_hubs",
	"shopping",
	"nightlife",
}

// CandidatePlace is a normalized search result from the places collaborator.
type CandidatePlace struct {
	PlaceID          string             `json:"place_id"`
	Name             string             `json:"name"`
	Address          string             `json:"address"`
	Coordinates      map[string]float64 `json:"coordinates"`
	Rating           float64            `json:"rating,omitempty"`
	UserRatingsTotal int                `json:"user_ratings_total,omitempty"`
	PriceLevel       int                `json:"price_level,omitempty"`
	Types            []string           `json:"types,omitempty"`
	Website          string             `json:"website,omitempty"`
	Phone            string             `json:"phone,omitempty"`
}

// ToMap renders the place into the loose map shape PlacesData carries.
func (p CandidatePlace) ToMap() map[string]any {
	m := map[string]any{
		"place_id":    p.PlaceID,
		"name":        p.Name,
		"address":     p.Address,
		"coordinates": map[string]any{"lat": p.Coordinates["lat"], "lng": p.Coordinates["lng"]},
	}
	if p.Rating > 0 {
		m["rating"] = p.Rating
	}
	if p.UserRatingsTotal > 0 {
		m["user_ratings_total"] = p.UserRatingsTotal
	}
	if p.PriceLevel > 0 {
		m["price_level"] = p.PriceLevel
	}
	if len(p.Types) > 0 {
		m["types"] = p.Types
	}
	if p.Website != "" {
		m["website"] = p.Website
	}
	if p.Phone != "" {
		m["phone"] = p.Phone
	}
	return m
}

// PlaceIDs collects every place_id across all categories.
func (d PlacesData) PlaceIDs() map[string]bool {
	ids := make(map[string]bool)
	for _, places := range d {
		for _, place := range places {
			if id, ok := place["place_id"].(string); ok && id != "" {
				ids[id] = true
			}
		}
	}
	return ids
}

// ByID indexes places in the given categories by place_id. With no categories
// given, all categories are indexed; earlier categories win on duplicates.
func (d PlacesData) ByID(categories ...string) map[string]map[string]any {
	if len(categories) == 0 {
		categories = priorityCategories
	}
	index := make(map[string]map[string]any)
	for _, cat := range categories {
		for _, place := range d[cat] {
			if id, ok := place["place_id"].(string); ok && id != "" {
				if _, seen := index[id]; !seen {
					index[id] = place
				}
			}
		}
	}
	return index
}
