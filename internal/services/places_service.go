package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
	"tripy/internal/models/request_models"
	"tripy/pkg/memcache"
)

// PlacesServiceInterface is the place-search collaborator. SearchText returns
// an empty slice on any failure; the pipeline treats empty as "no data", not
// as an error.
type PlacesServiceInterface interface {
	FetchAllPlacesForTrip(ctx context.Context, request *request_models.TripPlanRequest) PlacesData
	SearchText(ctx context.Context, query string, coordinates *map[string]float64, radiusMeters int, limit int) []CandidatePlace
}

const placesSearchEndpoint = "https://places.googleapis.com/v1/places:searchText"

type PlacesService struct {
	apiKey          string
	httpClient      *http.Client
	cache           memcache.PlacesCache
	maxCallsPerTrip int
}

func NewPlacesService(apiKey string, cache memcache.PlacesCache) PlacesServiceInterface {
	return &PlacesService{
		apiKey:          apiKey,
		httpClient:      &http.Client{Timeout: 20 * time.Second},
		cache:           cache,
		maxCallsPerTrip: 30,
	}
}

type searchQuery struct {
	text     string
	category string
	radius   int
}

// FetchAllPlacesForTrip runs the per-category searches for a trip and groups
// the results. Conditional categories only fire when the matching preference
// score clears its threshold.
func (s *PlacesService) FetchAllPlacesForTrip(ctx context.Context, request *request_models.TripPlanRequest) PlacesData {
	queries := s.buildSearchQueries(request)

	placesData := PlacesData{
		"restaurants":         {},
		"attractions":         {},
		"accommodations":      {},
		"shopping":            {},
		"nightlife":           {},
		"cultural_sites":      {},
		"outdoor_activities":  {},
		"transportation_hubs": {},
		"must_visit":          {},
	}

	calls := 0
	seen := make(map[string]bool)
	for _, q := range queries {
		if calls >= s.maxCallsPerTrip {
			log.Printf("[places] Call cap reached (%d), skipping remaining queries", s.maxCallsPerTrip)
			break
		}
		if ctx.Err() != nil {
			log.Printf("[places] Context cancelled, stopping fetch: %v", ctx.Err())
			break
		}
		calls++

		for _, place := range s.SearchText(ctx, q.text, nil, q.radius, 10) {
			if place.PlaceID == "" || seen[q.category+":"+place.PlaceID] {
				continue
			}
			seen[q.category+":"+place.PlaceID] = true
			placesData[q.category] = append(placesData[q.category], place.ToMap())
		}
	}

	total := 0
	for _, places := range placesData {
		total += len(places)
	}
	log.Printf("[places] Fetched %d places for %s across %d queries", total, request.Destination, calls)
	return placesData
}

func (s *PlacesService) buildSearchQueries(request *request_models.TripPlanRequest) []searchQuery {
	dest := request.Destination
	var queries []searchQuery

	add := func(category string, radius int, terms ...string) {
		for _, term := range terms {
			queries = append(queries, searchQuery{
				text:     fmt.Sprintf("%s in %s", term, dest),
				category: category,
				radius:   radius,
			})
		}
	}

	switch request.AccommodationType {
	case request_models.AccommodationHostel:
		add("accommodations", 12000, "hostels", "budget hotels")
	case request_models.AccommodationResort:
		add("accommodations", 12000, "resorts", "hotels")
	case request_models.AccommodationBoutique:
		add("accommodations", 12000, "boutique hotels", "hotels")
	default:
		add("accommodations", 12000, "hotels", "places to stay")
	}

	restTerms := []string{"best restaurants", "local food"}
	for _, cuisine := range request.MustTryCuisines {
		if len(restTerms) >= 5 {
			break
		}
		restTerms = append(restTerms, cuisine+" restaurants")
	}
	add("restaurants", 5000, restTerms...)

	add("attractions", 10000, "top attractions", "tourist attractions", "landmarks")

	if request.Preferences.Shopping >= 3 {
		add("shopping", 8000, "shopping malls", "local markets")
	}
	if request.Preferences.NightlifeEntertainment >= 3 {
		add("nightlife", 5000, "bars", "live music")
	}
	if request.Preferences.HistoryCulture >= 4 || request.Preferences.ArtMuseums >= 4 {
		add("cultural_sites", 8000, "museums", "art galleries", "cultural centers")
	}
	if request.Preferences.NatureWildlife >= 3 || request.Preferences.MountainsHiking >= 3 {
		add("outdoor_activities", 15000, "parks", "hiking trails")
	}

	for _, name := range request.MustVisitPlaces {
		queries = append(queries, searchQuery{
			text:     fmt.Sprintf("%s in %s", name, dest),
			category: "must_visit",
			radius:   20000,
		})
	}

	add("transportation_hubs", 20000, "airport", "train station")

	return queries
}

// SearchText runs a Places API v1 text search. Results are cached by the full
// parameter set; cache entries are immutable once written.
func (s *PlacesService) SearchText(ctx context.Context, query string, coordinates *map[string]float64, radiusMeters int, limit int) []CandidatePlace {
	cacheKey := memcache.Key("places_search_text", map[string]any{
		"query":  query,
		"coords": coordinates,
		"radius": radiusMeters,
		"limit":  limit,
	})
	if cached, ok := s.cache.Get(cacheKey); ok {
		if places, ok := cached.([]CandidatePlace); ok {
			return places
		}
	}

	places, err := s.searchTextOnce(ctx, query, coordinates, radiusMeters, limit)
	if err != nil {
		log.Printf("[places] Search failed for %q: %v", query, err)
		return []CandidatePlace{}
	}

	// Only successful responses are cached; a cancelled or failed call must
	// not poison the shared cache.
	s.cache.Set(cacheKey, places)
	return places
}

func (s *PlacesService) searchTextOnce(ctx context.Context, query string, coordinates *map[string]float64, radiusMeters int, limit int) ([]CandidatePlace, error) {
	if limit <= 0 || limit > 20 {
		limit = 10
	}
	body := map[string]any{
		"textQuery": query,
		"pageSize":  limit,
	}
	if coordinates != nil && radiusMeters > 0 {
		body["locationBias"] = map[string]any{
			"circle": map[string]any{
				"center": map[string]any{
					"latitude":  (*coordinates)["lat"],
					"longitude": (*coordinates)["lng"],
				},
				"radius": float64(radiusMeters),
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, placesSearchEndpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("X-Goog-FieldMask",
		"places.id,places.displayName,places.formattedAddress,places.location,places.rating,places.userRatingCount,places.priceLevel,places.types,places.websiteUri,places.internationalPhoneNumber")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("places API status %d: %s", resp.StatusCode, string(raw))
	}

	var result struct {
		Places []struct {
			ID          string `json:"id"`
			DisplayName struct {
				Text string `json:"text"`
			} `json:"displayName"`
			FormattedAddress string `json:"formattedAddress"`
			Location         struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
			Rating          float64  `json:"rating"`
			UserRatingCount int      `json:"userRatingCount"`
			PriceLevel      string   `json:"priceLevel"`
			Types           []string `json:"types"`
			WebsiteURI      string   `json:"websiteUri"`
			Phone           string   `json:"internationalPhoneNumber"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding places response: %w", err)
	}

	places := make([]CandidatePlace, 0, len(result.Places))
	for _, p := range result.Places {
		if p.ID == "" || p.DisplayName.Text == "" {
			continue
		}
		places = append(places, CandidatePlace{
			PlaceID: p.ID,
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Coordinates: map[string]float64{
				"lat": p.Location.Latitude,
				"lng": p.Location.Longitude,
			},
			Rating:           p.Rating,
			UserRatingsTotal: p.UserRatingCount,
			PriceLevel:       priceLevelToInt(p.PriceLevel),
			Types:            p.Types,
			Website:          p.WebsiteURI,
			Phone:            p.Phone,
		})
	}
	return places, nil
}

func priceLevelToInt(level string) int {
	switch level {
	case "PRICE_LEVEL_FREE":
		return 0
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	default:
		return 0
	}
}
