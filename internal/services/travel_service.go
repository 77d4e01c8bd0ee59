package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"
	"tripy/pkg/memcache"
)

// TravelServiceInterface estimates origin-to-destination travel options.
// GetTravelOptions returns an empty slice on any failure so itinerary
// generation proceeds without legs rather than failing the trip.
type TravelServiceInterface interface {
	GetTravelOptions(ctx context.Context, origin, destination string, departDate time.Time) []map[string]any
}

const geocodingEndpoint = "https://geocoding-api.open-meteo.com/v1/search"

// Ground routes beyond this distance get a flight estimate instead.
const maxGroundDistanceKm = 600.0

type TravelService struct {
	httpClient *http.Client
	cache      memcache.PlacesCache
}

func NewTravelService(cache memcache.PlacesCache) TravelServiceInterface {
	return &TravelService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
	}
}

func (s *TravelService) GetTravelOptions(ctx context.Context, origin, destination string, departDate time.Time) []map[string]any {
	cacheKey := memcache.Key("travel_options", map[string]any{
		"origin":      origin,
		"destination": destination,
	})
	if cached, ok := s.cache.Get(cacheKey); ok {
		if options, ok := cached.([]map[string]any); ok {
			return options
		}
	}

	originLat, originLng, err := s.geocodeCity(ctx, origin)
	if err != nil {
		log.Printf("[travel] Geocoding %q failed: %v", origin, err)
		return []map[string]any{}
	}
	destLat, destLng, err := s.geocodeCity(ctx, destination)
	if err != nil {
		log.Printf("[travel] Geocoding %q failed: %v", destination, err)
		return []map[string]any{}
	}

	distanceKm := haversineKm(originLat, originLng, destLat, destLng)
	departure := departDate.Format("2006-01-02")

	var options []map[string]any
	if distanceKm <= maxGroundDistanceKm {
		options = append(options,
			travelOption("train", origin, destination, departure, distanceKm, distanceKm*0.15, distanceKm/90),
			travelOption("bus", origin, destination, departure, distanceKm, distanceKm*0.08, distanceKm/60),
		)
	} else {
		options = append(options,
			travelOption("flight", origin, destination, departure, distanceKm, 50+distanceKm*0.09, 2+distanceKm/700),
		)
	}

	s.cache.SetWithTTL(cacheKey, options, 6*time.Hour)
	log.Printf("[travel] %s -> %s: %.0f km, %d option(s)", origin, destination, distanceKm, len(options))
	return options
}

func travelOption(mode, origin, destination, departure string, distanceKm, costUSD, hours float64) map[string]any {
	return map[string]any{
		"mode": mode,
		"legs": []map[string]any{
			{
				"from":           origin,
				"to":             destination,
				"mode":           mode,
				"departure_date": departure,
				"distance_km":    math.Round(distanceKm),
				"duration_hours": math.Round(hours*10) / 10,
			},
		},
		"estimated_cost_usd": math.Round(costUSD),
		"duration_hours":     math.Round(hours*10) / 10,
		"notes":              fmt.Sprintf("Estimated %s from %s to %s", mode, origin, destination),
	}
}

func (s *TravelService) geocodeCity(ctx context.Context, name string) (lat, lng float64, err error) {
	cacheKey := memcache.Key("geocode_city", name)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if coords, ok := cached.([2]float64); ok {
			return coords[0], coords[1], nil
		}
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("count", "1")
	query.Set("language", "en")
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodingEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding API status %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("decoding geocoding response: %w", err)
	}
	if len(result.Results) == 0 {
		return 0, 0, fmt.Errorf("no geocoding result for %q", name)
	}

	lat = result.Results[0].Latitude
	lng = result.Results[0].Longitude
	s.cache.SetWithTTL(cacheKey, [2]float64{lat, lng}, 24*time.Hour)
	return lat, lng, nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
