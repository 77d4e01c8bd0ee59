package response_models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinates is a lat/lng pair as returned by the places search.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceDetail is the projection of a candidate place that rides inside
// activities, accommodation recommendations, and the extras lists.
type PlaceDetail struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Address          string         `json:"address"`
	Category         string         `json:"category"`
	Subcategory      *string        `json:"subcategory,omitempty"`
	Rating           *float64       `json:"rating,omitempty"`
	UserRatingsTotal *int           `json:"user_ratings_total,omitempty"`
	PriceLevel       *int           `json:"price_level,omitempty"`
	EstimatedCost    *float64       `json:"estimated_cost,omitempty"`
	DurationHours    *float64       `json:"duration_hours,omitempty"`
	Coordinates      Coordinates    `json:"coordinates"`
	OpeningHours     map[string]any `json:"opening_hours,omitempty"`
	Website          *string        `json:"website,omitempty"`
	Phone            *string        `json:"phone,omitempty"`
	Description      *string        `json:"description,omitempty"`
	WhyRecommended   string         `json:"why_recommended"`
	BookingRequired  bool           `json:"booking_required"`
	BookingURL       *string        `json:"booking_url,omitempty"`
}

type Activity struct {
	Activity               PlaceDetail `json:"activity"`
	ActivityType           string      `json:"activity_type"`
	EstimatedCostPerPerson float64     `json:"estimated_cost_per_person"`
	GroupCost              *float64    `json:"group_cost,omitempty"`
	DifficultyLevel        *string     `json:"difficulty_level,omitempty"`
	AgeSuitability         []string    `json:"age_suitability,omitempty"`
	WeatherDependent       bool        `json:"weather_dependent"`
	AdvanceBookingRequired bool        `json:"advance_booking_required"`
}

type TimeBlock struct {
	Activities          []Activity `json:"activities"`
	EstimatedCost       float64    `json:"estimated_cost"`
	TotalDurationHours  float64    `json:"total_duration_hours"`
	TransportationNotes string     `json:"transportation_notes"`
}

type DayItinerary struct {
	DayNumber      int       `json:"day_number"`
	Date           string    `json:"date"`
	Theme          string    `json:"theme,omitempty"`
	Morning        TimeBlock `json:"morning"`
	Afternoon      TimeBlock `json:"afternoon"`
	Evening        TimeBlock `json:"evening"`
	DailyTotalCost float64   `json:"daily_total_cost"`
	DailyNotes     []string  `json:"daily_notes,omitempty"`
}

type Accommodations struct {
	PrimaryRecommendation  PlaceDetail         `json:"primary_recommendation"`
	AlternativeOptions     []PlaceDetail       `json:"alternative_options"`
	BookingPlatforms       []map[string]string `json:"booking_platforms"`
	EstimatedCostPerNight  float64             `json:"estimated_cost_per_night"`
	TotalAccommodationCost float64             `json:"total_accommodation_cost"`
}

type BudgetBreakdown struct {
	TotalBudget           float64  `json:"total_budget"`
	Currency              string   `json:"currency"`
	AccommodationCost     float64  `json:"accommodation_cost"`
	FoodCost              float64  `json:"food_cost"`
	ActivitiesCost        float64  `json:"activities_cost"`
	TransportCost         float64  `json:"transport_cost"`
	MiscellaneousCost     float64  `json:"miscellaneous_cost"`
	DailyBudgetSuggestion float64  `json:"daily_budget_suggestion"`
	CostPerPerson         float64  `json:"cost_per_person"`
	BudgetTips            []string `json:"budget_tips"`
}

type Transportation struct {
	AirportTransfers    map[string]any     `json:"airport_transfers"`
	LocalTransportGuide map[string]any     `json:"local_transport_guide"`
	DailyTransportCosts map[string]float64 `json:"daily_transport_costs"`
	RecommendedApps     []string           `json:"recommended_apps"`
}

type MapData struct {
	InteractiveMapEmbedURL string            `json:"interactive_map_embed_url"`
	DailyRouteMaps         map[string]string `json:"daily_route_maps"`
}

type LocalInformation struct {
	CurrencyInfo       map[string]any    `json:"currency_info"`
	LanguageInfo       map[string]any    `json:"language_info"`
	CulturalEtiquette  []string          `json:"cultural_etiquette"`
	SafetyTips         []string          `json:"safety_tips"`
	EmergencyContacts  map[string]string `json:"emergency_contacts"`
	LocalCustoms       []string          `json:"local_customs"`
	TippingGuidelines  map[string]string `json:"tipping_guidelines"`
	UsefulPhrases      map[string]string `json:"useful_phrases"`
}

type TravelLeg struct {
	Mode          string  `json:"mode"`
	From          string  `json:"from,omitempty"`
	To            string  `json:"to,omitempty"`
	EstimatedCost float64 `json:"estimated_cost"`
}

type TravelOption struct {
	Mode          string      `json:"mode"`
	Details       string      `json:"details"`
	EstimatedCost float64     `json:"estimated_cost"`
	BookingLink   string      `json:"booking_link"`
	Legs          []TravelLeg `json:"legs,omitempty"`
}

type TripPlanResponse struct {
	TripID      string `json:"trip_id"`
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`

	Origin           string  `json:"origin,omitempty"`
	Destination      string  `json:"destination"`
	TripDurationDays int     `json:"trip_duration_days"`
	TotalBudget      float64 `json:"total_budget"`
	Currency         string  `json:"currency"`
	GroupSize        int     `json:"group_size"`
	TravelStyle      string  `json:"travel_style"`
	ActivityLevel    string  `json:"activity_level"`

	DailyItineraries []DayItinerary   `json:"daily_itineraries"`
	Accommodations   Accommodations   `json:"accommodations"`
	BudgetBreakdown  BudgetBreakdown  `json:"budget_breakdown"`
	Transportation   Transportation   `json:"transportation"`
	MapData          MapData          `json:"map_data"`
	LocalInformation LocalInformation `json:"local_information"`

	TravelOptions           []TravelOption `json:"travel_options,omitempty"`
	PackingSuggestions      []string       `json:"packing_suggestions"`
	WeatherForecastSummary  *string        `json:"weather_forecast_summary,omitempty"`
	SeasonalConsiderations  []string       `json:"seasonal_considerations"`
	PhotographySpots        []PlaceDetail  `json:"photography_spots"`
	HiddenGems              []PlaceDetail  `json:"hidden_gems"`
	AlternativeItineraries  map[string]any `json:"alternative_itineraries"`
	CustomizationSuggestion []string       `json:"customization_suggestions"`

	LastUpdated            string  `json:"last_updated"`
	GenerationTimeSeconds  float64 `json:"generation_time_seconds,omitempty"`
	DataFreshnessScore     float64 `json:"data_freshness_score"`
	ConfidenceScore        float64 `json:"confidence_score"`
}

// TripPlanFromMap builds the strict response type from a sanitized document.
// The round trip through JSON drops any keys outside the schema.
func TripPlanFromMap(doc map[string]any) (*TripPlanResponse, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("trip document not serializable: %w", err)
	}
	var plan TripPlanResponse
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("trip document does not match schema: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate checks the structural postconditions every returned plan must hold:
// one day per trip day numbered 1..N with no gaps, and an https route map per day.
func (p *TripPlanResponse) Validate() error {
	if p.TripID == "" {
		return fmt.Errorf("missing trip_id")
	}
	if len(p.DailyItineraries) != p.TripDurationDays {
		return fmt.Errorf("expected %d daily itineraries, got %d", p.TripDurationDays, len(p.DailyItineraries))
	}
	for i, day := range p.DailyItineraries {
		if day.DayNumber != i+1 {
			return fmt.Errorf("day %d has day_number %d", i+1, day.DayNumber)
		}
	}
	if len(p.DailyItineraries) > 0 {
		for i := 1; i <= p.TripDurationDays; i++ {
			key := fmt.Sprintf("Day %d", i)
			url, ok := p.MapData.DailyRouteMaps[key]
			if !ok || !strings.HasPrefix(url, "https://") {
				return fmt.Errorf("missing or non-https route map for %q", key)
			}
		}
	}
	return nil
}

// ToMap renders the plan back into the plain nested shape the document store expects.
func (p *TripPlanResponse) ToMap() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
