package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"tripy/internal/models/request_models"
	"tripy/pkg/utils"

	"github.com/google/uuid"
)

// ProgressiveGeneratorInterface produces a complete trip document for a
// request. GenerateComprehensivePlan never returns an error: any failure
// degrades to a minimal but schema-valid plan.
type ProgressiveGeneratorInterface interface {
	GenerateComprehensivePlan(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData, travelOptions []map[string]any) map[string]any
}

// ProgressiveConfig tunes the generation strategy. Zero values are replaced
// by DefaultProgressiveConfig at construction.
type ProgressiveConfig struct {
	ChunkSizeDays     int
	SingleShotMaxDays int
	ChunkAttempts     int
	OverviewAttempts  int

	ChunkTemperature    float32
	OverviewTemperature float32

	// Budget split for the non-accommodation remainder.
	FoodShare       float64
	ActivitiesShare float64
	TransportShare  float64

	AccommodationBudgetShare float64
}

func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		ChunkSizeDays:            5,
		SingleShotMaxDays:        7,
		ChunkAttempts:            3,
		OverviewAttempts:         2,
		ChunkTemperature:         0.6,
		OverviewTemperature:      0.4,
		FoodShare:                0.35,
		ActivitiesShare:          0.45,
		TransportShare:           0.20,
		AccommodationBudgetShare: 0.40,
	}
}

type ProgressiveItineraryGenerator struct {
	aiClient  utils.AIClientInterface
	filter    *ContextFilter
	sanitizer *ResponseSanitizer
	budget    TokenBudget
	config    ProgressiveConfig
}

func NewProgressiveItineraryGenerator(aiClient utils.AIClientInterface, budget TokenBudget, config ProgressiveConfig) ProgressiveGeneratorInterface {
	defaults := DefaultProgressiveConfig()
	if config.ChunkSizeDays <= 0 {
		config.ChunkSizeDays = defaults.ChunkSizeDays
	}
	if config.SingleShotMaxDays <= 0 {
		config.SingleShotMaxDays = defaults.SingleShotMaxDays
	}
	if config.ChunkAttempts <= 0 {
		config.ChunkAttempts = defaults.ChunkAttempts
	}
	if config.OverviewAttempts <= 0 {
		config.OverviewAttempts = defaults.OverviewAttempts
	}
	if config.ChunkTemperature <= 0 {
		config.ChunkTemperature = defaults.ChunkTemperature
	}
	if config.OverviewTemperature <= 0 {
		config.OverviewTemperature = defaults.OverviewTemperature
	}
	if config.FoodShare <= 0 {
		config.FoodShare = defaults.FoodShare
	}
	if config.ActivitiesShare <= 0 {
		config.ActivitiesShare = defaults.ActivitiesShare
	}
	if config.TransportShare <= 0 {
		config.TransportShare = defaults.TransportShare
	}
	if config.AccommodationBudgetShare <= 0 {
		config.AccommodationBudgetShare = defaults.AccommodationBudgetShare
	}
	return &ProgressiveItineraryGenerator{
		aiClient:  aiClient,
		filter:    NewContextFilter(budget, DefaultFilterConfig()),
		sanitizer: NewResponseSanitizer(),
		budget:    budget,
		config:    config,
	}
}

// GenerateComprehensivePlan picks the strategy by trip length: short trips go
// through a single model call, longer ones through overview plus day chunks.
// Any failure falls through to a degraded plan rather than an error.
func (g *ProgressiveItineraryGenerator) GenerateComprehensivePlan(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData, travelOptions []map[string]any) map[string]any {
	started := time.Now()
	duration := request.DurationDays()

	var trip map[string]any
	if duration <= g.config.SingleShotMaxDays {
		trip = g.generateSingleShot(ctx, request, placesData, travelOptions)
	}
	if trip == nil {
		trip = g.generateProgressive(ctx, request, placesData, travelOptions)
	}
	if trip == nil {
		log.Printf("[progressive] All strategies failed for %s, returning degraded plan", request.Destination)
		trip = g.createErrorResponse(request, placesData, travelOptions)
	}

	trip = g.sanitizer.SanitizeTripData(trip, placesData, request)
	trip["generation_time_seconds"] = time.Since(started).Seconds()
	return trip
}

// generateSingleShot asks for the whole trip in one call. Returns nil when the
// context cannot be made to fit or every attempt produced unusable output,
// which escalates to the progressive strategy.
func (g *ProgressiveItineraryGenerator) generateSingleShot(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData, travelOptions []map[string]any) map[string]any {
	duration := request.DurationDays()
	allDays := dayRange(1, duration)

	systemPrompt := g.buildCondensedSystemPrompt(request, allDays, nil)
	userContext := g.buildUserContext(request, travelOptions)
	available := g.budget.AvailableForPlaces(systemPrompt, userContext)

	filtered := g.filter.FilterPlacesForDays(placesData, allDays, duration, available, false)
	placesJSON := mustCompactJSON(filtered)
	if g.budget.EstimateTokens(placesJSON) > available {
		log.Printf("[progressive] Single-shot context over budget, refiltering aggressively")
		filtered = g.filter.FilterPlacesForDays(placesData, allDays, duration, available, true)
		placesJSON = mustCompactJSON(filtered)
	}
	if g.budget.EstimateTokens(placesJSON) > available {
		log.Printf("[progressive] Single-shot context still over budget, escalating to progressive")
		return nil
	}

	prompt := systemPrompt + "\n\n" + userContext + "\n\nAVAILABLE PLACES (use only these):\n" + placesJSON +
		fmt.Sprintf("\n\nReturn the complete trip plan as a single JSON object with a \"daily_itineraries\" array of exactly %d day objects.", duration)

	for attempt := 1; attempt <= g.config.ChunkAttempts; attempt++ {
		raw, err := g.aiClient.GenerateJSONFromPrompt(ctx, prompt, g.config.ChunkTemperature)
		if err != nil {
			log.Printf("[progressive] Single-shot attempt %d failed: %v", attempt, err)
			continue
		}
		cleaned, ok := utils.ExtractJSON(raw)
		if !ok {
			log.Printf("[progressive] Single-shot attempt %d returned unparseable JSON", attempt)
			continue
		}
		var trip map[string]any
		if err := json.Unmarshal([]byte(cleaned), &trip); err != nil {
			log.Printf("[progressive] Single-shot attempt %d: %v", attempt, err)
			continue
		}
		days, _ := trip["daily_itineraries"].([]any)
		if len(days) == 0 {
			log.Printf("[progressive] Single-shot attempt %d produced no days", attempt)
			continue
		}
		return g.assembleFinalTrip(request, trip, normalizeDays(days, request), travelOptions)
	}
	return nil
}

// generateProgressive builds the trip as one overview call plus one call per
// day chunk. Place IDs used by earlier chunks are excluded from later prompts
// so the itinerary does not repeat venues.
func (g *ProgressiveItineraryGenerator) generateProgressive(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData, travelOptions []map[string]any) map[string]any {
	duration := request.DurationDays()
	overview := g.generateTripOverview(ctx, request, placesData)

	usedPlaceIDs := make(map[string]bool)
	var days []map[string]any
	for _, chunk := range createDayChunks(duration, g.config.ChunkSizeDays) {
		chunkDays := g.generateDayChunk(ctx, request, placesData, chunk, usedPlaceIDs)
		days = append(days, chunkDays...)
	}
	if len(days) != duration {
		log.Printf("[progressive] Expected %d days, assembled %d", duration, len(days))
		return nil
	}

	trip := map[string]any{}
	for key, value := range overview {
		trip[key] = value
	}
	return g.assembleFinalTrip(request, trip, days, travelOptions)
}

// createDayChunks splits 1..totalDays into consecutive runs of at most
// chunkSize days. The union always covers every day exactly once.
func createDayChunks(totalDays, chunkSize int) [][]int {
	if totalDays <= 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = 5
	}
	var chunks [][]int
	for start := 1; start <= totalDays; start += chunkSize {
		end := start + chunkSize - 1
		if end > totalDays {
			end = totalDays
		}
		chunks = append(chunks, dayRange(start, end-start+1))
	}
	return chunks
}

func dayRange(start, count int) []int {
	days := make([]int, count)
	for i := range days {
		days[i] = start + i
	}
	return days
}

// generateDayChunk produces itineraries for one chunk of days. It never
// errors: after the attempts are exhausted, missing days become placeholders
// so chunk failures stay local.
func (g *ProgressiveItineraryGenerator) generateDayChunk(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData, dayNumbers []int, usedPlaceIDs map[string]bool) []map[string]any {
	duration := request.DurationDays()
	systemPrompt := g.buildCondensedSystemPrompt(request, dayNumbers, usedPlaceIDs)
	available := g.budget.AvailableForPlaces(systemPrompt, "")

	filtered := g.filter.FilterPlacesForDays(placesData, dayNumbers, duration, available, false)
	prompt := systemPrompt + "\n\nAVAILABLE PLACES (use only these):\n" + mustCompactJSON(filtered) +
		fmt.Sprintf("\n\nReturn a JSON array of exactly %d day objects for days %d through %d.",
			len(dayNumbers), dayNumbers[0], dayNumbers[len(dayNumbers)-1])

	var days []map[string]any
	for attempt := 1; attempt <= g.config.ChunkAttempts; attempt++ {
		raw, err := g.aiClient.GenerateJSONFromPrompt(ctx, prompt, g.config.ChunkTemperature)
		if err != nil {
			log.Printf("[progressive] Chunk %v attempt %d failed: %v", dayNumbers, attempt, err)
			continue
		}
		parsed := parseDayArray(raw)
		if len(parsed) > 0 {
			days = parsed
			break
		}
		log.Printf("[progressive] Chunk %v attempt %d returned no usable days", dayNumbers, attempt)
	}

	byNumber := make(map[int]map[string]any, len(days))
	for _, day := range days {
		if n := int(toFloat(day["day_number"])); n > 0 {
			byNumber[n] = day
		}
	}

	result := make([]map[string]any, 0, len(dayNumbers))
	for i, dayNumber := range dayNumbers {
		day, ok := byNumber[dayNumber]
		if !ok && i < len(days) {
			// Days came back without usable numbering; assign positionally.
			if _, numbered := days[i]["day_number"]; !numbered {
				day = days[i]
				ok = true
			}
		}
		if !ok {
			day = createPlaceholderDay(dayNumber, request)
		}
		day["day_number"] = dayNumber
		day["date"] = request.DateForDay(dayNumber)
		result = append(result, day)
	}

	for _, day := range result {
		for _, place := range collectDayPlaces(day) {
			if id := asString(place["place_id"]); id != "" {
				usedPlaceIDs[id] = true
			}
		}
	}
	return result
}

// parseDayArray accepts either a bare JSON array of days or an object
// wrapping one under a known key.
func parseDayArray(raw string) []map[string]any {
	cleaned, ok := utils.ExtractJSON(raw)
	if !ok {
		return nil
	}

	var asList []any
	if err := json.Unmarshal([]byte(cleaned), &asList); err != nil {
		var asObject map[string]any
		if err := json.Unmarshal([]byte(cleaned), &asObject); err != nil {
			return nil
		}
		for _, key := range []string{"days", "daily_itineraries", "itinerary"} {
			if wrapped, ok := asObject[key].([]any); ok {
				asList = wrapped
				break
			}
		}
	}

	days := make([]map[string]any, 0, len(asList))
	for _, item := range asList {
		if day, ok := item.(map[string]any); ok {
			days = append(days, day)
		}
	}
	return days
}

func normalizeDays(rawDays []any, request *request_models.TripPlanRequest) []map[string]any {
	duration := request.DurationDays()
	byNumber := make(map[int]map[string]any)
	for i, raw := range rawDays {
		day, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		n := int(toFloat(day["day_number"]))
		if n <= 0 || n > duration {
			n = i + 1
		}
		if _, taken := byNumber[n]; !taken && n <= duration {
			byNumber[n] = day
		}
	}

	days := make([]map[string]any, 0, duration)
	for n := 1; n <= duration; n++ {
		day, ok := byNumber[n]
		if !ok {
			day = createPlaceholderDay(n, request)
		}
		day["day_number"] = n
		day["date"] = request.DateForDay(n)
		days = append(days, day)
	}
	return days
}

func createPlaceholderDay(dayNumber int, request *request_models.TripPlanRequest) map[string]any {
	emptyBlock := func() map[string]any {
		return map[string]any{
			"activities":           []any{},
			"estimated_cost":       0.0,
			"total_duration_hours": 0.0,
			"transportation_notes": "",
		}
	}
	return map[string]any{
		"day_number":       dayNumber,
		"date":             request.DateForDay(dayNumber),
		"theme":            "Free exploration day",
		"morning":          emptyBlock(),
		"afternoon":        emptyBlock(),
		"evening":          emptyBlock(),
		"daily_total_cost": 0.0,
		"daily_notes":      []any{fmt.Sprintf("Detailed plan for day %d was unavailable; explore %s at your own pace.", dayNumber, request.Destination)},
	}
}

// generateTripOverview asks the model for the trip-level sections once. On
// failure the heuristic fallback is used, so the return is never nil.
func (g *ProgressiveItineraryGenerator) generateTripOverview(ctx context.Context, request *request_models.TripPlanRequest, placesData PlacesData) map[string]any {
	accommodations := placesData["accommodations"]
	limit := len(accommodations)
	if limit > 8 {
		limit = 8
	}

	prompt := fmt.Sprintf(`You are a travel planner. Produce the trip-level overview for a %d-day trip to %s for %d traveler(s), total budget %.0f %s, travel style %s.

Pick accommodations strictly from this list:
%s

Return one JSON object with keys: accommodations (primary_recommendation, alternative_options, estimated_cost_per_night, total_accommodation_cost, booking_platforms), transportation (airport_transfers, local_transport_guide, daily_transport_costs, recommended_apps), local_information (currency_info, language_info, cultural_etiquette, safety_tips, emergency_contacts, local_customs, tipping_guidelines, useful_phrases), packing_suggestions, seasonal_considerations.`,
		request.DurationDays(), request.Destination, request.GroupSize,
		request.TotalBudget, request.Currency(), request.PrimaryTravelStyle,
		mustCompactJSON(accommodations[:limit]))

	for attempt := 1; attempt <= g.config.OverviewAttempts; attempt++ {
		raw, err := g.aiClient.GenerateJSONFromPrompt(ctx, prompt, g.config.OverviewTemperature)
		if err != nil {
			log.Printf("[progressive] Overview attempt %d failed: %v", attempt, err)
			continue
		}
		cleaned, ok := utils.ExtractJSON(raw)
		if !ok {
			continue
		}
		var overview map[string]any
		if err := json.Unmarshal([]byte(cleaned), &overview); err != nil {
			log.Printf("[progressive] Overview attempt %d: %v", attempt, err)
			continue
		}
		if _, hasAccommodations := overview["accommodations"]; hasAccommodations {
			return overview
		}
	}
	log.Printf("[progressive] Overview generation failed, using fallback")
	return g.createFallbackOverview(request, placesData)
}

// createFallbackOverview derives the trip-level sections from search data
// alone: top rated accommodation as primary, the next three as alternatives,
// a nightly cost from the accommodation budget share, and generic guidance.
func (g *ProgressiveItineraryGenerator) createFallbackOverview(request *request_models.TripPlanRequest, placesData PlacesData) map[string]any {
	ranked := append([]map[string]any(nil), placesData["accommodations"]...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return placeScore(ranked[i]) > placeScore(ranked[j])
	})

	var primary any
	var alternatives []any
	if len(ranked) > 0 {
		primary = clonePlace(ranked[0])
	}
	for _, place := range ranked[1:min(len(ranked), 4)] {
		alternatives = append(alternatives, clonePlace(place))
	}

	nights := request.DurationDays()
	perNight := 0.0
	if nights > 0 {
		perNight = request.TotalBudget * g.config.AccommodationBudgetShare / float64(nights)
	}

	return map[string]any{
		"accommodations": map[string]any{
			"primary_recommendation":   primary,
			"alternative_options":      alternatives,
			"estimated_cost_per_night": perNight,
			"total_accommodation_cost": perNight * float64(nights),
			"booking_platforms": []any{
				map[string]any{"name": "Booking.com", "url": "https://www.booking.com"},
				map[string]any{"name": "Airbnb", "url": "https://www.airbnb.com"},
			},
		},
		"transportation": map[string]any{
			"airport_transfers":     map[string]any{"notes": "Use official airport taxis or rideshare apps."},
			"local_transport_guide": map[string]any{"notes": fmt.Sprintf("Check local transit passes in %s for multi-day savings.", request.Destination)},
			"daily_transport_costs": map[string]any{},
			"recommended_apps":      []any{"Google Maps", "Uber"},
		},
		"local_information": map[string]any{
			"currency_info":      map[string]any{"currency": request.Currency()},
			"language_info":      map[string]any{},
			"cultural_etiquette": []any{"Research local customs before visiting religious sites."},
			"safety_tips":        []any{"Keep copies of travel documents.", "Stay aware of your surroundings in crowded areas."},
			"emergency_contacts": map[string]any{},
			"local_customs":      []any{},
			"tipping_guidelines": map[string]any{},
			"useful_phrases":     map[string]any{},
		},
		"packing_suggestions": []any{
			"Comfortable walking shoes",
			"Weather-appropriate layers",
			"Universal power adapter",
			"Reusable water bottle",
		},
		"seasonal_considerations": []any{},
	}
}

// assembleFinalTrip merges the overview sections and the day list into the
// final document and computes the budget breakdown. Day costs are summed from
// the itinerary; the remainder after accommodation splits across food,
// activities, and transport by the configured shares.
func (g *ProgressiveItineraryGenerator) assembleFinalTrip(request *request_models.TripPlanRequest, overview map[string]any, days []map[string]any, travelOptions []map[string]any) map[string]any {
	duration := request.DurationDays()

	dayList := make([]any, 0, len(days))
	for _, day := range days {
		dayList = append(dayList, day)
	}

	accommodations, _ := overview["accommodations"].(map[string]any)
	if accommodations == nil {
		fallback := g.createFallbackOverview(request, PlacesData{})
		accommodations = fallback["accommodations"].(map[string]any)
	}
	accommodationCost := toFloat(accommodations["total_accommodation_cost"])
	if accommodationCost == 0 {
		accommodationCost = request.TotalBudget * g.config.AccommodationBudgetShare
		accommodations["total_accommodation_cost"] = accommodationCost
		if duration > 0 && toFloat(accommodations["estimated_cost_per_night"]) == 0 {
			accommodations["estimated_cost_per_night"] = accommodationCost / float64(duration)
		}
	}

	remainder := request.TotalBudget - accommodationCost
	if remainder < 0 {
		remainder = 0
	}
	food := remainder * g.config.FoodShare
	activities := remainder * g.config.ActivitiesShare
	transport := remainder * g.config.TransportShare
	misc := remainder - food - activities - transport

	dailySuggestion := 0.0
	costPerPerson := request.TotalBudget
	if duration > 0 {
		dailySuggestion = remainder / float64(duration)
	}
	if request.GroupSize > 0 {
		costPerPerson = request.TotalBudget / float64(request.GroupSize)
	}

	travelOptionList := make([]any, 0, len(travelOptions))
	for _, option := range travelOptions {
		travelOptionList = append(travelOptionList, option)
	}

	trip := map[string]any{
		"trip_id":            uuid.NewString(),
		"generated_at":       time.Now().UTC().Format(time.RFC3339),
		"version":            "2.0",
		"origin":             request.Origin,
		"destination":        request.Destination,
		"trip_duration_days": duration,
		"total_budget":       request.TotalBudget,
		"currency":           request.Currency(),
		"group_size":         request.GroupSize,
		"travel_style":       string(request.PrimaryTravelStyle),
		"activity_level":     string(request.ActivityLevel),
		"daily_itineraries":  dayList,
		"accommodations":     accommodations,
		"budget_breakdown": map[string]any{
			"total_budget":            request.TotalBudget,
			"currency":                request.Currency(),
			"accommodation_cost":      accommodationCost,
			"food_cost":               food,
			"activities_cost":         activities,
			"transport_cost":          transport,
			"miscellaneous_cost":      misc,
			"daily_budget_suggestion": dailySuggestion,
			"cost_per_person":         costPerPerson,
			"budget_tips":             []any{},
		},
		"map_data":                  map[string]any{"daily_route_maps": map[string]any{}},
		"travel_options":            travelOptionList,
		"packing_suggestions":       overviewList(overview, "packing_suggestions"),
		"seasonal_considerations":   overviewList(overview, "seasonal_considerations"),
		"photography_spots":         []any{},
		"hidden_gems":               []any{},
		"alternative_itineraries":   map[string]any{},
		"customization_suggestions": []any{},
		"last_updated":              time.Now().UTC().Format(time.RFC3339),
		"data_freshness_score":      0.9,
		"confidence_score":          0.85,
	}
	if transportation, ok := overview["transportation"].(map[string]any); ok {
		trip["transportation"] = transportation
	} else {
		trip["transportation"] = map[string]any{
			"airport_transfers":     map[string]any{},
			"local_transport_guide": map[string]any{},
			"daily_transport_costs": map[string]any{},
			"recommended_apps":      []any{},
		}
	}
	if localInfo, ok := overview["local_information"].(map[string]any); ok {
		trip["local_information"] = localInfo
	} else {
		fallback := g.createFallbackOverview(request, PlacesData{})
		trip["local_information"] = fallback["local_information"]
	}
	return trip
}

func overviewList(overview map[string]any, key string) []any {
	if list, ok := overview[key].([]any); ok {
		return list
	}
	return []any{}
}

// createErrorResponse is the last-resort plan: schema-valid, with a free
// placeholder day for every trip day and the degradation note in budget_tips.
// Callers still get accommodations and a budget split so the client can
// render something.
func (g *ProgressiveItineraryGenerator) createErrorResponse(request *request_models.TripPlanRequest, placesData PlacesData, travelOptions []map[string]any) map[string]any {
	overview := g.createFallbackOverview(request, placesData)
	duration := request.DurationDays()
	days := make([]map[string]any, 0, duration)
	for n := 1; n <= duration; n++ {
		days = append(days, createPlaceholderDay(n, request))
	}
	trip := g.assembleFinalTrip(request, overview, days, travelOptions)
	trip["confidence_score"] = 0.1
	trip["data_freshness_score"] = 0.5
	note := "Automatic itinerary generation was unavailable for this request; please retry shortly."
	if breakdown, ok := trip["budget_breakdown"].(map[string]any); ok {
		breakdown["budget_tips"] = []any{note}
	}
	trip["customization_suggestions"] = []any{note}
	return trip
}

func (g *ProgressiveItineraryGenerator) buildCondensedSystemPrompt(request *request_models.TripPlanRequest, dayNumbers []int, usedPlaceIDs map[string]bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert travel planner. Plan days %d-%d of a %d-day trip to %s.\n",
		dayNumbers[0], dayNumbers[len(dayNumbers)-1], request.DurationDays(), request.Destination)
	fmt.Fprintf(&b, "Group of %d, travel style %s, activity level %s, total budget %.0f %s.\n",
		request.GroupSize, request.PrimaryTravelStyle, request.ActivityLevel, request.TotalBudget, request.Currency())

	b.WriteString("Rules:\n")
	b.WriteString("- Use ONLY places from the provided list, with their exact place_id, name, and coordinates.\n")
	b.WriteString("- Each day has morning, afternoon, and evening blocks with at most 2 activities each.\n")
	b.WriteString("- Every day object needs day_number, date, theme, the three blocks, and daily_total_cost.\n")
	b.WriteString("- Each activity needs activity (the place), activity_type, and estimated_cost_per_person.\n")

	if prefs := topPreferences(request.Preferences); len(prefs) > 0 {
		fmt.Fprintf(&b, "Traveler priorities: %s.\n", strings.Join(prefs, ", "))
	}
	if len(request.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s.\n", strings.Join(request.DietaryRestrictions, ", "))
	}
	if len(request.AccessibilityNeeds) > 0 {
		fmt.Fprintf(&b, "Accessibility needs: %s.\n", strings.Join(request.AccessibilityNeeds, ", "))
	}

	if len(usedPlaceIDs) > 0 {
		ids := make([]string, 0, len(usedPlaceIDs))
		for id := range usedPlaceIDs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintf(&b, "Already scheduled on earlier days, do NOT reuse: %s.\n", strings.Join(ids, ", "))
	}
	return b.String()
}

func (g *ProgressiveItineraryGenerator) buildUserContext(request *request_models.TripPlanRequest, travelOptions []map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip dates: %s to %s.\n", request.StartDate, request.EndDate)
	if len(request.TravelerAges) > 0 {
		ages := make([]string, len(request.TravelerAges))
		for i, age := range request.TravelerAges {
			ages[i] = fmt.Sprintf("%d", age)
		}
		fmt.Fprintf(&b, "Traveler ages: %s.\n", strings.Join(ages, ", "))
	}
	if len(request.MustVisitPlaces) > 0 {
		fmt.Fprintf(&b, "Must visit: %s.\n", strings.Join(request.MustVisitPlaces, ", "))
	}
	if len(request.MustTryCuisines) > 0 {
		fmt.Fprintf(&b, "Must try cuisines: %s.\n", strings.Join(request.MustTryCuisines, ", "))
	}
	if len(travelOptions) > 0 {
		fmt.Fprintf(&b, "Arrival travel options:\n%s\n", mustCompactJSON(travelOptions))
	}
	return b.String()
}

// topPreferences names the interest areas scored 4 or above, in a stable order.
func topPreferences(prefs request_models.Preferences) []string {
	type entry struct {
		label string
		score int
	}
	entries := []entry{
		{"history and culture", prefs.HistoryCulture},
		{"nature and wildlife", prefs.NatureWildlife},
		{"beaches and water", prefs.BeachesWater},
		{"mountains and hiking", prefs.MountainsHiking},
		{"nightlife and entertainment", prefs.NightlifeEntertainment},
		{"shopping", prefs.Shopping},
		{"food and dining", prefs.FoodDining},
		{"art and museums", prefs.ArtMuseums},
		{"architecture", prefs.Architecture},
		{"local markets", prefs.LocalMarkets},
		{"photography", prefs.Photography},
		{"wellness and relaxation", prefs.WellnessRelaxation},
	}
	var top []string
	for _, e := range entries {
		if e.score >= 4 {
			top = append(top, e.label)
		}
	}
	return top
}

func mustCompactJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
