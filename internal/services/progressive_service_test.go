package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripy/internal/models/request_models"
	"tripy/internal/models/response_models"
)

type fakeResponse struct {
	body string
	err  error
}

// fakeAIClient replays canned responses and records every prompt. When the
// queue runs dry it keeps returning the final entry.
type fakeAIClient struct {
	responses []fakeResponse
	prompts   []string
}

func (f *fakeAIClient) GenerateJSONFromPrompt(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.responses) == 0 {
		return "", errors.New("no response configured")
	}
	response := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return response.body, response.err
}

func (f *fakeAIClient) Close() error { return nil }

func alwaysFailing() *fakeAIClient {
	return &fakeAIClient{responses: []fakeResponse{{err: errors.New("model unavailable")}}}
}

func generatorWith(client *fakeAIClient) *ProgressiveItineraryGenerator {
	gen := NewProgressiveItineraryGenerator(client, DefaultTokenBudget(), DefaultProgressiveConfig())
	return gen.(*ProgressiveItineraryGenerator)
}

func generatorTestRequest(days int) *request_models.TripPlanRequest {
	return &request_models.TripPlanRequest{
		Origin:             "Hanoi",
		Destination:        "Da Nang",
		StartDate:          "2026-10-01",
		EndDate:            fmt.Sprintf("2026-10-%02d", 1+days),
		TotalBudget:        1500,
		BudgetCurrency:     "USD",
		GroupSize:          2,
		TravelerAges:       []int{30, 31},
		ActivityLevel:      request_models.ActivityModerate,
		PrimaryTravelStyle: request_models.StyleCultural,
		AccommodationType:  request_models.AccommodationHotel,
	}
}

func dayJSON(dayNumber int, placeID, name string) string {
	return fmt.Sprintf(`{
		"day_number": %d,
		"theme": "Exploring",
		"morning": {"activities": [{"activity": {"place_id": %q, "name": %q, "coordinates": {"lat": 16.0, "lng": 108.2}}, "activity_type": "sightseeing", "estimated_cost_per_person": 15}], "estimated_cost": 30, "total_duration_hours": 3, "transportation_notes": "Walk"},
		"afternoon": {"activities": [], "estimated_cost": 0, "total_duration_hours": 0, "transportation_notes": ""},
		"evening": {"activities": [], "estimated_cost": 0, "total_duration_hours": 0, "transportation_notes": ""},
		"daily_total_cost": 30
	}`, dayNumber, placeID, name)
}

func TestCreateDayChunks(t *testing.T) {
	chunks := createDayChunks(12, 5)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, chunks[0])
	assert.Equal(t, []int{6, 7, 8, 9, 10}, chunks[1])
	assert.Equal(t, []int{11, 12}, chunks[2])

	assert.Len(t, createDayChunks(5, 5), 1)
	assert.Nil(t, createDayChunks(0, 5))

	// Every day appears exactly once across chunks.
	seen := map[int]int{}
	for _, chunk := range createDayChunks(23, 5) {
		for _, day := range chunk {
			seen[day]++
		}
	}
	for day := 1; day <= 23; day++ {
		assert.Equal(t, 1, seen[day], "day %d", day)
	}
}

func TestGenerateSingleShotTrip(t *testing.T) {
	tripJSON := fmt.Sprintf(`{"daily_itineraries": [%s, %s, %s]}`,
		dayJSON(1, "ChIJattractionAAA0001", "Marble Mountains"),
		dayJSON(2, "ChIJattractionAAA0002", "Dragon Bridge"),
		dayJSON(3, "ChIJrestaurantAAAA0001", "Madame Lan"))
	client := &fakeAIClient{responses: []fakeResponse{{body: tripJSON}}}
	gen := generatorWith(client)

	trip := gen.GenerateComprehensivePlan(context.Background(), generatorTestRequest(3), candidatePlaces(), nil)

	require.NotNil(t, trip)
	assert.Equal(t, 3, trip["trip_duration_days"])
	assert.NotEmpty(t, trip["trip_id"])

	days := trip["daily_itineraries"].([]any)
	require.Len(t, days, 3)
	for i, rawDay := range days {
		day := rawDay.(map[string]any)
		assert.Equal(t, i+1, day["day_number"])
		assert.Equal(t, fmt.Sprintf("2026-10-%02d", i+1), day["date"])
	}

	routeMaps := trip["map_data"].(map[string]any)["daily_route_maps"].(map[string]any)
	for i := 1; i <= 3; i++ {
		url, ok := routeMaps[fmt.Sprintf("Day %d", i)].(string)
		require.True(t, ok, "missing route map for day %d", i)
		assert.True(t, strings.HasPrefix(url, "https://"))
	}
}

func TestGenerateComprehensivePlanBudgetSplit(t *testing.T) {
	gen := generatorWith(alwaysFailing())
	request := generatorTestRequest(3)

	trip := gen.GenerateComprehensivePlan(context.Background(), request, candidatePlaces(), nil)

	breakdown := trip["budget_breakdown"].(map[string]any)
	accommodation := breakdown["accommodation_cost"].(float64)
	remainder := request.TotalBudget - accommodation
	assert.InDelta(t, remainder*0.35, breakdown["food_cost"].(float64), 0.01)
	assert.InDelta(t, remainder*0.45, breakdown["activities_cost"].(float64), 0.01)
	assert.InDelta(t, remainder*0.20, breakdown["transport_cost"].(float64), 0.01)
	assert.InDelta(t, request.TotalBudget/2, breakdown["cost_per_person"].(float64), 0.01)
	assert.Equal(t, "USD", breakdown["currency"])
}

func TestGenerateNeverFailsWhenModelIsDown(t *testing.T) {
	gen := generatorWith(alwaysFailing())
	request := generatorTestRequest(10)

	trip := gen.GenerateComprehensivePlan(context.Background(), request, candidatePlaces(), nil)

	require.NotNil(t, trip)
	days := trip["daily_itineraries"].([]any)
	require.Len(t, days, 10)
	for i, rawDay := range days {
		day := rawDay.(map[string]any)
		assert.Equal(t, i+1, day["day_number"])
		assert.Equal(t, "Free exploration day", day["theme"])
	}

	routeMaps := trip["map_data"].(map[string]any)["daily_route_maps"].(map[string]any)
	require.Len(t, routeMaps, 10)

	// Fallback accommodation is the best rated candidate.
	accommodations := trip["accommodations"].(map[string]any)
	primary := accommodations["primary_recommendation"].(map[string]any)
	assert.Equal(t, "ChIJhotelBBBBBBB0002", primary["place_id"])
}

func TestGenerateProgressiveTrip(t *testing.T) {
	overviewJSON := `{
		"accommodations": {"primary_recommendation": {"place_id": "ChIJhotelBBBBBBB0003", "name": "Mid Hotel", "coordinates": {"lat": 16.03, "lng": 108.21}}, "estimated_cost_per_night": 50, "total_accommodation_cost": 600},
		"transportation": {"recommended_apps": ["Grab"]},
		"local_information": {"safety_tips": ["Watch for scooters"]},
		"packing_suggestions": ["Sunscreen"],
		"seasonal_considerations": []
	}`
	chunkBody := func(placeID, name string, dayNumbers ...int) string {
		parts := make([]string, len(dayNumbers))
		for i, n := range dayNumbers {
			parts[i] = dayJSON(n, placeID, name)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	client := &fakeAIClient{responses: []fakeResponse{
		{body: overviewJSON},
		{body: chunkBody("ChIJattractionAAA0001", "Marble Mountains", 1, 2, 3, 4, 5)},
		{body: chunkBody("ChIJattractionAAA0002", "Dragon Bridge", 6, 7, 8, 9, 10)},
		{body: chunkBody("ChIJrestaurantAAAA0001", "Madame Lan", 11, 12)},
	}}
	gen := generatorWith(client)
	request := generatorTestRequest(12)

	trip := gen.GenerateComprehensivePlan(context.Background(), request, candidatePlaces(), nil)

	require.NotNil(t, trip)
	days := trip["daily_itineraries"].([]any)
	require.Len(t, days, 12)
	for i, rawDay := range days {
		day := rawDay.(map[string]any)
		assert.Equal(t, i+1, day["day_number"])
		assert.Equal(t, request.DateForDay(i+1), day["date"])
	}

	// One overview call plus one per chunk, none retried.
	require.Len(t, client.prompts, 4)
	assert.Contains(t, client.prompts[0], "trip-level overview")
	assert.Contains(t, client.prompts[1], "days 1 through 5")
	assert.Contains(t, client.prompts[2], "days 6 through 10")
	assert.Contains(t, client.prompts[2], "do NOT reuse: ChIJattractionAAA0001")
	assert.Contains(t, client.prompts[3], "days 11 through 12")

	primary := trip["accommodations"].(map[string]any)["primary_recommendation"].(map[string]any)
	assert.Equal(t, "ChIJhotelBBBBBBB0003", primary["place_id"])
	assert.Equal(t, []any{"Sunscreen"}, trip["packing_suggestions"])
}

func TestGenerateDayChunkPadsMissingDays(t *testing.T) {
	client := &fakeAIClient{responses: []fakeResponse{
		{body: fmt.Sprintf(`[%s]`, dayJSON(1, "ChIJattractionAAA0001", "Marble Mountains"))},
	}}
	gen := generatorWith(client)
	request := generatorTestRequest(10)

	used := map[string]bool{}
	days := gen.generateDayChunk(context.Background(), request, candidatePlaces(), []int{1, 2, 3, 4, 5}, used)

	require.Len(t, days, 5)
	assert.Equal(t, "Exploring", days[0]["theme"])
	for i := 1; i < 5; i++ {
		assert.Equal(t, "Free exploration day", days[i]["theme"])
		assert.Equal(t, i+1, days[i]["day_number"])
	}
	assert.True(t, used["ChIJattractionAAA0001"])
}

func TestGenerateDayChunkExcludesUsedPlaces(t *testing.T) {
	client := alwaysFailing()
	gen := generatorWith(client)
	request := generatorTestRequest(10)

	used := map[string]bool{"ChIJattractionAAA0001": true}
	gen.generateDayChunk(context.Background(), request, candidatePlaces(), []int{6, 7}, used)

	require.NotEmpty(t, client.prompts)
	assert.Contains(t, client.prompts[0], "do NOT reuse: ChIJattractionAAA0001")
}

func TestGenerateDayChunkAcceptsWrappedArray(t *testing.T) {
	wrapped := fmt.Sprintf(`{"days": [%s, %s]}`,
		dayJSON(1, "ChIJattractionAAA0001", "Marble Mountains"),
		dayJSON(2, "ChIJattractionAAA0002", "Dragon Bridge"))
	client := &fakeAIClient{responses: []fakeResponse{{body: wrapped}}}
	gen := generatorWith(client)
	request := generatorTestRequest(3)

	days := gen.generateDayChunk(context.Background(), request, candidatePlaces(), []int{1, 2}, map[string]bool{})

	require.Len(t, days, 2)
	assert.Equal(t, "Exploring", days[0]["theme"])
	assert.Equal(t, "Exploring", days[1]["theme"])
}

func TestCreateErrorResponseIsSchemaValid(t *testing.T) {
	gen := generatorWith(alwaysFailing())
	request := generatorTestRequest(4)

	trip := gen.createErrorResponse(request, candidatePlaces(), nil)
	trip = gen.sanitizer.SanitizeTripData(trip, candidatePlaces(), request)

	plan, err := response_models.TripPlanFromMap(trip)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.TripDurationDays)

	days := trip["daily_itineraries"].([]any)
	require.Len(t, days, 4)
	for i, rawDay := range days {
		assert.Equal(t, i+1, rawDay.(map[string]any)["day_number"])
	}

	tips := trip["budget_breakdown"].(map[string]any)["budget_tips"].([]any)
	require.Len(t, tips, 1)
	assert.Contains(t, tips[0], "unavailable")
}

func TestCreateFallbackOverview(t *testing.T) {
	gen := generatorWith(alwaysFailing())
	request := generatorTestRequest(3)

	overview := gen.createFallbackOverview(request, candidatePlaces())

	accommodations := overview["accommodations"].(map[string]any)
	primary := accommodations["primary_recommendation"].(map[string]any)
	assert.Equal(t, "ChIJhotelBBBBBBB0002", primary["place_id"])

	alternatives := accommodations["alternative_options"].([]any)
	assert.Len(t, alternatives, 2)

	perNight := accommodations["estimated_cost_per_night"].(float64)
	assert.InDelta(t, 1500*0.40/3, perNight, 0.01)

	packing := overview["packing_suggestions"].([]any)
	assert.NotEmpty(t, packing)
}

func TestOverviewGenerationUsesModelResult(t *testing.T) {
	overviewJSON := `{
		"accommodations": {"primary_recommendation": {"place_id": "ChIJhotelBBBBBBB0003", "name": "Mid Hotel"}, "estimated_cost_per_night": 80, "total_accommodation_cost": 240},
		"transportation": {"recommended_apps": ["Grab"]},
		"local_information": {"safety_tips": ["Watch for scooters"]},
		"packing_suggestions": ["Sunscreen"],
		"seasonal_considerations": ["Rainy season"]
	}`
	client := &fakeAIClient{responses: []fakeResponse{{body: overviewJSON}}}
	gen := generatorWith(client)

	overview := gen.generateTripOverview(context.Background(), generatorTestRequest(3), candidatePlaces())

	accommodations := overview["accommodations"].(map[string]any)
	primary := accommodations["primary_recommendation"].(map[string]any)
	assert.Equal(t, "ChIJhotelBBBBBBB0003", primary["place_id"])
	assert.Equal(t, []any{"Sunscreen"}, overview["packing_suggestions"])
}

func TestParseDayArrayRepairsTruncatedOutput(t *testing.T) {
	truncated := fmt.Sprintf(`[%s, {"day_number": 2, "theme": "Cut`, dayJSON(1, "ChIJattractionAAA0001", "Marble Mountains"))
	days := parseDayArray(truncated)

	require.NotEmpty(t, days)
	raw, err := json.Marshal(days)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ChIJattractionAAA0001")
}

func TestTopPreferences(t *testing.T) {
	prefs := request_models.Preferences{
		FoodDining:     5,
		HistoryCulture: 4,
		Shopping:       2,
		Photography:    3,
	}
	top := topPreferences(prefs)
	assert.Contains(t, top, "food and dining")
	assert.Contains(t, top, "history and culture")
	assert.NotContains(t, top, "shopping")
	assert.NotContains(t, top, "photography")
}
