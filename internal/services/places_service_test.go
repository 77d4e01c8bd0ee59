package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"tripy/internal/models/request_models"
	"tripy/pkg/memcache"
)

func placesTestRequest() *request_models.TripPlanRequest {
	r := generatorTestRequest(3)
	r.Destination = "Hue"
	return r
}

func queriesFor(t *testing.T, request *request_models.TripPlanRequest) []searchQuery {
	t.Helper()
	service := NewPlacesService("test-key", memcache.NewPlacesCache(0)).(*PlacesService)
	return service.buildSearchQueries(request)
}

func categoriesOf(queries []searchQuery) map[string]int {
	counts := make(map[string]int)
	for _, q := range queries {
		counts[q.category]++
	}
	return counts
}

func TestBuildSearchQueriesBaseline(t *testing.T) {
	counts := categoriesOf(queriesFor(t, placesTestRequest()))

	assert.Greater(t, counts["accommodations"], 0)
	assert.Greater(t, counts["restaurants"], 0)
	assert.Greater(t, counts["attractions"], 0)
	assert.Greater(t, counts["transportation_hubs"], 0)
	// Low preference scores leave the optional categories out.
	assert.Zero(t, counts["shopping"])
	assert.Zero(t, counts["nightlife"])
	assert.Zero(t, counts["cultural_sites"])
}

func TestBuildSearchQueriesPreferenceGating(t *testing.T) {
	request := placesTestRequest()
	request.Preferences.Shopping = 4
	request.Preferences.NightlifeEntertainment = 3
	request.Preferences.HistoryCulture = 5
	request.Preferences.NatureWildlife = 3

	counts := categoriesOf(queriesFor(t, request))

	assert.Greater(t, counts["shopping"], 0)
	assert.Greater(t, counts["nightlife"], 0)
	assert.Greater(t, counts["cultural_sites"], 0)
	assert.Greater(t, counts["outdoor_activities"], 0)
}

func TestBuildSearchQueriesMustVisit(t *testing.T) {
	request := placesTestRequest()
	request.MustVisitPlaces = []string{"Imperial City", "Thien Mu Pagoda"}

	queries := queriesFor(t, request)
	counts := categoriesOf(queries)
	assert.Equal(t, 2, counts["must_visit"])

	var found bool
	for _, q := range queries {
		if q.category == "must_visit" && q.text == "Imperial City in Hue" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuildSearchQueriesAccommodationType(t *testing.T) {
	request := placesTestRequest()
	request.AccommodationType = request_models.AccommodationHostel

	var hostelQuery bool
	for _, q := range queriesFor(t, request) {
		if q.category == "accommodations" && q.text == "hostels in Hue" {
			hostelQuery = true
		}
	}
	assert.True(t, hostelQuery)
}

func TestPriceLevelToInt(t *testing.T) {
	assert.Equal(t, 0, priceLevelToInt("PRICE_LEVEL_FREE"))
	assert.Equal(t, 1, priceLevelToInt("PRICE_LEVEL_INEXPENSIVE"))
	assert.Equal(t, 2, priceLevelToInt("PRICE_LEVEL_MODERATE"))
	assert.Equal(t, 3, priceLevelToInt("PRICE_LEVEL_EXPENSIVE"))
	assert.Equal(t, 4, priceLevelToInt("PRICE_LEVEL_VERY_EXPENSIVE"))
	assert.Equal(t, 0, priceLevelToInt("PRICE_LEVEL_UNSPECIFIED"))
}
