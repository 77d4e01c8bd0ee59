package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tripy/internal/models/request_models"
	"tripy/pkg/utils"
)

type stubTripService struct {
	trip map[string]any
	err  error
}

func (s *stubTripService) GenerateTrip(ctx context.Context, request *request_models.TripPlanRequest) (map[string]any, error) {
	return s.trip, s.err
}

func (s *stubTripService) GetTrip(ctx context.Context, tripID string) (map[string]any, error) {
	return s.trip, s.err
}

func (s *stubTripService) DeleteTrip(ctx context.Context, tripID string) error {
	return s.err
}

func routerWith(service *stubTripService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := NewTripController(service)
	r.POST("/api/v1/generate-trip", controller.GenerateTrip)
	r.POST("/api/v1/validate-request", controller.ValidateRequest)
	r.GET("/api/v1/trip/:tripId", controller.GetTrip)
	r.DELETE("/api/v1/trip/:tripId", controller.DeleteTrip)
	return r
}

const validRequestBody = `{
	"origin": "Hanoi",
	"destination": "Da Nang",
	"start_date": "2026-10-01",
	"end_date": "2026-10-04",
	"total_budget": 1500,
	"budget_currency": "USD",
	"group_size": 2,
	"traveler_ages": [30, 31],
	"activity_level": "moderate",
	"primary_travel_style": "cultural",
	"accommodation_type": "hotel",
	"preferences": {
		"food_dining": 4, "history_culture": 5, "nature_wildlife": 3,
		"nightlife_entertainment": 2, "shopping": 2, "art_museums": 3,
		"beaches_water": 4, "mountains_hiking": 2, "architecture": 3,
		"local_markets": 4, "photography": 3, "wellness_relaxation": 2
	}
}`

func TestGenerateTripEndpoint(t *testing.T) {
	router := routerWith(&stubTripService{trip: map[string]any{"trip_id": "t-1"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-trip", strings.NewReader(validRequestBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "success", response.Status)

	data := response.Data.(map[string]any)
	assert.Equal(t, "t-1", data["trip_id"])
}

func TestGenerateTripEndpointRejectsBadBody(t *testing.T) {
	router := routerWith(&stubTripService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate-trip", strings.NewReader(`{"destination": "X"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTripEndpointNotFound(t *testing.T) {
	router := routerWith(&stubTripService{err: utils.ErrTripNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trip/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTripEndpoint(t *testing.T) {
	router := routerWith(&stubTripService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/trip/t-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidateRequestEndpoint(t *testing.T) {
	router := routerWith(&stubTripService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate-request", strings.NewReader(validRequestBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(3), data["duration_days"])
}
