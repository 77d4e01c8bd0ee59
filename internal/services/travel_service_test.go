package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	// Hanoi to Da Nang is roughly 630 km.
	distance := haversineKm(21.0278, 105.8342, 16.0544, 108.2022)
	assert.InDelta(t, 630, distance, 30)

	assert.InDelta(t, 0, haversineKm(10, 10, 10, 10), 0.001)
}

func TestTravelOptionShape(t *testing.T) {
	option := travelOption("train", "Hue", "Da Nang", "2026-10-01", 95, 14.25, 1.06)

	assert.Equal(t, "train", option["mode"])
	assert.Equal(t, 14.0, option["estimated_cost_usd"])
	assert.Equal(t, 1.1, option["duration_hours"])

	legs := option["legs"].([]map[string]any)
	require.Len(t, legs, 1)
	assert.Equal(t, "Hue", legs[0]["from"])
	assert.Equal(t, "Da Nang", legs[0]["to"])
	assert.Equal(t, "2026-10-01", legs[0]["departure_date"])
	assert.Equal(t, 95.0, legs[0]["distance_km"])
}
