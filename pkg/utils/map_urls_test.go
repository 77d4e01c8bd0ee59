package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirectionsURL(t *testing.T) {
	points := []LatLng{
		{Lat: 16.00, Lng: 108.26},
		{Lat: 16.04, Lng: 108.24},
		{Lat: 16.06, Lng: 108.23},
	}
	raw := BuildDirectionsURL(points)
	require.True(t, strings.HasPrefix(raw, "https://www.google.com/maps/dir/?"))

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "1", q.Get("api"))
	assert.Equal(t, "16.000000,108.260000", q.Get("origin"))
	assert.Equal(t, "16.060000,108.230000", q.Get("destination"))
	assert.Equal(t, "16.040000,108.240000", q.Get("waypoints"))
	assert.Equal(t, "driving", q.Get("travelmode"))
}

func TestBuildDirectionsURLNeedsTwoPoints(t *testing.T) {
	assert.Empty(t, BuildDirectionsURL([]LatLng{{Lat: 1, Lng: 2}}))
	assert.Empty(t, BuildDirectionsURL(nil))
}

func TestBuildSearchURL(t *testing.T) {
	raw := BuildSearchURL(LatLng{Lat: 16.06, Lng: 108.23})
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "16.060000,108.230000", parsed.Query().Get("query"))
}

func TestBuildDestinationMapURL(t *testing.T) {
	raw := BuildDestinationMapURL("Da Nang, Vietnam")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Da Nang, Vietnam", parsed.Query().Get("query"))
}
