package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// LatLng is a bare coordinate pair used for building map links.
type LatLng struct {
	Lat float64
	Lng float64
}

func (p LatLng) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

func formatPoint(p LatLng) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// BuildDirectionsURL builds a multi-stop Google Maps driving directions link.
// The first point is the origin, the last the destination, everything between
// a waypoint. Needs at least two points.
func BuildDirectionsURL(points []LatLng) string {
	if len(points) < 2 {
		return ""
	}
	params := url.Values{}
	params.Set("api", "1")
	params.Set("origin", formatPoint(points[0]))
	params.Set("destination", formatPoint(points[len(points)-1]))
	params.Set("travelmode", "driving")
	if len(points) > 2 {
		var waypoints []string
		for _, p := range points[1 : len(points)-1] {
			waypoints = append(waypoints, formatPoint(p))
		}
		params.Set("waypoints", strings.Join(waypoints, "|"))
	}
	return "https://www.google.com/maps/dir/?" + params.Encode()
}

// BuildSearchURL builds a single-point Google Maps search link.
func BuildSearchURL(point LatLng) string {
	params := url.Values{}
	params.Set("api", "1")
	params.Set("query", formatPoint(point))
	return "https://www.google.com/maps/search/?" + params.Encode()
}

// BuildDestinationMapURL builds a destination-level search link for the
// interactive map embed field.
func BuildDestinationMapURL(destination string) string {
	params := url.Values{}
	params.Set("api", "1")
	params.Set("query", destination)
	return "https://www.google.com/maps/search/?" + params.Encode()
}
