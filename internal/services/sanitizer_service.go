package services

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"tripy/internal/models/request_models"
	"tripy/pkg/utils"
)

// ResponseSanitizer repairs the structural liberties the model takes with the
// trip schema: strings where objects belong, invented place IDs, missing route
// maps. Every method mutates the document in place and is safe to run twice.
type ResponseSanitizer struct {
	maxActivitiesPerBlock int
}

func NewResponseSanitizer() *ResponseSanitizer {
	return &ResponseSanitizer{maxActivitiesPerBlock: 2}
}

var timeBlockKeys = []string{"morning", "afternoon", "evening"}

// photo keys are stripped everywhere: photo payloads blow up document size
// and the URLs expire anyway.
var photoKeys = []string{"photos", "photo_reference", "photo_references", "photo_url", "photo_urls"}

// SanitizeTripData runs every repair pass over the trip document and returns
// the same map. placesData supplies the real candidates that replace
// hallucinated venues.
func (s *ResponseSanitizer) SanitizeTripData(trip map[string]any, placesData PlacesData, request *request_models.TripPlanRequest) map[string]any {
	if trip == nil {
		return map[string]any{}
	}

	s.coerceTravelOptions(trip)
	s.coerceTransportation(trip)
	s.sanitizeDays(trip, placesData)
	s.enforceAccommodations(trip, placesData, request)
	s.sanitizePlaceLists(trip)
	s.ensureDailyRouteMaps(trip, request.Destination)
	return trip
}

func (s *ResponseSanitizer) coerceTravelOptions(trip map[string]any) {
	rawOptions, ok := trip["travel_options"].([]any)
	if !ok {
		return
	}
	options := make([]any, 0, len(rawOptions))
	for _, raw := range rawOptions {
		option, ok := raw.(map[string]any)
		if !ok {
			if text, isString := raw.(string); isString && text != "" {
				option = map[string]any{"mode": "", "details": text}
			} else {
				continue
			}
		}
		option["mode"] = asString(option["mode"])
		option["details"] = asString(option["details"])
		option["estimated_cost"] = toFloat(firstNonNil(option["estimated_cost"], option["estimated_cost_usd"]))
		option["booking_link"] = asString(option["booking_link"])

		if rawLegs, ok := option["legs"].([]any); ok {
			legs := make([]any, 0, len(rawLegs))
			for _, rawLeg := range rawLegs {
				leg, ok := rawLeg.(map[string]any)
				if !ok {
					if text, isString := rawLeg.(string); isString && text != "" {
						leg = map[string]any{"mode": text}
					} else {
						continue
					}
				}
				leg["estimated_cost"] = toFloat(leg["estimated_cost"])
				legs = append(legs, leg)
			}
			option["legs"] = legs
		}
		options = append(options, option)
	}
	trip["travel_options"] = options
}

func (s *ResponseSanitizer) coerceTransportation(trip map[string]any) {
	switch v := trip["transportation"].(type) {
	case map[string]any:
		if text, isString := v["local_transport_guide"].(string); isString {
			v["local_transport_guide"] = map[string]any{"notes": text}
		}
		if text, isString := v["airport_transfers"].(string); isString {
			v["airport_transfers"] = map[string]any{"notes": text}
		}
	case string:
		trip["transportation"] = map[string]any{
			"local_transport_guide": map[string]any{"notes": v},
		}
	}
}

func (s *ResponseSanitizer) sanitizeDays(trip map[string]any, placesData PlacesData) {
	days, ok := trip["daily_itineraries"].([]any)
	if !ok {
		return
	}
	candidateIDs := placesData.PlaceIDs()
	// Candidates already placed somewhere are skipped when substituting, so a
	// hallucinated venue on day 4 is not replaced by the day 1 restaurant.
	used := make(map[string]bool)
	for _, rawDay := range days {
		day, ok := rawDay.(map[string]any)
		if !ok {
			continue
		}
		for _, activity := range collectDayActivities(day) {
			if isNonPlaceActivity(asString(activity["activity_type"])) {
				continue
			}
			place, ok := activity["activity"].(map[string]any)
			if !ok {
				continue
			}
			if id := asString(place["place_id"]); candidateIDs[id] {
				used[id] = true
			}
		}
	}
	for _, rawDay := range days {
		day, ok := rawDay.(map[string]any)
		if !ok {
			continue
		}
		for _, blockKey := range timeBlockKeys {
			block, ok := day[blockKey].(map[string]any)
			if !ok {
				if text, isString := day[blockKey].(string); isString {
					block = map[string]any{
						"activities":           []any{},
						"transportation_notes": text,
					}
					day[blockKey] = block
				} else {
					continue
				}
			}
			s.sanitizeTimeBlock(block, placesData, candidateIDs, used)
		}
	}
}

func collectDayActivities(day map[string]any) []map[string]any {
	var collected []map[string]any
	for _, blockKey := range timeBlockKeys {
		block, ok := day[blockKey].(map[string]any)
		if !ok {
			continue
		}
		activities, ok := block["activities"].([]any)
		if !ok {
			continue
		}
		for _, rawActivity := range activities {
			if activity, ok := rawActivity.(map[string]any); ok {
				collected = append(collected, activity)
			}
		}
	}
	return collected
}

func collectDayPlaces(day map[string]any) []map[string]any {
	var places []map[string]any
	for _, activity := range collectDayActivities(day) {
		if place, ok := activity["activity"].(map[string]any); ok {
			places = append(places, place)
		}
	}
	return places
}

func (s *ResponseSanitizer) sanitizeTimeBlock(block map[string]any, placesData PlacesData, candidateIDs map[string]bool, used map[string]bool) {
	block["transportation_notes"] = asString(block["transportation_notes"])
	block["estimated_cost"] = toFloat(block["estimated_cost"])
	block["total_duration_hours"] = toFloat(block["total_duration_hours"])

	rawActivities, ok := block["activities"].([]any)
	if !ok {
		block["activities"] = []any{}
		return
	}

	kept := make([]any, 0, len(rawActivities))
	for _, raw := range rawActivities {
		activity, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		place, ok := activity["activity"].(map[string]any)
		if !ok {
			// Some chunks emit the place fields directly on the activity.
			if asString(activity["name"]) != "" {
				place = activity
				activity = map[string]any{"activity": place}
			} else {
				continue
			}
		}
		if isNonPlaceActivity(asString(activity["activity_type"])) {
			continue
		}
		s.coercePlace(place)

		replaced, ok := s.enforceRealPlace(place, asString(activity["activity_type"]), placesData, candidateIDs, used)
		if !ok {
			continue
		}
		activity["activity"] = replaced
		activity["estimated_cost_per_person"] = toFloat(activity["estimated_cost_per_person"])
		kept = append(kept, activity)
		if len(kept) >= s.maxActivitiesPerBlock {
			break
		}
	}
	block["activities"] = kept
}

// coercePlace normalizes a place map in place. Running it on an already
// sanitized place is a no-op.
func (s *ResponseSanitizer) coercePlace(place map[string]any) {
	for _, key := range photoKeys {
		delete(place, key)
	}

	place["place_id"] = asString(place["place_id"])
	if place["place_id"] == "" {
		place["place_id"] = "unknown"
	}
	place["name"] = asString(place["name"])
	if place["name"] == "" {
		place["name"] = "Unknown"
	}
	place["address"] = asString(place["address"])
	place["category"] = asString(place["category"])
	place["why_recommended"] = asString(place["why_recommended"])
	if _, ok := place["booking_required"].(bool); !ok {
		place["booking_required"] = false
	}

	coords, ok := place["coordinates"].(map[string]any)
	if !ok {
		coords = map[string]any{}
	}
	place["coordinates"] = map[string]any{
		"lat": toFloat(coords["lat"]),
		"lng": toFloat(coords["lng"]),
	}

	for _, key := range []string{"rating", "estimated_cost", "duration_hours"} {
		if _, present := place[key]; present {
			place[key] = toFloat(place[key])
		}
	}
	if _, present := place["price_level"]; present {
		place["price_level"] = toFloat(place["price_level"])
	}
	if _, present := place["user_ratings_total"]; present {
		place["user_ratings_total"] = toFloat(place["user_ratings_total"])
	}
}

// enforceRealPlace verifies the place refers to a venue the search actually
// returned. Membership in the fetched candidate set is the authoritative
// check; plausible-looking IDs the search never produced are hallucinations
// too. Anything not in the set, and anything with zero coordinates, gets the
// best unused candidate from the matching categories; when none is available
// the activity is dropped.
func (s *ResponseSanitizer) enforceRealPlace(place map[string]any, activityType string, placesData PlacesData, candidateIDs map[string]bool, used map[string]bool) (map[string]any, bool) {
	id := asString(place["place_id"])
	coords, _ := place["coordinates"].(map[string]any)
	lat := toFloat(coords["lat"])
	lng := toFloat(coords["lng"])

	if candidateIDs[id] && (lat != 0 || lng != 0) {
		used[id] = true
		return place, true
	}

	categories := []string{"attractions", "outdoor_activities", "cultural_sites", "must_visit"}
	if isMealActivity(activityType, asString(place["category"])) {
		categories = []string{"restaurants"}
	}

	candidate := bestUnusedCandidate(placesData, categories, used)
	if candidate == nil {
		log.Printf("[sanitizer] Dropping activity %q: no real candidate in %v", asString(place["name"]), categories)
		return nil, false
	}

	used[asString(candidate["place_id"])] = true
	replacement := clonePlace(candidate)
	// The model's narrative fields stay useful even when the venue changes.
	if why := asString(place["why_recommended"]); why != "" {
		replacement["why_recommended"] = why
	}
	if desc := asString(place["description"]); desc != "" {
		replacement["description"] = desc
	}
	if place["category"] != nil {
		replacement["category"] = place["category"]
	}
	s.coercePlace(replacement)
	return replacement, true
}

// isNonPlaceActivity reports activity types that are not venues to visit.
// Transport legs and hotel check-ins sometimes come back as activities; the
// itinerary carries those in transportation_notes and accommodations instead.
func isNonPlaceActivity(activityType string) bool {
	lower := strings.ToLower(activityType)
	for _, marker := range []string{"transport", "transfer", "accommodation", "check-in", "check_in", "checkin"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isMealActivity(activityType, category string) bool {
	for _, v := range []string{activityType, category} {
		lower := strings.ToLower(v)
		if strings.Contains(lower, "meal") || strings.Contains(lower, "dining") ||
			strings.Contains(lower, "restaurant") || strings.Contains(lower, "food") {
			return true
		}
	}
	return false
}

func bestUnusedCandidate(placesData PlacesData, categories []string, used map[string]bool) map[string]any {
	var best map[string]any
	bestScore := -1.0
	for _, category := range categories {
		for _, place := range placesData[category] {
			id := asString(place["place_id"])
			if id == "" || used[id] {
				continue
			}
			if score := placeScore(place); score > bestScore {
				bestScore = score
				best = place
			}
		}
	}
	return best
}

// placeScore ranks candidates rating-first, review count as tiebreaker. The
// review count is capped so a mediocre venue with huge traffic cannot outrank
// a well rated one.
func placeScore(place map[string]any) float64 {
	rating := toFloat(place["rating"])
	reviews := toFloat(place["user_ratings_total"])
	if reviews > 1000 {
		reviews = 1000
	}
	return rating*100 + reviews*0.1
}

func (s *ResponseSanitizer) enforceAccommodations(trip map[string]any, placesData PlacesData, request *request_models.TripPlanRequest) {
	accommodations, ok := trip["accommodations"].(map[string]any)
	if !ok {
		accommodations = map[string]any{}
		trip["accommodations"] = accommodations
	}

	candidates := placesData["accommodations"]
	if len(candidates) == 0 {
		return
	}

	ranked := rankAccommodations(candidates, request.PrimaryTravelStyle)
	index := placesData.ByID("accommodations")
	used := make(map[string]bool)

	primary, _ := accommodations["primary_recommendation"].(map[string]any)
	accommodations["primary_recommendation"] = s.enforcedAccommodation(primary, ranked, index, used)

	var alternatives []any
	if rawAlts, ok := accommodations["alternative_options"].([]any); ok {
		for _, rawAlt := range rawAlts {
			alt, _ := rawAlt.(map[string]any)
			if fixed := s.enforcedAccommodation(alt, ranked, index, used); fixed != nil {
				alternatives = append(alternatives, fixed)
			}
		}
	}
	for len(alternatives) < 3 {
		next := firstUnused(ranked, used)
		if next == nil {
			break
		}
		used[asString(next["place_id"])] = true
		alt := clonePlace(next)
		s.coercePlace(alt)
		alternatives = append(alternatives, alt)
	}
	accommodations["alternative_options"] = alternatives
	accommodations["estimated_cost_per_night"] = toFloat(accommodations["estimated_cost_per_night"])
	accommodations["total_accommodation_cost"] = toFloat(accommodations["total_accommodation_cost"])
}

// enforcedAccommodation keeps a real, unused accommodation as-is and swaps
// anything else for the best ranked candidate, preserving the model's
// narrative fields.
func (s *ResponseSanitizer) enforcedAccommodation(current map[string]any, ranked []map[string]any, index map[string]map[string]any, used map[string]bool) map[string]any {
	if current != nil {
		s.coercePlace(current)
		id := asString(current["place_id"])
		if _, known := index[id]; known && !isSyntheticPlaceID(id) && !used[id] {
			used[id] = true
			return current
		}
	}

	next := firstUnused(ranked, used)
	if next == nil {
		return current
	}
	used[asString(next["place_id"])] = true
	replacement := clonePlace(next)
	if current != nil {
		if why := asString(current["why_recommended"]); why != "" {
			replacement["why_recommended"] = why
		}
		if desc := asString(current["description"]); desc != "" {
			replacement["description"] = desc
		}
	}
	s.coercePlace(replacement)
	return replacement
}

// rankAccommodations orders candidates by place score plus a bonus for price
// levels matching the travel style: budget favors 1-2, luxury 3-4, everything
// else 2-3.
func rankAccommodations(candidates []map[string]any, style request_models.TravelStyle) []map[string]any {
	band := map[float64]bool{2: true, 3: true}
	switch style {
	case request_models.StyleBudget:
		band = map[float64]bool{1: true, 2: true}
	case request_models.StyleLuxury:
		band = map[float64]bool{3: true, 4: true}
	}

	type scored struct {
		place map[string]any
		score float64
	}
	items := make([]scored, 0, len(candidates))
	for _, place := range candidates {
		score := placeScore(place)
		if band[toFloat(place["price_level"])] {
			score += 150
		}
		items = append(items, scored{place, score})
	}
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].score > items[j-1].score; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
	ranked := make([]map[string]any, len(items))
	for i, item := range items {
		ranked[i] = item.place
	}
	return ranked
}

func firstUnused(ranked []map[string]any, used map[string]bool) map[string]any {
	for _, place := range ranked {
		id := asString(place["place_id"])
		if id != "" && !used[id] {
			return place
		}
	}
	return nil
}

// sanitizePlaceLists coerces the flat place lists outside the itinerary.
// Unlike activities these are advisory, so unknown venues are kept with
// backfilled defaults rather than dropped.
func (s *ResponseSanitizer) sanitizePlaceLists(trip map[string]any) {
	for _, key := range []string{"photography_spots", "hidden_gems"} {
		rawPlaces, ok := trip[key].([]any)
		if !ok {
			trip[key] = []any{}
			continue
		}
		kept := make([]any, 0, len(rawPlaces))
		for _, raw := range rawPlaces {
			place, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s.coercePlace(place)
			kept = append(kept, place)
		}
		trip[key] = kept
	}
}

// ensureDailyRouteMaps guarantees a "Day N" https map URL for every day. Two
// or more activity coordinates become a directions URL, a single one a search
// URL, none a destination map. Existing valid https URLs are kept.
func (s *ResponseSanitizer) ensureDailyRouteMaps(trip map[string]any, destination string) {
	mapData, ok := trip["map_data"].(map[string]any)
	if !ok {
		mapData = map[string]any{}
		trip["map_data"] = mapData
	}
	routeMaps, ok := mapData["daily_route_maps"].(map[string]any)
	if !ok {
		routeMaps = map[string]any{}
		mapData["daily_route_maps"] = routeMaps
	}
	if asString(mapData["interactive_map_embed_url"]) == "" {
		mapData["interactive_map_embed_url"] = utils.BuildDestinationMapURL(destination)
	}

	days, _ := trip["daily_itineraries"].([]any)
	for i, rawDay := range days {
		day, ok := rawDay.(map[string]any)
		if !ok {
			continue
		}
		dayNumber := int(toFloat(day["day_number"]))
		if dayNumber == 0 {
			dayNumber = i + 1
		}
		key := fmt.Sprintf("Day %d", dayNumber)
		if existing := asString(routeMaps[key]); strings.HasPrefix(existing, "https://") {
			continue
		}

		var points []utils.LatLng
		for _, place := range collectDayPlaces(day) {
			coords, _ := place["coordinates"].(map[string]any)
			point := utils.LatLng{Lat: toFloat(coords["lat"]), Lng: toFloat(coords["lng"])}
			if point.IsZero() {
				continue
			}
			// Consecutive repeats (two activities at one venue) add nothing
			// to the route.
			if len(points) > 0 && points[len(points)-1] == point {
				continue
			}
			points = append(points, point)
		}
		switch {
		case len(points) >= 2:
			routeMaps[key] = utils.BuildDirectionsURL(points)
		case len(points) == 1:
			routeMaps[key] = utils.BuildSearchURL(points[0])
		default:
			routeMaps[key] = utils.BuildDestinationMapURL(destination)
		}
	}
}

var syntheticIDPattern = regexp.MustCompile(`^[a-z]+(_?\d+)?$`)

// isSyntheticPlaceID reports whether a place_id looks model-invented rather
// than issued by the places API. Real IDs are long opaque tokens; the model
// invents short lowercase slugs like "place_1" or "rest_day2".
func isSyntheticPlaceID(id string) bool {
	if id == "" || len(id) < 10 {
		return true
	}
	lower := strings.ToLower(id)
	for _, marker := range []string{"placeholder", "example", "sample", "generated", "synthetic", "unknown", "fake"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	for _, prefix := range []string{"place_", "poi_", "day_", "chunk_", "activity_", "restaurant_", "hotel_"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return syntheticIDPattern.MatchString(id)
}

func clonePlace(place map[string]any) map[string]any {
	clone := make(map[string]any, len(place))
	for k, v := range place {
		clone[k] = v
	}
	return clone
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func firstNonNil(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// toFloat coerces the numeric shapes that come out of json.Unmarshal and the
// occasional number-as-string the model emits. Anything else is 0.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		cleaned := strings.TrimSpace(strings.TrimPrefix(n, "$"))
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return parsed
		}
	}
	return 0
}
