package services

import "log"

// FilterLevel is the aggressiveness of place-list compaction, picked from the
// ratio of raw places size to the available token budget.
type FilterLevel int

const (
	FilterStandard FilterLevel = iota + 1
	FilterModerate
	FilterAggressive
)

func (l FilterLevel) String() string {
	switch l {
	case FilterModerate:
		return "MODERATE"
	case FilterAggressive:
		return "AGGRESSIVE"
	default:
		return "STANDARD"
	}
}

// FilterConfig carries the pressure thresholds and per-category caps for each
// level. The values are empirically chosen, so they live in configuration
// rather than the filtering logic.
type FilterConfig struct {
	ModeratePressure    float64
	AggressivePressure  float64
	MaxShrinkIterations int

	StandardLimits   map[string]int
	ModerateLimits   map[string]int
	AggressiveLimits map[string]int

	StandardDefaultLimit   int
	ModerateDefaultLimit   int
	AggressiveDefaultLimit int
}

func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ModeratePressure:    2.0,
		AggressivePressure:  3.0,
		MaxShrinkIterations: 3,
		StandardLimits: map[string]int{
			"restaurants":         15,
			"attractions":         20,
			"accommodations":      8,
			"must_visit":          10,
			"cultural_sites":      10,
			"outdoor_activities":  10,
			"transportation_hubs": 5,
			"shopping":            6,
			"nightlife":           6,
		},
		ModerateLimits: map[string]int{
			"restaurants":         12,
			"attractions":         15,
			"accommodations":      6,
			"must_visit":          8,
			"cultural_sites":      8,
			"outdoor_activities":  8,
			"transportation_hubs": 4,
			"shopping":            4,
			"nightlife":           4,
		},
		AggressiveLimits: map[string]int{
			"restaurants":         8,
			"attractions":         10,
			"accommodations":      4,
			"must_visit":          6,
			"cultural_sites":      5,
			"outdoor_activities":  5,
			"transportation_hubs": 3,
			"shopping":            3,
			"nightlife":           3,
		},
		StandardDefaultLimit:   8,
		ModerateDefaultLimit:   6,
		AggressiveDefaultLimit: 4,
	}
}

// ContextFilter reduces a candidate set to fit a token budget. Filtering never
// mutates the input; categories keep their original ordering so identical
// inputs always produce identical output.
type ContextFilter struct {
	budget TokenBudget
	config FilterConfig
}

func NewContextFilter(budget TokenBudget, config FilterConfig) *ContextFilter {
	return &ContextFilter{budget: budget, config: config}
}

// LevelForPressure maps budget pressure to a filtering level. The aggressive
// flag forces the top level regardless of pressure.
func (f *ContextFilter) LevelForPressure(pressure float64, aggressive bool) FilterLevel {
	switch {
	case aggressive || pressure > f.config.AggressivePressure:
		return FilterAggressive
	case pressure > f.config.ModeratePressure:
		return FilterModerate
	default:
		return FilterStandard
	}
}

// FilterPlacesForDays compacts places to fit maxTokens. dayNumbers and
// totalDays are informational (logged for operators); the cut depends only on
// budget pressure. In AGGRESSIVE mode only {place_id, name, rating,
// price_level} survive, so callers must treat the output as name-only hints.
func (f *ContextFilter) FilterPlacesForDays(
	placesData PlacesData,
	dayNumbers []int,
	totalDays int,
	maxTokens int,
	aggressive bool,
) PlacesData {
	rawSize := f.budget.EstimateJSONTokens(placesData)
	pressure := 1.0
	if maxTokens > 0 {
		pressure = float64(rawSize) / float64(maxTokens)
	}

	level := f.LevelForPressure(pressure, aggressive)
	log.Printf("[filter] Budget pressure: %.2fx (raw: %d tokens, budget: %d tokens), %d day(s) of %d, level %s",
		pressure, rawSize, maxTokens, len(dayNumbers), totalDays, level)

	var limits map[string]int
	var defaultLimit int
	switch level {
	case FilterAggressive:
		limits, defaultLimit = f.config.AggressiveLimits, f.config.AggressiveDefaultLimit
	case FilterModerate:
		limits, defaultLimit = f.config.ModerateLimits, f.config.ModerateDefaultLimit
	default:
		limits, defaultLimit = f.config.StandardLimits, f.config.StandardDefaultLimit
	}

	filtered := make(PlacesData)
	for _, category := range priorityCategories {
		places := placesData[category]
		if len(places) == 0 {
			continue
		}

		compacted := make([]map[string]any, 0, len(places))
		for _, place := range places {
			compacted = append(compacted, compactPlace(place, level))
		}

		limit := defaultLimit
		if l, ok := limits[category]; ok {
			limit = l
		}
		if limit > len(compacted) {
			limit = len(compacted)
		}
		filtered[category] = compacted[:limit]
	}

	// Travel options ride along already compact.
	if travel := placesData["travel_to_destination"]; len(travel) > 0 {
		n := len(travel)
		if n > 3 {
			n = 3
		}
		filtered["travel_to_destination"] = travel[:n]
	}

	// Shrink-to-fit: cut every category by the overage ratio, never below one
	// item in a non-empty category.
	for iteration := 0; iteration < f.config.MaxShrinkIterations; iteration++ {
		estimated := f.budget.EstimateJSONTokens(filtered)
		if estimated <= maxTokens {
			break
		}
		overage := float64(estimated) / float64(maxTokens)
		log.Printf("[filter] Iteration %d: still over budget (%d > %d tokens, %.2fx), reducing",
			iteration+1, estimated, maxTokens, overage)

		for cat, places := range filtered {
			if len(places) <= 1 {
				continue
			}
			newLen := int(float64(len(places)) / overage)
			if newLen < 1 {
				newLen = 1
			}
			filtered[cat] = places[:newLen]
		}
	}

	final := f.budget.EstimateJSONTokens(filtered)
	total := 0
	for _, places := range filtered {
		total += len(places)
	}
	log.Printf("[filter] Final result: %d tokens, %d places", final, total)

	return filtered
}

// compactPlace projects a place record down to the field set its filtering
// level retains.
func compactPlace(place map[string]any, level FilterLevel) map[string]any {
	var keep []string
	if level == FilterAggressive {
		keep = []string{"place_id", "name", "rating", "price_level"}
	} else {
		keep = []string{"place_id", "name", "address", "coordinates", "rating", "user_ratings_total", "price_level"}
	}

	compact := make(map[string]any, len(keep)+1)
	for _, key := range keep {
		if v, ok := place[key]; ok && v != nil {
			compact[key] = v
		}
	}

	if level != FilterAggressive {
		if types, ok := place["types"].([]string); ok && len(types) > 0 {
			if len(types) > 3 {
				types = types[:3]
			}
			compact["types"] = types
		} else if types, ok := place["types"].([]any); ok && len(types) > 0 {
			if len(types) > 3 {
				types = types[:3]
			}
			compact["types"] = types
		}
	}
	return compact
}
