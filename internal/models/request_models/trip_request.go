package request_models

import (
	"fmt"
	"regexp"
	"time"
)

type ActivityLevel string

const (
	ActivityRelaxed      ActivityLevel = "relaxed"
	ActivityModerate     ActivityLevel = "moderate"
	ActivityHighlyActive ActivityLevel = "highly_active"
)

type TravelStyle string

const (
	StyleAdventure TravelStyle = "adventure"
	StyleBudget    TravelStyle = "budget"
	StyleLuxury    TravelStyle = "luxury"
	StyleCultural  TravelStyle = "cultural"
)

type AccommodationType string

const (
	AccommodationHotel    AccommodationType = "hotel"
	AccommodationHostel   AccommodationType = "hostel"
	AccommodationAirbnb   AccommodationType = "airbnb"
	AccommodationResort   AccommodationType = "resort"
	AccommodationBoutique AccommodationType = "boutique"
)

// Preferences are interest scores on a 1-5 scale across twelve dimensions.
type Preferences struct {
	FoodDining             int `json:"food_dining" binding:"required,min=1,max=5"`
	HistoryCulture         int `json:"history_culture" binding:"required,min=1,max=5"`
	NatureWildlife         int `json:"nature_wildlife" binding:"required,min=1,max=5"`
	NightlifeEntertainment int `json:"nightlife_entertainment" binding:"required,min=1,max=5"`
	Shopping               int `json:"shopping" binding:"required,min=1,max=5"`
	ArtMuseums             int `json:"art_museums" binding:"required,min=1,max=5"`
	BeachesWater           int `json:"beaches_water" binding:"required,min=1,max=5"`
	MountainsHiking        int `json:"mountains_hiking" binding:"required,min=1,max=5"`
	Architecture           int `json:"architecture" binding:"required,min=1,max=5"`
	LocalMarkets           int `json:"local_markets" binding:"required,min=1,max=5"`
	Photography            int `json:"photography" binding:"required,min=1,max=5"`
	WellnessRelaxation     int `json:"wellness_relaxation" binding:"required,min=1,max=5"`
}

type TripPlanRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination" binding:"required,min=2,max=100"`
	StartDate   string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date" binding:"required"`   // YYYY-MM-DD

	TotalBudget    float64 `json:"total_budget" binding:"required,gt=0"`
	BudgetCurrency string  `json:"budget_currency"`

	GroupSize    int   `json:"group_size" binding:"required,min=1,max=20"`
	TravelerAges []int `json:"traveler_ages" binding:"required,min=1"`

	ActivityLevel        ActivityLevel `json:"activity_level" binding:"required"`
	PrimaryTravelStyle   TravelStyle   `json:"primary_travel_style" binding:"required"`
	SecondaryTravelStyle TravelStyle   `json:"secondary_travel_style"`

	Preferences Preferences `json:"preferences" binding:"required"`

	AccommodationType    AccommodationType `json:"accommodation_type" binding:"required"`
	TransportPreferences []string          `json:"transport_preferences"`

	DietaryRestrictions []string `json:"dietary_restrictions"`
	AccessibilityNeeds  []string `json:"accessibility_needs"`
	SpecialOccasions    []string `json:"special_occasions"`

	MustVisitPlaces []string `json:"must_visit_places"`
	MustTryCuisines []string `json:"must_try_cuisines"`
	AvoidPlaces     []string `json:"avoid_places"`

	PreviousVisits      bool     `json:"previous_visits"`
	LanguagePreferences []string `json:"language_preferences"`
}

const dateLayout = "2006-01-02"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Validate enforces the cross-field invariants gin's binding tags cannot express.
func (r *TripPlanRequest) Validate() error {
	start, err := r.Start()
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", r.StartDate, err)
	}
	end, err := r.End()
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", r.EndDate, err)
	}
	if !end.After(start) {
		return fmt.Errorf("end_date must be after start_date")
	}
	if len(r.TravelerAges) != r.GroupSize {
		return fmt.Errorf("number of traveler ages (%d) must match group size (%d)", len(r.TravelerAges), r.GroupSize)
	}
	if r.BudgetCurrency != "" && !currencyPattern.MatchString(r.BudgetCurrency) {
		return fmt.Errorf("budget_currency must be a 3-letter ISO code, got %q", r.BudgetCurrency)
	}
	switch r.ActivityLevel {
	case ActivityRelaxed, ActivityModerate, ActivityHighlyActive:
	default:
		return fmt.Errorf("unknown activity_level %q", r.ActivityLevel)
	}
	switch r.PrimaryTravelStyle {
	case StyleAdventure, StyleBudget, StyleLuxury, StyleCultural:
	default:
		return fmt.Errorf("unknown primary_travel_style %q", r.PrimaryTravelStyle)
	}
	return nil
}

func (r *TripPlanRequest) Start() (time.Time, error) {
	return time.Parse(dateLayout, r.StartDate)
}

func (r *TripPlanRequest) End() (time.Time, error) {
	return time.Parse(dateLayout, r.EndDate)
}

// DurationDays returns the trip length in nights, matching end-start date arithmetic.
// Returns 0 when either date fails to parse; callers must Validate first.
func (r *TripPlanRequest) DurationDays() int {
	start, err1 := r.Start()
	end, err2 := r.End()
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// DateForDay returns the calendar date of a 1-based trip day as YYYY-MM-DD.
func (r *TripPlanRequest) DateForDay(dayNumber int) string {
	start, err := r.Start()
	if err != nil {
		return ""
	}
	return start.AddDate(0, 0, dayNumber-1).Format(dateLayout)
}

func (r *TripPlanRequest) Currency() string {
	if r.BudgetCurrency == "" {
		return "USD"
	}
	return r.BudgetCurrency
}
