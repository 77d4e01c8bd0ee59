package request_models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *TripPlanRequest {
	return &TripPlanRequest{
		Origin:             "Hanoi",
		Destination:        "Hoi An",
		StartDate:          "2026-11-01",
		EndDate:            "2026-11-05",
		TotalBudget:        2000,
		BudgetCurrency:     "USD",
		GroupSize:          2,
		TravelerAges:       []int{28, 30},
		ActivityLevel:      ActivityModerate,
		PrimaryTravelStyle: StyleCultural,
		AccommodationType:  AccommodationHotel,
	}
}

func TestValidateAcceptsValidRequest(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestValidateRejectsBadDates(t *testing.T) {
	r := validRequest()
	r.EndDate = "2026-11-01"
	assert.Error(t, r.Validate())

	r = validRequest()
	r.EndDate = "2026-10-30"
	assert.Error(t, r.Validate())

	r = validRequest()
	r.StartDate = "01/11/2026"
	assert.Error(t, r.Validate())
}

func TestValidateRejectsAgeMismatch(t *testing.T) {
	r := validRequest()
	r.TravelerAges = []int{28}
	assert.Error(t, r.Validate())
}

func TestValidateRejectsBadCurrency(t *testing.T) {
	r := validRequest()
	r.BudgetCurrency = "usd"
	assert.Error(t, r.Validate())

	r = validRequest()
	r.BudgetCurrency = "DOLLARS"
	assert.Error(t, r.Validate())

	r = validRequest()
	r.BudgetCurrency = ""
	assert.NoError(t, r.Validate())
	assert.Equal(t, "USD", r.Currency())
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	r := validRequest()
	r.ActivityLevel = "extreme"
	assert.Error(t, r.Validate())

	r = validRequest()
	r.PrimaryTravelStyle = "fancy"
	assert.Error(t, r.Validate())
}

func TestDurationDays(t *testing.T) {
	r := validRequest()
	assert.Equal(t, 4, r.DurationDays())

	r.StartDate = "bad"
	assert.Equal(t, 0, r.DurationDays())
}

func TestDateForDay(t *testing.T) {
	r := validRequest()
	assert.Equal(t, "2026-11-01", r.DateForDay(1))
	assert.Equal(t, "2026-11-04", r.DateForDay(4))
}
