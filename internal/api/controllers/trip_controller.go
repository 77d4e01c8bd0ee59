package controllers

import (
	"net/http"
	"tripy/internal/models/request_models"
	"tripy/internal/services"
	"tripy/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TripController struct {
	tripService services.TripServiceInterface
}

func NewTripController(tripService services.TripServiceInterface) *TripController {
	return &TripController{
		tripService: tripService,
	}
}

// GenerateTrip godoc
// @Summary Generate a complete trip plan
// @Description Run the full planning pipeline for the given trip request
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.TripPlanRequest true "Trip plan request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Router /generate-trip [post]
func (t *TripController) GenerateTrip(c *gin.Context) {
	var request request_models.TripPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	trip, err := t.tripService.GenerateTrip(c.Request.Context(), &request)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip plan generated successfully")
}

// GetTrip godoc
// @Summary Get a trip plan by ID
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trip/{tripId} [get]
func (t *TripController) GetTrip(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	trip, err := t.tripService.GetTrip(c.Request.Context(), tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, trip, "Trip fetched successfully")
}

// DeleteTrip godoc
// @Summary Delete a trip plan by ID
// @Tags Trip
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /trip/{tripId} [delete]
func (t *TripController) DeleteTrip(c *gin.Context) {
	tripID := c.Param("tripId")
	if tripID == "" {
		utils.RespondError(c, http.StatusBadRequest, "Trip ID is required")
		return
	}

	if err := t.tripService.DeleteTrip(c.Request.Context(), tripID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"trip_id": tripID}, "Trip deleted successfully")
}

// ValidateRequest godoc
// @Summary Validate a trip request without generating
// @Tags Trip
// @Accept json
// @Produce json
// @Param request body request_models.TripPlanRequest true "Trip plan request"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /validate-request [post]
func (t *TripController) ValidateRequest(c *gin.Context) {
	var request request_models.TripPlanRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := request.Validate(); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondSuccess(c, gin.H{
		"valid":         true,
		"duration_days": request.DurationDays(),
		"currency":      request.Currency(),
	}, "Request is valid")
}
