package controllers

import (
	"net/http"
	"strconv"
	"tripy/internal/services"
	"tripy/pkg/utils"

	"github.com/gin-gonic/gin"
)

type PlacesController struct {
	placesService services.PlacesServiceInterface
}

func NewPlacesController(placesService services.PlacesServiceInterface) *PlacesController {
	return &PlacesController{
		placesService: placesService,
	}
}

// SearchPlaces godoc
// @Summary Search places by free text
// @Tags Places
// @Produce json
// @Param query query string true "Search text"
// @Param limit query int false "Max results" default(10) minimum(1) maximum(20)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /places/search [get]
func (p *PlacesController) SearchPlaces(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		utils.RespondError(c, http.StatusBadRequest, "Query parameter is required")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 20 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-20)")
		return
	}

	places := p.placesService.SearchText(c.Request.Context(), query, nil, 0, limit)
	utils.RespondSuccess(c, places, "Places fetched successfully")
}
