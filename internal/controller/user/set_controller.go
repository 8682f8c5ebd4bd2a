package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/service"
)

type SetController struct {
	catalogService service.CatalogService
}

func NewSetController(catalogService service.CatalogService) *SetController {
	return &SetController{catalogService: catalogService}
}

// GetPublishedSets godoc
// @Summary List published practice sets
// @Tags Practice Sets
// @Produce json
// @Success 200 {array} dto.PracticeSetSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /sets [get]
func (c *SetController) GetPublishedSets(ctx *gin.Context) {
	sets, err := c.catalogService.GetPublishedSets()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve practice sets", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, sets)
}

// GetSetDetails godoc
// @Summary Get a published practice set with its full content tree
// @Tags Practice Sets
// @Produce json
// @Param set_id path int true "Practice Set ID"
// @Success 200 {object} dto.PracticeSetDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Set ID format"
// @Failure 404 {object} dto.ErrorResponse "Practice set not found"
// @Router /sets/{set_id} [get]
func (c *SetController) GetSetDetails(ctx *gin.Context) {
	setID, err := strconv.ParseUint(ctx.Param("set_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Set ID format"})
		return
	}

	set, err := c.catalogService.GetSetDetails(uint(setID))
	if err != nil {
		if errors.Is(err, service.ErrSetNotAvailable) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Practice set not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve practice set", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, set)
}
