package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/service"
	"github.com/rs/zerolog/log"
)

type SetController struct {
	adminSetService service.AdminSetService
	speechService   service.SpeechService
}

func NewSetController(adminSetService service.AdminSetService, speechService service.SpeechService) *SetController {
	return &SetController{adminSetService: adminSetService, speechService: speechService}
}

// SaveSet godoc
// @Summary (Admin) Create or update a practice set
// @Description Upserts a full practice-set tree by id. Structural violations fail; cloze placeholder mismatches come back as warnings.
// @Tags Admin - Practice Sets
// @Accept json
// @Produce json
// @Param set_data body dto.PracticeSetSaveDTO true "Full practice set tree"
// @Success 200 {object} dto.PracticeSetSaveResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/sets [post]
func (c *SetController) SaveSet(ctx *gin.Context) {
	var req dto.PracticeSetSaveDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin SaveSet: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.adminSetService.SaveSet(req)
	if err != nil {
		log.Error().Err(err).Uint("setID", req.ID).Msg("Admin SaveSet: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to save practice set", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetAllSets godoc
// @Summary (Admin) List all practice sets
// @Description Lists every practice set, including unpublished drafts.
// @Tags Admin - Practice Sets
// @Produce json
// @Success 200 {array} dto.PracticeSetSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/sets [get]
func (c *SetController) GetAllSets(ctx *gin.Context) {
	sets, err := c.adminSetService.GetAllSets()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve practice sets", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, sets)
}

// DeleteSet godoc
// @Summary (Admin) Delete a practice set
// @Tags Admin - Practice Sets
// @Param set_id path int true "Practice Set ID"
// @Success 204 "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid Set ID format"
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/sets/{set_id} [delete]
func (c *SetController) DeleteSet(ctx *gin.Context) {
	setID, err := strconv.ParseUint(ctx.Param("set_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Set ID format"})
		return
	}
	if err := c.adminSetService.DeleteSet(uint(setID)); err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to delete practice set", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GenerateSpeech godoc
// @Summary (Admin) Convert a listening script to audio
// @Description Authoring-time text-to-speech for listening content.
// @Tags Admin - Practice Sets
// @Accept json
// @Produce json
// @Param speech_data body dto.GenerateSpeechRequest true "Script text"
// @Success 200 {object} dto.GenerateSpeechResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Speech synthesis unavailable"
// @Router /admin/speech [post]
func (c *SetController) GenerateSpeech(ctx *gin.Context) {
	var req dto.GenerateSpeechRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	audio, mimeType, err := c.speechService.GenerateSpeech(ctx.Request.Context(), req.Script)
	if err != nil {
		log.Warn().Err(err).Msg("Admin GenerateSpeech: synthesis failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Speech synthesis unavailable", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.GenerateSpeechResponse{AudioData: audio, MimeType: mimeType})
}
