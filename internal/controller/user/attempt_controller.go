package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/middleware"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/service"
	"github.com/rs/zerolog/log"
)

type AttemptController struct {
	attemptService service.AttemptService
	writingService service.WritingEvaluationService
}

func NewAttemptController(attemptService service.AttemptService, writingService service.WritingEvaluationService) *AttemptController {
	return &AttemptController{attemptService: attemptService, writingService: writingService}
}

// SubmitAttempt godoc
// @Summary Submit a completed test run for grading
// @Description Grades the flat answer map, evaluates writing responses, persists the attempt and returns scores.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt body dto.AttemptSubmitDTO true "Answers and writing inputs"
// @Success 201 {object} dto.AttemptDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /attempts [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	var req dto.AttemptSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	userID := middleware.UserID(ctx)
	attempt, err := c.attemptService.SubmitAttempt(ctx.Request.Context(), userID, req)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("setID", req.PracticeSetID).Msg("SubmitAttempt: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to submit attempt", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, attempt)
}

// GetMyAttempts godoc
// @Summary List the caller's past attempts
// @Tags Attempts
// @Produce json
// @Success 200 {array} dto.AttemptDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /users/me/attempts [get]
func (c *AttemptController) GetMyAttempts(ctx *gin.Context) {
	userID := middleware.UserID(ctx)
	attempts, err := c.attemptService.GetUserAttempts(userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve attempts", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// EvaluateWriting godoc
// @Summary Evaluate a single writing response
// @Description Standalone AI evaluation of one prompt/response pair, outside a test run.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param writing body dto.EvaluateWritingRequest true "Prompt and candidate response"
// @Success 200 {object} dto.EvaluateWritingResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 502 {object} dto.ErrorResponse "Evaluation unavailable"
// @Security BearerAuth
// @Router /evaluate-writing [post]
func (c *AttemptController) EvaluateWriting(ctx *gin.Context) {
	var req dto.EvaluateWritingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	eval, err := c.writingService.EvaluateWriting(ctx.Request.Context(), req.Prompt, req.Response)
	if err != nil {
		log.Warn().Err(err).Msg("EvaluateWriting: evaluation failed")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Writing evaluation unavailable", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.EvaluateWritingResponse{
		BandScore:       eval.BandScore,
		Feedback:        eval.Feedback,
		Corrections:     eval.Corrections,
		CriterionScores: eval.CriterionScores,
	})
}
