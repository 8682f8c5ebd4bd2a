package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/middleware"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/service"
	"github.com/rs/zerolog/log"
)

// SessionController drives server-side test delivery: the session owns the
// timers and transition rules, the client only renders snapshots and posts
// events.
type SessionController struct {
	sessionService service.SessionService
}

func NewSessionController(sessionService service.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// StartSession godoc
// @Summary Start a delivery session for a practice set
// @Tags Sessions
// @Produce json
// @Param set_id path int true "Practice Set ID"
// @Success 201 {object} dto.SessionSnapshotDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid Set ID format"
// @Failure 404 {object} dto.ErrorResponse "Practice set not found"
// @Security BearerAuth
// @Router /sets/{set_id}/sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	setID, err := strconv.ParseUint(ctx.Param("set_id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid Set ID format"})
		return
	}

	userID := middleware.UserID(ctx)
	snap, err := c.sessionService.Start(userID, uint(setID))
	if err != nil {
		if errors.Is(err, service.ErrSetNotAvailable) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Practice set not found"})
			return
		}
		log.Error().Err(err).Uint("userID", userID).Uint64("setID", setID).Msg("StartSession: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start session", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, snap)
}

// GetSession godoc
// @Summary Get the current snapshot of a delivery session
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /sessions/{session_id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	snap, err := c.sessionService.Snapshot(ctx.Param("session_id"), middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read session", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// DispatchEvent godoc
// @Summary Apply a delivery event to a session
// @Description Events: start_section, next, answer, write_input, review_continue, finish. Returns the post-transition snapshot.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param event body dto.SessionEventRequest true "Delivery event"
// @Success 200 {object} dto.SessionSnapshotDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid event"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /sessions/{session_id}/events [post]
func (c *SessionController) DispatchEvent(ctx *gin.Context) {
	var req dto.SessionEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid event payload", Details: []string{err.Error()}})
		return
	}

	snap, err := c.sessionService.Dispatch(ctx.Param("session_id"), middleware.UserID(ctx), req)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
			return
		}
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to apply event", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

// ExitSession godoc
// @Summary Abandon a delivery session
// @Description Stops any playing audio or active recording and discards the run without saving an attempt.
// @Tags Sessions
// @Param session_id path string true "Session ID"
// @Success 204 "Session discarded"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /sessions/{session_id} [delete]
func (c *SessionController) ExitSession(ctx *gin.Context) {
	if err := c.sessionService.Exit(ctx.Param("session_id"), middleware.UserID(ctx)); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to exit session", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
