package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/services"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService}
}

func (th *TrackingHandler) Start(c *gin.Context) {
	var req struct {
		PatternID string `json:"pattern_id"`
		Goal      string `json:"goal"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	patternID, err := uuid.Parse(req.PatternID)
	if err != nil {
		RespondError(c, apierr.Validation("invalid pattern_id"))
		return
	}
	project, err := th.trackingService.StartTracking(c.Request.Context(), patternID, req.Goal)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (th *TrackingHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	project, err := th.trackingService.GetProject(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (th *TrackingHandler) List(c *gin.Context) {
	projects, err := th.trackingService.ListProjects(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (th *TrackingHandler) SaveProgress(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req services.ProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	project, err := th.trackingService.SaveProgress(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (th *TrackingHandler) Complete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	// The review is optional, so an empty body is fine.
	var req services.CompleteInput
	_ = c.ShouldBindJSON(&req)
	project, err := th.trackingService.MarkCompleted(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}
