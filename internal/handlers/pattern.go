package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/services"
)

type PatternHandler struct {
	patternService services.PatternService
}

func NewPatternHandler(patternService services.PatternService) *PatternHandler {
	return &PatternHandler{patternService: patternService}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Validation("invalid %s", name)
	}
	return id, nil
}

func (ph *PatternHandler) Create(c *gin.Context) {
	var req services.DraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	pattern, err := ph.patternService.CreateDraft(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pattern)
}

func (ph *PatternHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	pattern, err := ph.patternService.GetDraft(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

func (ph *PatternHandler) List(c *gin.Context) {
	patterns, err := ph.patternService.ListDrafts(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

func (ph *PatternHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req services.DraftInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	pattern, err := ph.patternService.UpdateDraft(c.Request.Context(), id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pattern)
}

func (ph *PatternHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := ph.patternService.DeleteDraft(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ph *PatternHandler) Publish(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req struct {
		Author        string `json:"author"`
		CoverImageURL string `json:"cover_image_url"`
		Agreed        bool   `json:"agreed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	published, err := ph.patternService.Publish(c.Request.Context(), id, req.Author, req.CoverImageURL, req.Agreed)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, published)
}

func (ph *PatternHandler) Unpublish(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := ph.patternService.Unpublish(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ph *PatternHandler) Save(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	saved, err := ph.patternService.Save(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (ph *PatternHandler) Unsave(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := ph.patternService.Unsave(c.Request.Context(), id); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (ph *PatternHandler) ListSaved(c *gin.Context) {
	saved, err := ph.patternService.ListSaved(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": saved})
}
