package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yarnscape/yarnscape-backend/internal/services"
)

type LibraryHandler struct {
	libraryService services.LibraryService
}

func NewLibraryHandler(libraryService services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraryService: libraryService}
}

func (lh *LibraryHandler) List(c *gin.Context) {
	filter := services.LibraryFilter{
		Query:      c.Query("q"),
		CraftType:  c.Query("craft_type"),
		SkillLevel: c.Query("skill_level"),
	}
	patterns, err := lh.libraryService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

func (lh *LibraryHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	detail, err := lh.libraryService.GetPublishedDetail(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
