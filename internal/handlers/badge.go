package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yarnscape/yarnscape-backend/internal/services"
)

type BadgeHandler struct {
	badgeService services.BadgeService
}

func NewBadgeHandler(badgeService services.BadgeService) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService}
}

func (bh *BadgeHandler) List(c *gin.Context) {
	badges, err := bh.badgeService.ListMine(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
