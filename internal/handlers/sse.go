package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/requestdata"
	"github.com/yarnscape/yarnscape-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.Hub
}

func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream subscribes the caller to their own event channel and blocks until
// the connection closes.
func (sh *SSEHandler) Stream(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, apierr.Unauthorized("no request data found in context"))
		return
	}
	client := sh.hub.NewClient(rd.UserID)
	sh.hub.AddChannel(client, sse.UserChannel(rd.UserID))
	defer sh.hub.RemoveClient(client)
	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
