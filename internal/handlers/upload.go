package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yarnscape/yarnscape-backend/internal/apierr"
	"github.com/yarnscape/yarnscape-backend/internal/services"
)

type UploadHandler struct {
	mediaService services.MediaService
}

func NewUploadHandler(mediaService services.MediaService) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

// Upload takes a multipart form under the "files" field and uploads each
// image independently; one bad file never sinks the batch.
func (uh *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, apierr.Validation("invalid multipart form"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		RespondError(c, apierr.Validation("no files given"))
		return
	}

	results := make([]services.UploadResult, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			results = append(results, services.UploadResult{Filename: fh.Filename, Error: "failed to open file"})
			continue
		}
		res, err := uh.mediaService.UploadImage(c.Request.Context(), fh.Filename, f)
		f.Close()
		if err != nil {
			results = append(results, services.UploadResult{Filename: fh.Filename, Error: err.Error()})
			continue
		}
		results = append(results, *res)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
