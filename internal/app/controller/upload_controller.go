package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/internal/errors"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

type UploadController struct {
	uploader form.Uploader
	newMedia func() *form.MediaManager
}

func NewUploadController(uploader form.Uploader, newMedia func() *form.MediaManager) *UploadController {
	return &UploadController{
		uploader: uploader,
		newMedia: newMedia,
	}
}

// RejectedFile reports one file that failed the attach checks
type RejectedFile struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// UploadMedia uploads a multipart batch of "files" parts in one shot.
// Files over the size ceiling or outside the accepted type set are
// rejected individually; the remaining files are uploaded as a batch.
// A batch that yields zero URLs is a failure (Admin only).
// POST /api/media/upload
func (ctrl *UploadController) UploadMedia(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	mpForm, err := c.MultipartForm()
	if err != nil {
		log.Warn("Invalid multipart upload request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid multipart request")
		return
	}

	files := mpForm.File["files"]
	if len(files) == 0 {
		errors.BadRequest(c, errors.MediaNoFiles, "No files provided")
		return
	}

	media := ctrl.newMedia()
	defer media.Close()

	var rejected []RejectedFile
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			rejected = append(rejected, RejectedFile{
				FileName: fileHeader.Filename,
				Reason:   "file could not be read",
			})
			continue
		}

		_, err = media.Attach(
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
			fileHeader.Size,
			file,
		)
		file.Close()
		if err != nil {
			log.Warn("Media file rejected", map[string]interface{}{
				"file":   fileHeader.Filename,
				"reason": err.Error(),
			})
			rejected = append(rejected, RejectedFile{
				FileName: fileHeader.Filename,
				Reason:   rejectionReason(err),
			})
		}
	}

	urls, err := media.Upload(c.Request.Context(), ctrl.uploader)
	if err != nil {
		switch {
		case stderrors.Is(err, form.ErrNoStagedAssets):
			errors.BadRequest(c, errors.MediaNoFiles, "Every file in the batch was rejected")
		case stderrors.Is(err, form.ErrEmptyUploadResponse):
			errors.RespondWithError(c, http.StatusBadGateway, errors.MediaEmptyResponse, "Upload returned no usable media URLs")
		default:
			log.Error("Media batch upload failed", err, map[string]interface{}{
				"file_count": len(files),
			})
			errors.RespondWithError(c, http.StatusBadGateway, errors.MediaUploadFailed, "Failed to upload media files")
		}
		return
	}

	log.Info("Media batch uploaded", map[string]interface{}{
		"uploaded": len(urls),
		"rejected": len(rejected),
	})

	c.JSON(http.StatusOK, gin.H{
		"mediaURLs": urls,
		"rejected":  rejected,
	})
}

func rejectionReason(err error) string {
	switch {
	case stderrors.Is(err, form.ErrFileTooLarge):
		return "file exceeds the 5 MiB size limit"
	case stderrors.Is(err, form.ErrTypeNotAllowed):
		return "file type is not allowed"
	default:
		return "file could not be staged"
	}
}
