package controller

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/errors"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

// FormController drives the multi-step product form. Each dashboard tab
// owns one server-side session addressed by its session ID.
type FormController struct {
	store    *form.SessionStore
	sink     form.SubmitSink
	uploader form.Uploader
}

func NewFormController(store *form.SessionStore, sink form.SubmitSink, uploader form.Uploader) *FormController {
	return &FormController{
		store:    store,
		sink:     sink,
		uploader: uploader,
	}
}

type SetFieldsRequest struct {
	Values map[string]interface{} `json:"values" binding:"required"`
}

type SelectCategoryRequest struct {
	CategoryID   uint   `json:"categoryId" binding:"required"`
	CategoryName string `json:"categoryName" binding:"required"`
}

// CreateSession starts a fresh product form session
// POST /api/forms/product
func (ctrl *FormController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session := ctrl.store.Create()

	log.Info("Product form session created", map[string]interface{}{
		"session_id": session.ID,
	})

	c.JSON(http.StatusCreated, session.Snapshot())
}

// GetSession returns the current render snapshot
// GET /api/forms/product/:sid
func (ctrl *FormController) GetSession(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// SetFields merges field edits into the draft
// PATCH /api/forms/product/:sid/fields
func (ctrl *FormController) SetFields(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	var req SetFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	session.SetFields(req.Values)
	c.JSON(http.StatusOK, session.Snapshot())
}

// SelectCategory switches the draft's category and loads its attribute
// schema. A schema fetch failure is not a request failure: the session
// records it and the snapshot carries the error for the dashboard to
// show, with the attribute step left empty.
// POST /api/forms/product/:sid/category
func (ctrl *FormController) SelectCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	var req SelectCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := session.SelectCategory(c.Request.Context(), req.CategoryID, req.CategoryName); err != nil {
		log.Warn("Category schema unavailable for form session", map[string]interface{}{
			"session_id": session.ID,
			"category":   req.CategoryName,
			"error":      err.Error(),
		})
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// Next validates the current step and advances on success
// POST /api/forms/product/:sid/next
func (ctrl *FormController) Next(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	_, fieldErrors, err := session.Next()
	if err != nil {
		if stderrors.Is(err, form.ErrStepValidation) {
			errors.RespondWithValidationError(c, fieldErrors)
			return
		}
		errors.BadRequest(c, errors.FormStepInvalid, "Already on the final step")
		return
	}

	c.JSON(http.StatusOK, session.Snapshot())
}

// Previous moves one step back without re-validation
// POST /api/forms/product/:sid/previous
func (ctrl *FormController) Previous(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	session.Previous()
	c.JSON(http.StatusOK, session.Snapshot())
}

// Reset returns the session to a blank draft
// POST /api/forms/product/:sid/reset
func (ctrl *FormController) Reset(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	session.Reset()
	c.JSON(http.StatusOK, session.Snapshot())
}

// Submit validates the whole form and persists the product. On failure
// the draft is preserved for correction and resubmit.
// POST /api/forms/product/:sid/submit
func (ctrl *FormController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	productID, fieldErrors, err := session.Submit(c.Request.Context(), ctrl.sink)
	if err != nil {
		switch {
		case stderrors.Is(err, form.ErrNotOnFinalStep):
			errors.BadRequest(c, errors.FormStepInvalid, "Submit is only allowed from the final step")
		case stderrors.Is(err, form.ErrStepValidation):
			errors.RespondWithValidationError(c, fieldErrors)
		case stderrors.Is(err, service.ErrProductNumberExists):
			errors.Conflict(c, errors.ProductNumberExists, "A product with this product number already exists")
		case stderrors.Is(err, service.ErrCategoryNotFound):
			errors.BadRequest(c, errors.CategoryNotFound, "Referenced category does not exist")
		default:
			log.Error("Product form submit failed", err, map[string]interface{}{
				"session_id": session.ID,
			})
			info := errors.ParseError(err, "product")
			if info.Code == errors.InternalServerError {
				errors.RespondWithError(c, http.StatusBadGateway, errors.FormSubmitFailed, "Failed to save the product")
			} else {
				errors.RespondWithError(c, statusForCode(info.Code), info.Code, info.Message)
			}
		}
		return
	}

	log.Info("Product form submitted", map[string]interface{}{
		"session_id": session.ID,
		"product_id": productID,
	})

	c.JSON(http.StatusCreated, session.Snapshot())
}

// AttachMedia stages multipart "files" parts on the session. Each file
// is checked individually; rejections do not abort the batch.
// POST /api/forms/product/:sid/media
func (ctrl *FormController) AttachMedia(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	mpForm, err := c.MultipartForm()
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid multipart request")
		return
	}
	files := mpForm.File["files"]
	if len(files) == 0 {
		errors.BadRequest(c, errors.MediaNoFiles, "No files provided")
		return
	}

	media := session.Media()
	var rejected []RejectedFile
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
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
				"session_id": session.ID,
				"file":       fileHeader.Filename,
				"reason":     err.Error(),
			})
			rejected = append(rejected, RejectedFile{
				FileName: fileHeader.Filename,
				Reason:   rejectionReason(err),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"staged":   stagedViews(media.Staged()),
		"rejected": rejected,
	})
}

// RemoveMedia detaches one staged file and releases its preview
// DELETE /api/forms/product/:sid/media/:assetId
func (ctrl *FormController) RemoveMedia(c *gin.Context) {
	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	if !session.Media().Remove(c.Param("assetId")) {
		errors.NotFound(c, errors.MediaAssetNotFound, "Staged file not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staged": stagedViews(session.Media().Staged()),
	})
}

// UploadMedia transmits the staged batch and merges the returned URLs
// into the draft's media field. On failure the staged files are kept
// for retry.
// POST /api/forms/product/:sid/media/upload
func (ctrl *FormController) UploadMedia(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, ok := ctrl.session(c)
	if !ok {
		return
	}

	urls, err := session.Media().Upload(c.Request.Context(), ctrl.uploader)
	if err != nil {
		switch {
		case stderrors.Is(err, form.ErrNoStagedAssets):
			errors.BadRequest(c, errors.MediaNoFiles, "No staged files to upload")
		case stderrors.Is(err, form.ErrEmptyUploadResponse):
			errors.RespondWithError(c, http.StatusBadGateway, errors.MediaEmptyResponse, "Upload returned no usable media URLs")
		default:
			log.Error("Form media upload failed", err, map[string]interface{}{
				"session_id": session.ID,
			})
			errors.RespondWithError(c, http.StatusBadGateway, errors.MediaUploadFailed, "Failed to upload media files")
		}
		return
	}

	merged := urls
	if existing, ok := session.Values()[form.FieldMediaURL].([]string); ok {
		merged = append(append([]string{}, existing...), urls...)
	}
	session.SetFields(map[string]interface{}{form.FieldMediaURL: merged})

	log.Info("Form media uploaded", map[string]interface{}{
		"session_id": session.ID,
		"count":      len(urls),
	})

	c.JSON(http.StatusOK, gin.H{
		"mediaURLs": merged,
		"snapshot":  session.Snapshot(),
	})
}

// DeleteSession drops the session and releases its staged media
// DELETE /api/forms/product/:sid
func (ctrl *FormController) DeleteSession(c *gin.Context) {
	ctrl.store.Delete(c.Param("sid"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Session deleted",
	})
}

func (ctrl *FormController) session(c *gin.Context) (*form.Session, bool) {
	session, err := ctrl.store.Get(c.Param("sid"))
	if err != nil {
		errors.NotFound(c, errors.FormSessionNotFound, "Form session not found or expired")
		return nil, false
	}
	return session, true
}

// StagedAssetView is the client-facing shape of one staged file
type StagedAssetView struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func stagedViews(assets []*form.StagedAsset) []StagedAssetView {
	views := make([]StagedAssetView, 0, len(assets))
	for _, asset := range assets {
		views = append(views, StagedAssetView{
			ID:          asset.ID,
			FileName:    asset.FileName,
			ContentType: asset.ContentType,
			Size:        asset.Size,
		})
	}
	return views
}
