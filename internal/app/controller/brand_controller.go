package controller

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/errors"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

// ObjectUploader persists a single file and returns its public URL
type ObjectUploader interface {
	UploadObject(ctx context.Context, fileName, contentType string, body io.Reader) (string, error)
}

type BrandController struct {
	brandService service.BrandService
	uploader     ObjectUploader
}

func NewBrandController(brandService service.BrandService, uploader ObjectUploader) *BrandController {
	return &BrandController{
		brandService: brandService,
		uploader:     uploader,
	}
}

// ListBrands returns every brand ordered by name
// GET /api/brands
func (ctrl *BrandController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brands, err := ctrl.brandService.ListBrands()
	if err != nil {
		log.Error("Failed to fetch brands", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// CreateBrand creates a brand from a multipart form. The optional
// "image" part is uploaded to object storage first (Admin only).
// POST /api/brands
func (ctrl *BrandController) CreateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.PostForm("name")
	if name == "" {
		errors.BadRequest(c, errors.ValidationRequired, "Brand name is required")
		return
	}

	var imageURL string
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to read brand image", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			errors.InternalError(c, "")
			return
		}
		defer file.Close()

		imageURL, err = ctrl.uploader.UploadObject(
			c.Request.Context(),
			fileHeader.Filename,
			fileHeader.Header.Get("Content-Type"),
			file,
		)
		if err != nil {
			log.Error("Failed to upload brand image", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			errors.RespondWithError(c, http.StatusBadGateway, errors.MediaUploadFailed, "Failed to upload brand image")
			return
		}
	}

	brand, err := ctrl.brandService.CreateBrand(name, imageURL)
	if err != nil {
		if stderrors.Is(err, service.ErrBrandNameExists) {
			errors.Conflict(c, errors.BrandNameExists, "A brand with this name already exists")
			return
		}
		log.Error("Failed to create brand", err, map[string]interface{}{
			"name": name,
		})
		errors.InternalError(c, "")
		return
	}

	log.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"name":     brand.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Brand created successfully",
		"brand":   brand,
	})
}

// DeleteBrand removes a brand (Admin only)
// DELETE /api/brands/:id
func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.brandService.DeleteBrand(id); err != nil {
		if stderrors.Is(err, service.ErrBrandNotFound) {
			errors.NotFound(c, errors.BrandNotFound, "Brand not found")
			return
		}
		log.Error("Failed to delete brand", err, map[string]interface{}{
			"brand_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand deleted successfully",
	})
}
