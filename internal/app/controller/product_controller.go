package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/errors"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type AddTrendsRequest struct {
	ProductIDs []uint `json:"productIds" binding:"required,min=1"`
}

// ListProducts returns products filtered by the query string.
// Supported filters: category_id, brand, search, featured, trend,
// sort (created_at|price|name|stock), order (asc|desc), limit, offset.
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ProductListOptions{
		Brand:  c.Query("brand"),
		Search: c.Query("search"),
		Sort:   repository.ProductSort(c.DefaultQuery("sort", "created_at")),
	}
	opts.SortAscending = c.Query("order") == "asc"

	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			errors.BadRequest(c, errors.ValidationInvalidID, "Invalid category ID")
			return
		}
		categoryID := uint(id)
		opts.CategoryID = &categoryID
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true"
		opts.Featured = &featured
	}
	if raw := c.Query("trend"); raw != "" {
		trend := raw == "true"
		opts.Trend = &trend
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset >= 0 {
			opts.Offset = offset
		}
	}

	products, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// ListFeatured returns the storefront's featured selection
// GET /api/products/featured
func (ctrl *ProductController) ListFeatured(c *gin.Context) {
	ctrl.listFlagged(c, func(opts *service.ProductListOptions, on bool) {
		opts.Featured = &on
	})
}

// ListTrends returns the storefront's trending selection
// GET /api/products/trends
func (ctrl *ProductController) ListTrends(c *gin.Context) {
	ctrl.listFlagged(c, func(opts *service.ProductListOptions, on bool) {
		opts.Trend = &on
	})
}

func (ctrl *ProductController) listFlagged(c *gin.Context, set func(*service.ProductListOptions, bool)) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ProductListOptions{Sort: repository.ProductSortCreatedAt}
	set(&opts, true)
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			opts.Limit = limit
		}
	}

	products, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product by ID
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct persists a completed product draft (Admin only)
// POST /api/products/add
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var payload form.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("Invalid product creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.CreateProduct(c.Request.Context(), &payload)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id":     product.ID,
		"product_number": product.ProductNumber,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProduct replaces a product's form-managed fields (Admin only)
// PUT /api/products/update/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var payload form.ProductPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.UpdateProduct(c.Request.Context(), id, &payload)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProduct removes a product (Admin only)
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ToggleFeatured flips the featured flag (Admin only)
// PUT /api/products/toggle-featured/:id
func (ctrl *ProductController) ToggleFeatured(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.ToggleFeatured(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Featured flag updated",
		"product": product,
	})
}

// ToggleTrend flips the trend flag (Admin only)
// PUT /api/products/toggle-trend/:id
func (ctrl *ProductController) ToggleTrend(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	product, err := ctrl.productService.ToggleTrend(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trend flag updated",
		"product": product,
	})
}

// AddTrends marks a batch of products as trending (Admin only)
// POST /api/products/trends/add
func (ctrl *ProductController) AddTrends(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddTrendsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	products, err := ctrl.productService.AddTrends(req.ProductIDs)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	log.Info("Products added to trends", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Products added to trends",
		"products": products,
	})
}

// ExportProducts streams the catalog as an xlsx workbook (Admin only)
// GET /api/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	file, err := ctrl.productService.ExportProducts()
	if err != nil {
		log.Error("Failed to export products", err, nil)
		errors.InternalError(c, "")
		return
	}
	defer file.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write product export", err, nil)
	}
}

// respondProductError maps product service sentinels to HTTP responses.
// Anything else is run through the database error parser so constraint
// violations the service does not pre-check, like a duplicate SKU, still
// come back with a stable code.
func (ctrl *ProductController) respondProductError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case stderrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case stderrors.Is(err, service.ErrCategoryNotFound):
		errors.BadRequest(c, errors.CategoryNotFound, "Referenced category does not exist")
	case stderrors.Is(err, service.ErrProductNumberExists):
		errors.Conflict(c, errors.ProductNumberExists, "A product with this product number already exists")
	default:
		log.Error("Product operation failed", err, nil)
		info := errors.ParseError(err, "product")
		errors.RespondWithError(c, statusForCode(info.Code), info.Code, info.Message)
	}
}

func statusForCode(code string) int {
	switch code {
	case errors.ProductNumberExists, errors.ProductSKUExists, errors.ResourceAlreadyExists:
		return http.StatusConflict
	case errors.ResourceNotFound:
		return http.StatusNotFound
	case errors.ValidationRequired, errors.ValidationInvalidInput:
		return http.StatusBadRequest
	case errors.InternalExternalAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
