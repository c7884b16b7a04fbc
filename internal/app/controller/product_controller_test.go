package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
)

func setupProductControllerTest(t *testing.T) (*gin.Engine, service.ProductService, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)

	category, err := categoryService.CreateCategory(service.CategoryInput{
		Name: "Shoes",
		Attributes: []service.AttributeInput{
			{Name: "sizes", Label: "Sizes", Kind: "multi-select", Options: []string{"8", "9"}},
		},
	})
	require.NoError(t, err)

	ctrl := NewProductController(productService)

	router := gin.New()
	router.GET("/api/products", ctrl.ListProducts)
	router.GET("/api/products/featured", ctrl.ListFeatured)
	router.GET("/api/products/trends", ctrl.ListTrends)
	router.GET("/api/products/:id", ctrl.GetProduct)
	router.POST("/api/products/add", ctrl.CreateProduct)
	router.PUT("/api/products/update/:id", ctrl.UpdateProduct)
	router.DELETE("/api/products/:id", ctrl.DeleteProduct)
	router.PUT("/api/products/toggle-featured/:id", ctrl.ToggleFeatured)
	router.POST("/api/products/trends/add", ctrl.AddTrends)
	router.GET("/api/products/export", ctrl.ExportProducts)

	return router, productService, category.ID
}

func seedProduct(t *testing.T, svc service.ProductService, categoryID uint, number string) uint {
	t.Helper()
	product, err := svc.CreateProduct(context.Background(), &form.ProductPayload{
		ProductNumber: number,
		SKU:           "SKU-" + number,
		ProductName:   "Leather Boots",
		Brand:         "Clarks",
		CategoryID:    categoryID,
		Price:         200,
		StockQuantity: 8,
		Description:   "Classic boots",
		Tags:          []string{"boots"},
	})
	require.NoError(t, err)
	return product.ID
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProductController_ListAndFilter(t *testing.T) {
	router, svc, categoryID := setupProductControllerTest(t)
	seedProduct(t, svc, categoryID, "P1")
	seedProduct(t, svc, categoryID, "P2")

	w := performJSON(t, router, "GET", "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(2), body["count"])

	w = performJSON(t, router, "GET", "/api/products?search=P1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])

	w = performJSON(t, router, "GET", fmt.Sprintf("/api/products?category_id=%d&limit=1", categoryID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
}

func TestProductController_GetNotFound(t *testing.T) {
	router, _, _ := setupProductControllerTest(t)

	w := performJSON(t, router, "GET", "/api/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performJSON(t, router, "GET", "/api/products/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_CreateAndDuplicate(t *testing.T) {
	router, _, categoryID := setupProductControllerTest(t)

	payload := gin.H{
		"productNumber": "P100",
		"sku":           "SKU-P100",
		"productName":   "Leather Boots",
		"brand":         "Clarks",
		"categoryID":    categoryID,
		"price":         200,
		"stockQuantity": 8,
		"description":   "Classic boots",
		"tags":          []string{"boots"},
	}

	w := performJSON(t, router, "POST", "/api/products/add", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = performJSON(t, router, "POST", "/api/products/add", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductController_CreateUnknownCategory(t *testing.T) {
	router, _, _ := setupProductControllerTest(t)

	w := performJSON(t, router, "POST", "/api/products/add", gin.H{
		"productNumber": "P100",
		"sku":           "SKU-P100",
		"productName":   "Leather Boots",
		"categoryID":    999,
		"price":         200,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_ToggleFeatured(t *testing.T) {
	router, svc, categoryID := setupProductControllerTest(t)
	id := seedProduct(t, svc, categoryID, "P1")

	w := performJSON(t, router, "PUT", fmt.Sprintf("/api/products/toggle-featured/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	product := body["product"].(map[string]interface{})
	assert.Equal(t, true, product["isFeatured"])

	w = performJSON(t, router, "GET", "/api/products/featured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
}

func TestProductController_AddTrends(t *testing.T) {
	router, svc, categoryID := setupProductControllerTest(t)
	a := seedProduct(t, svc, categoryID, "P1")
	b := seedProduct(t, svc, categoryID, "P2")

	w := performJSON(t, router, "POST", "/api/products/trends/add", gin.H{
		"productIds": []uint{a, b},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, router, "POST", "/api/products/trends/add", gin.H{
		"productIds": []uint{a, 999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_Delete(t *testing.T) {
	router, svc, categoryID := setupProductControllerTest(t)
	id := seedProduct(t, svc, categoryID, "P1")

	w := performJSON(t, router, "DELETE", fmt.Sprintf("/api/products/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, router, "GET", fmt.Sprintf("/api/products/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_Export(t *testing.T) {
	router, svc, categoryID := setupProductControllerTest(t)
	seedProduct(t, svc, categoryID, "P1")

	w := performJSON(t, router, "GET", "/api/products/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, w.Body.Len())
}
