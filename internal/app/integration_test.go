package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dukkan-shop/dukkan-backend/internal/app/controller"
	"github.com/dukkan-shop/dukkan-backend/internal/app/repository"
	"github.com/dukkan-shop/dukkan-backend/internal/app/service"
	"github.com/dukkan-shop/dukkan-backend/internal/db"
	"github.com/dukkan-shop/dukkan-backend/internal/form"
	"github.com/dukkan-shop/dukkan-backend/internal/middleware"
	"github.com/dukkan-shop/dukkan-backend/pkg/util"
)

const integrationJWTSecret = "integration-test-secret"

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		integrationJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo)

	newMedia := func() *form.MediaManager {
		return form.NewMediaManager(t.TempDir(), 0)
	}
	sessionStore := form.NewSessionStore(time.Hour, categoryService.SchemaSource(), newMedia)
	t.Cleanup(sessionStore.Stop)

	authController := controller.NewAuthController(authService)
	categoryController := controller.NewCategoryController(categoryService)
	productController := controller.NewProductController(productService)
	formController := controller.NewFormController(sessionStore, productService, nil)

	authMiddleware := middleware.NewAuthMiddleware(integrationJWTSecret)

	router := gin.New()

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.Me)
	}

	categories := router.Group("/api/categories")
	{
		categories.GET("", categoryController.ListCategories)
		categories.POST("/add",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole("admin"),
			categoryController.CreateCategory,
		)
	}

	products := router.Group("/api/products")
	{
		products.GET("", productController.ListProducts)
		products.GET("/:id", productController.GetProduct)
	}

	forms := router.Group("/api/forms/product")
	forms.Use(authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"))
	{
		forms.POST("", formController.CreateSession)
		forms.GET("/:sid", formController.GetSession)
		forms.PATCH("/:sid/fields", formController.SetFields)
		forms.POST("/:sid/category", formController.SelectCategory)
		forms.POST("/:sid/next", formController.Next)
		forms.POST("/:sid/submit", formController.Submit)
	}

	return &TestServer{Router: router, DB: testDB}
}

func adminToken(t *testing.T) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(
		1,
		"admin@dukkan.example",
		"admin",
		integrationJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)
	return tokens.AccessToken
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIntegration_RegisterLoginMe(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, "POST", "/api/auth/register", "", gin.H{
		"email":    "owner@dukkan.example",
		"password": "strong-password-1",
		"name":     "Owner",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, "POST", "/api/auth/login", "", gin.H{
		"email":    "owner@dukkan.example",
		"password": "strong-password-1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	tokens := body["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)
	require.NotEmpty(t, accessToken)

	w = ts.request(t, "GET", "/api/auth/me", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "owner@dukkan.example", user["email"])
}

func TestIntegration_CategoryRequiresAdmin(t *testing.T) {
	ts := setupIntegrationTest(t)

	payload := gin.H{
		"name": "Shoes",
		"attributes": []gin.H{
			{"name": "sizes", "label": "Sizes", "kind": "multi-select", "options": []string{"6", "7", "8"}},
		},
	}

	w := ts.request(t, "POST", "/api/categories/add", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.request(t, "POST", "/api/categories/add", adminToken(t), payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.request(t, "GET", "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}

func TestIntegration_ProductFormWalkthrough(t *testing.T) {
	ts := setupIntegrationTest(t)
	token := adminToken(t)

	// a category with attributes the form's step 2 will render
	w := ts.request(t, "POST", "/api/categories/add", token, gin.H{
		"name": "Shoes",
		"attributes": []gin.H{
			{"name": "sizes", "label": "Sizes", "kind": "multi-select", "options": []string{"8", "9", "10"}},
			{"name": "gender", "label": "Gender", "kind": "select", "options": []string{"Men", "Women", "Unisex"}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := uint(decodeBody(t, w)["category"].(map[string]interface{})["id"].(float64))

	// start a session
	w = ts.request(t, "POST", "/api/forms/product", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sid := decodeBody(t, w)["sessionId"].(string)
	base := "/api/forms/product/" + sid

	// step 1: base fields plus the category selection
	w = ts.request(t, "POST", base+"/category", token, gin.H{
		"categoryId":   categoryID,
		"categoryName": "Shoes",
	})
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := decodeBody(t, w)
	assert.Empty(t, snapshot["schemaError"])

	w = ts.request(t, "PATCH", base+"/fields", token, gin.H{
		"values": gin.H{
			"productNumber": "P500",
			"sku":           "SKU-P500",
			"productName":   "Leather Boots",
			"brand":         "Clarks",
			"price":         200,
			"stockQuantity": 12,
		},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// submit is gated to the final step
	w = ts.request(t, "POST", base+"/submit", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.request(t, "POST", base+"/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// step 2: schema attributes
	w = ts.request(t, "PATCH", base+"/fields", token, gin.H{
		"values": gin.H{
			"sizes":  []string{"8", "9"},
			"gender": "Men",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "POST", base+"/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// step 3: description and tags are still empty, Next must fail
	w = ts.request(t, "POST", base+"/next", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.request(t, "PATCH", base+"/fields", token, gin.H{
		"values": gin.H{
			"description": "<p>Classic boots</p>",
			"tags":        []string{"boots"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "POST", base+"/next", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// step 4: media is optional, submit goes through as-is
	w = ts.request(t, "POST", base+"/submit", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	snapshot = decodeBody(t, w)
	assert.Equal(t, "submitted", snapshot["status"])
	productID := snapshot["productId"].(float64)
	require.NotZero(t, productID)

	// the product is live on the storefront
	w = ts.request(t, "GET", fmt.Sprintf("/api/products/%d", int(productID)), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	product := body["product"].(map[string]interface{})
	assert.Equal(t, "P500", product["productNumber"])
	assert.Equal(t, "Shoes", product["categoryName"])
}
