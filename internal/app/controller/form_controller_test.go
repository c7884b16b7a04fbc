package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukkan-shop/dukkan-backend/internal/form"
)

func setupFormControllerTest(t *testing.T) (*gin.Engine, *form.SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := form.NewSessionStore(time.Hour, form.FallbackSource{}, func() *form.MediaManager {
		return form.NewMediaManager(t.TempDir(), 0)
	})
	t.Cleanup(store.Stop)

	ctrl := NewFormController(store, nil, &stubBatchUploader{})

	router := gin.New()
	router.POST("/api/forms/product", ctrl.CreateSession)
	router.GET("/api/forms/product/:sid", ctrl.GetSession)
	router.DELETE("/api/forms/product/:sid", ctrl.DeleteSession)
	router.PATCH("/api/forms/product/:sid/fields", ctrl.SetFields)
	router.POST("/api/forms/product/:sid/category", ctrl.SelectCategory)
	router.POST("/api/forms/product/:sid/reset", ctrl.Reset)
	router.POST("/api/forms/product/:sid/media", ctrl.AttachMedia)
	router.DELETE("/api/forms/product/:sid/media/:assetId", ctrl.RemoveMedia)
	router.POST("/api/forms/product/:sid/media/upload", ctrl.UploadMedia)
	return router, store
}

func TestFormController_SessionLifecycle(t *testing.T) {
	router, store := setupFormControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	sid := snapshot["sessionId"].(string)
	assert.Equal(t, float64(1), snapshot["step"])
	assert.Equal(t, "draft", snapshot["status"])
	assert.Equal(t, 1, store.Len())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/forms/product/"+sid, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/forms/product/"+sid, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestFormController_UnknownSession(t *testing.T) {
	router, _ := setupFormControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/forms/product/no-such-session", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FORM_SESSION_NOT_FOUND")
}

func TestFormController_SelectCategoryReportsSchemaError(t *testing.T) {
	router, _ := setupFormControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product", nil))
	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	sid := snapshot["sessionId"].(string)

	// unknown category: the request still succeeds, the snapshot carries
	// the schema error and the attribute step stays empty
	body, _ := json.Marshal(gin.H{"categoryId": 7, "categoryName": "Furniture"})
	req := httptest.NewRequest("POST", "/api/forms/product/"+sid+"/category", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.NotEmpty(t, snapshot["schemaError"])
}

func TestFormController_MediaAttachAndRemove(t *testing.T) {
	router, _ := setupFormControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product", nil))
	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	sid := snapshot["sessionId"].(string)

	body, contentType := multipartUpload(t,
		map[string][]byte{"photo.jpg": []byte("jpeg-bytes")},
		map[string]string{"photo.jpg": "image/jpeg"},
	)
	req := httptest.NewRequest("POST", "/api/forms/product/"+sid+"/media", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	staged := resp["staged"].([]interface{})
	require.Len(t, staged, 1)
	assetID := staged[0].(map[string]interface{})["id"].(string)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/forms/product/"+sid+"/media/"+assetID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/forms/product/"+sid+"/media/"+assetID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormController_MediaUploadMergesURLs(t *testing.T) {
	router, _ := setupFormControllerTest(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product", nil))
	var snapshot map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	sid := snapshot["sessionId"].(string)

	body, contentType := multipartUpload(t,
		map[string][]byte{"photo.jpg": []byte("jpeg-bytes")},
		map[string]string{"photo.jpg": "image/jpeg"},
	)
	req := httptest.NewRequest("POST", "/api/forms/product/"+sid+"/media", body)
	req.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product/"+sid+"/media/upload", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	urls := resp["mediaURLs"].([]interface{})
	require.Len(t, urls, 1)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", urls[0])

	// uploading again with nothing staged is a client error
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/forms/product/"+sid+"/media/upload", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
