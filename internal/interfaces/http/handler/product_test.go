package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcatalog "github.com/verdantmarket/backend/internal/application/catalog"
	"github.com/verdantmarket/backend/internal/infrastructure/persistence/memory"
	"github.com/verdantmarket/backend/internal/interfaces/http/dto"
	"github.com/verdantmarket/backend/internal/interfaces/http/middleware"
)

func newProductRouter(t *testing.T, vendorID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := appcatalog.NewProductService(memory.NewProductRepository(), memory.NewOrderRepository())
	h := NewProductHandler(service)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(func(c *gin.Context) {
		c.Set(middleware.VendorIDKey, vendorID.String())
	})

	group := router.Group("/api/v1/vendor/products")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.PUT("/:id/stock", h.UpdateStock)
	group.PUT("/:id/status", h.SetActive)
	group.DELETE("/:id", h.Delete)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var envelope dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func createProductPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":                  "Bamboo Toothbrush Set",
		"sku":                   "VT-BRUSH-004",
		"description":           "Pack of four biodegradable toothbrushes",
		"price":                 "249.00",
		"stock_quantity":        40,
		"sustainability_rating": 8,
		"materials":             []string{"bamboo"},
	}
}

func TestProductCreateAndGet(t *testing.T) {
	vendorID := uuid.New()
	router := newProductRouter(t, vendorID)

	w := doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", createProductPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	envelope := decodeEnvelope(t, w)
	require.True(t, envelope.Success)

	created := envelope.Data.(map[string]interface{})
	productID := created["id"].(string)
	assert.Equal(t, "VT-BRUSH-004", created["sku"])
	assert.Equal(t, vendorID.String(), created["vendor_id"])
	assert.Equal(t, float64(1), created["version"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/vendor/products/"+productID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope = decodeEnvelope(t, w)
	fetched := envelope.Data.(map[string]interface{})
	assert.Equal(t, "Bamboo Toothbrush Set", fetched["name"])
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	w := doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", createProductPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", createProductPayload())
	assert.Equal(t, http.StatusConflict, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "DUPLICATE_SKU", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.RequestID)
}

func TestProductUpdateStaleVersion(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	w := doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", createProductPayload())
	require.Equal(t, http.StatusCreated, w.Code)
	productID := decodeEnvelope(t, w).Data.(map[string]interface{})["id"].(string)

	w = doJSON(t, router, http.MethodPut, "/api/v1/vendor/products/"+productID+"/stock", map[string]interface{}{
		"stock_quantity": 25,
		"version":        1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Same version again: the first write bumped it to 2
	w = doJSON(t, router, http.MethodPut, "/api/v1/vendor/products/"+productID+"/stock", map[string]interface{}{
		"stock_quantity": 30,
		"version":        1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONCURRENCY_CONFLICT", envelope.Error.Code)
}

func TestProductListPagination(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	for i := 0; i < 3; i++ {
		payload := createProductPayload()
		payload["sku"] = fmt.Sprintf("VT-BRUSH-%03d", i)
		w := doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", payload)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/vendor/products?page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, int64(3), envelope.Meta.Total)
	assert.Equal(t, 2, envelope.Meta.PageSize)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
	assert.Len(t, envelope.Data.([]interface{}), 2)
}

func TestProductInvalidID(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	w := doJSON(t, router, http.MethodGet, "/api/v1/vendor/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductNotFound(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	w := doJSON(t, router, http.MethodGet, "/api/v1/vendor/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestProductNegativePrice(t *testing.T) {
	router := newProductRouter(t, uuid.New())

	payload := createProductPayload()
	payload["price"] = "-5.00"
	w := doJSON(t, router, http.MethodPost, "/api/v1/vendor/products", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	envelope := decodeEnvelope(t, w)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_PRICE", envelope.Error.Code)
}
