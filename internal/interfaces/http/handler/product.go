package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/verdantmarket/backend/internal/application/catalog"
)

// ProductHandler exposes the vendor catalog over HTTP
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create handles POST /api/v1/vendor/products
func (h *ProductHandler) Create(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	var req catalog.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), vendorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /api/v1/vendor/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), vendorID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /api/v1/vendor/products
func (h *ProductHandler) List(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}

	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.productService.List(c.Request.Context(), vendorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update handles PUT /api/v1/vendor/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalog.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), vendorID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UpdateStock handles PUT /api/v1/vendor/products/:id/stock
func (h *ProductHandler) UpdateStock(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalog.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), vendorID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetActive handles PUT /api/v1/vendor/products/:id/status
func (h *ProductHandler) SetActive(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalog.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.SetActive(c.Request.Context(), vendorID, productID, req.IsActive)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /api/v1/vendor/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), vendorID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddVariant handles POST /api/v1/vendor/products/:id/variants
func (h *ProductHandler) AddVariant(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req catalog.AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.AddVariant(c.Request.Context(), vendorID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RemoveVariant handles DELETE /api/v1/vendor/products/:id/variants/:index
func (h *ProductHandler) RemoveVariant(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	index, ok := h.variantIndex(c)
	if !ok {
		return
	}

	product, err := h.productService.RemoveVariant(c.Request.Context(), vendorID, productID, index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// SetDefaultVariant handles PUT /api/v1/vendor/products/:id/variants/:index/default
func (h *ProductHandler) SetDefaultVariant(c *gin.Context) {
	vendorID, ok := h.vendorID(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c)
	if !ok {
		return
	}
	index, ok := h.variantIndex(c)
	if !ok {
		return
	}

	product, err := h.productService.SetDefaultVariant(c.Request.Context(), vendorID, productID, index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

func (h *ProductHandler) variantIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.BadRequest(c, "Invalid variant index")
		return 0, false
	}
	return index, true
}
