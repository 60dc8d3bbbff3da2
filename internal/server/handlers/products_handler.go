package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/i18n"
	"github.com/anarmmdv/bazar/internal/repository/supastore"
)

// ProductsHandler serves the product management screen.
type ProductsHandler struct {
	store  supastore.Store
	logger *zap.Logger
}

// NewProductsHandler constructs the products HTTP adapter.
func NewProductsHandler(store supastore.Store, logger *zap.Logger) *ProductsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsHandler{store: store, logger: logger}
}

// List returns every product, hidden ones included, ordered by name.
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing products", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.MsgProductsLoadFail})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

type createProductRequest struct {
	Name string `json:"name"`
}

// Create adds a new product. Name uniqueness is enforced by the backend.
func (h *ProductsHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.MsgProductNameEmpty})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.MsgProductNameEmpty})
		return
	}

	if err := h.store.InsertProduct(c.Request.Context(), name); err != nil {
		h.logger.Warn("product insert rejected", zap.String("name", name), zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": i18n.MsgProductExists})
		return
	}

	c.Status(http.StatusCreated)
}

type renameProductRequest struct {
	Name string `json:"name"`
}

// Rename changes a product's display name in place.
func (h *ProductsHandler) Rename(c *gin.Context) {
	var req renameProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.MsgProductNameEmpty})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.MsgProductNameEmpty})
		return
	}

	if err := h.store.RenameProduct(c.Request.Context(), c.Param("id"), name); err != nil {
		h.logger.Error("product rename failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.MsgRenameFail})
		return
	}

	c.Status(http.StatusNoContent)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive hides or restores a product.
func (h *ProductsHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active flag is required"})
		return
	}

	if err := h.store.SetProductActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.logger.Error("product status change failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.MsgStatusChangeFail})
		return
	}

	c.Status(http.StatusNoContent)
}
