package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mercadopos/internal/common"
	"mercadopos/internal/models"
	"mercadopos/internal/services"
)

type ProductHandlers struct {
	productService services.ProductServiceInterface
}

func NewProductHandlers(productService services.ProductServiceInterface) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

type productRequest struct {
	Name          string  `json:"name"`
	CategoryID    *string `json:"category_id"`
	PriceCents    int64   `json:"price_cents"`
	StockQuantity int     `json:"stock_quantity"`
	Unit          string  `json:"unit"`
	Barcode       *string `json:"barcode"`
	Active        *bool   `json:"active"`
}

func (h *ProductHandlers) validateProduct(c echo.Context, req *productRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "product name is required")
	}
	if req.PriceCents <= 0 {
		return common.SendValidationError(c, "price_cents", "price must be positive")
	}
	if req.StockQuantity < 0 {
		return common.SendValidationError(c, "stock_quantity", "stock cannot be negative")
	}
	return nil
}

func (h *ProductHandlers) toModel(req *productRequest, storeID uuid.UUID) (*models.Product, error) {
	product := &models.Product{
		StoreID:       storeID,
		Name:          strings.TrimSpace(req.Name),
		PriceCents:    req.PriceCents,
		StockQuantity: req.StockQuantity,
		Unit:          req.Unit,
		Barcode:       req.Barcode,
		Active:        true,
	}
	if req.Unit == "" {
		product.Unit = "un"
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = &categoryID
	}
	return product, nil
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateProduct(c, &req); err != nil {
		return err
	}

	product, err := h.toModel(&req, storeID)
	if err != nil {
		return common.SendValidationError(c, "category_id", "invalid category id")
	}

	if err := h.productService.Create(ctx, product); err != nil {
		return common.SendServerError(c, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	product, err := h.productService.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to load product")
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := h.validateProduct(c, &req); err != nil {
		return err
	}

	product, err := h.toModel(&req, storeID)
	if err != nil {
		return common.SendValidationError(c, "category_id", "invalid category id")
	}
	product.ID = id

	if err := h.productService.Update(ctx, product); err != nil {
		return common.SendServerError(c, "Failed to update product")
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.productService.Delete(ctx, storeID, id); err != nil {
		return common.SendServerError(c, "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	limit, offset := parsePagination(c)
	activeOnly := c.QueryParam("active") != "false"

	products, err := h.productService.List(ctx, storeID, activeOnly, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list products")
	}
	return c.JSON(http.StatusOK, products)
}

// ListLowStock handles GET /products/low-stock
func (h *ProductHandlers) ListLowStock(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	threshold := 10
	if v := c.QueryParam("threshold"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			threshold = parsed
		}
	}

	products, err := h.productService.ListLowStock(ctx, storeID, threshold)
	if err != nil {
		return common.SendServerError(c, "Failed to list low stock products")
	}
	return c.JSON(http.StatusOK, products)
}

func parsePagination(c echo.Context) (int, int) {
	limit := 50
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	limit, offset, _ = common.ValidatePaginationParams(limit, offset)
	return limit, offset
}
