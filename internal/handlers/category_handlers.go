package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"mercadopos/internal/common"
	"mercadopos/internal/models"
	"mercadopos/internal/services"
)

type CategoryHandlers struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandlers(categoryService services.CategoryServiceInterface) *CategoryHandlers {
	return &CategoryHandlers{categoryService: categoryService}
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles POST /categories
func (h *CategoryHandlers) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "category name is required")
	}

	category := &models.Category{
		StoreID: storeID,
		Name:    strings.TrimSpace(req.Name),
	}
	if err := h.categoryService.Create(ctx, category); err != nil {
		return common.SendServerError(c, "Failed to create category")
	}
	return c.JSON(http.StatusCreated, category)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandlers) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	category, err := h.categoryService.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			return common.SendNotFoundError(c, "Category")
		}
		return common.SendServerError(c, "Failed to load category")
	}
	return c.JSON(http.StatusOK, category)
}

// UpdateCategory handles PUT /categories/:id
func (h *CategoryHandlers) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "category name is required")
	}

	category := &models.Category{
		ID:      id,
		StoreID: storeID,
		Name:    strings.TrimSpace(req.Name),
	}
	if err := h.categoryService.Update(ctx, category); err != nil {
		return common.SendServerError(c, "Failed to update category")
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/:id
func (h *CategoryHandlers) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.categoryService.Delete(ctx, storeID, id); err != nil {
		return common.SendServerError(c, "Failed to delete category")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCategories handles GET /categories
func (h *CategoryHandlers) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	categories, err := h.categoryService.List(ctx, storeID)
	if err != nil {
		return common.SendServerError(c, "Failed to list categories")
	}
	return c.JSON(http.StatusOK, categories)
}
