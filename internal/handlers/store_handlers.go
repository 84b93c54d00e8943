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

const maxLogoSize = 5 << 20 // 5 MiB

type StoreHandlers struct {
	storeService services.StoreServiceInterface
}

func NewStoreHandlers(storeService services.StoreServiceInterface) *StoreHandlers {
	return &StoreHandlers{storeService: storeService}
}

type storeRequest struct {
	Name    string  `json:"name"`
	CNPJ    *string `json:"cnpj"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zip_code"`
}

// SetupStore handles POST /store/setup. It runs before a store is bound to
// the profile, so it only needs the user identity.
func (h *StoreHandlers) SetupStore(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}
	if _, bound := common.GetStoreIDFromContext(ctx); bound {
		return common.SendConflictError(c, "Store is already configured")
	}

	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "store name is required")
	}

	store := &models.Store{
		Name:    strings.TrimSpace(req.Name),
		CNPJ:    req.CNPJ,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}
	if err := h.storeService.Setup(ctx, userID, store); err != nil {
		return common.SendServerError(c, "Failed to set up store")
	}
	return c.JSON(http.StatusCreated, store)
}

// GetStore handles GET /store
func (h *StoreHandlers) GetStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	store, err := h.storeService.Get(ctx, storeID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return common.SendNotFoundError(c, "Store")
		}
		return common.SendServerError(c, "Failed to load store")
	}
	return c.JSON(http.StatusOK, store)
}

// UpdateStore handles PUT /store
func (h *StoreHandlers) UpdateStore(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	var req storeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Name) == "" {
		return common.SendValidationError(c, "name", "store name is required")
	}

	store := &models.Store{
		ID:      storeID,
		Name:    strings.TrimSpace(req.Name),
		CNPJ:    req.CNPJ,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	}
	if err := h.storeService.Update(ctx, store); err != nil {
		return common.SendServerError(c, "Failed to update store")
	}
	return c.JSON(http.StatusOK, store)
}

// UploadLogo handles POST /store/logo (multipart form, field "logo").
func (h *StoreHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "logo", "logo file is required")
	}
	if fileHeader.Size > maxLogoSize {
		return common.SendValidationError(c, "logo", "logo file exceeds 5 MiB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.storeService.UploadLogo(ctx, storeID, contentType, file, fileHeader.Size); err != nil {
		return common.SendServerError(c, "Failed to upload logo")
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoURL handles GET /store/logo
func (h *StoreHandlers) LogoURL(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	url, err := h.storeService.LogoURL(ctx, storeID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			return common.SendNotFoundError(c, "Store logo")
		}
		return common.SendServerError(c, "Failed to build logo URL")
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}
