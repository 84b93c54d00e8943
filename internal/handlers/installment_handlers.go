package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"mercadopos/internal/common"
	"mercadopos/internal/models"
	"mercadopos/internal/services"
)

type InstallmentHandlers struct {
	installmentService services.InstallmentServiceInterface
}

func NewInstallmentHandlers(installmentService services.InstallmentServiceInterface) *InstallmentHandlers {
	return &InstallmentHandlers{installmentService: installmentService}
}

// ListBySale handles GET /sales/:id/installments
func (h *InstallmentHandlers) ListBySale(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	saleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	installments, err := h.installmentService.ListBySale(ctx, storeID, saleID)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			return common.SendNotFoundError(c, "Sale")
		}
		return common.SendServerError(c, "Failed to list installments")
	}
	return c.JSON(http.StatusOK, installments)
}

// List handles GET /installments?status=pending
func (h *InstallmentHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	status := c.QueryParam("status")
	if status != "" && status != models.InstallmentPending && status != models.InstallmentPaid {
		return common.SendValidationError(c, "status", "status must be 'pending' or 'paid'")
	}

	limit, offset := parsePagination(c)
	installments, err := h.installmentService.ListByStore(ctx, storeID, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list installments")
	}
	return c.JSON(http.StatusOK, installments)
}

// ListOverdue handles GET /installments/overdue
func (h *InstallmentHandlers) ListOverdue(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	installments, err := h.installmentService.ListOverdue(ctx, storeID)
	if err != nil {
		return common.SendServerError(c, "Failed to list overdue installments")
	}
	return c.JSON(http.StatusOK, installments)
}

// MarkPaid handles POST /installments/:id/pay
func (h *InstallmentHandlers) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.installmentService.MarkPaid(ctx, storeID, id); err != nil {
		if errors.Is(err, services.ErrInstallmentNotFound) {
			return common.SendNotFoundError(c, "Installment")
		}
		return common.SendServerError(c, "Failed to mark installment as paid")
	}
	return c.NoContent(http.StatusNoContent)
}
