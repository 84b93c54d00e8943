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

type BillHandlers struct {
	billService services.BillServiceInterface
}

func NewBillHandlers(billService services.BillServiceInterface) *BillHandlers {
	return &BillHandlers{billService: billService}
}

type billRequest struct {
	Description string `json:"description"`
	Kind        string `json:"kind"`
	AmountCents int64  `json:"amount_cents"`
	DueDate     string `json:"due_date"`
}

// CreateBill handles POST /bills
func (h *BillHandlers) CreateBill(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	var req billRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if strings.TrimSpace(req.Description) == "" {
		return common.SendValidationError(c, "description", "description is required")
	}
	if err := common.ValidateBillKind(req.Kind); err != nil {
		return common.SendValidationError(c, "kind", err.Error())
	}
	if req.AmountCents <= 0 {
		return common.SendValidationError(c, "amount_cents", "amount must be positive")
	}
	dueDate, err := common.ValidateDateFormat(req.DueDate, "due_date")
	if err != nil {
		return common.SendValidationError(c, "due_date", err.Error())
	}

	bill := &models.Bill{
		StoreID:     storeID,
		Description: strings.TrimSpace(req.Description),
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
		Status:      models.BillPending,
	}
	if err := h.billService.Create(ctx, bill); err != nil {
		return common.SendServerError(c, "Failed to create bill")
	}
	return c.JSON(http.StatusCreated, bill)
}

// GetBill handles GET /bills/:id
func (h *BillHandlers) GetBill(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	bill, err := h.billService.GetByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			return common.SendNotFoundError(c, "Bill")
		}
		return common.SendServerError(c, "Failed to load bill")
	}
	return c.JSON(http.StatusOK, bill)
}

// UpdateBill handles PUT /bills/:id
func (h *BillHandlers) UpdateBill(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req billRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateBillKind(req.Kind); err != nil {
		return common.SendValidationError(c, "kind", err.Error())
	}
	dueDate, err := common.ValidateDateFormat(req.DueDate, "due_date")
	if err != nil {
		return common.SendValidationError(c, "due_date", err.Error())
	}

	bill := &models.Bill{
		ID:          id,
		StoreID:     storeID,
		Description: strings.TrimSpace(req.Description),
		Kind:        req.Kind,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
	}
	if err := h.billService.Update(ctx, bill); err != nil {
		return common.SendServerError(c, "Failed to update bill")
	}
	return c.JSON(http.StatusOK, bill)
}

// DeleteBill handles DELETE /bills/:id
func (h *BillHandlers) DeleteBill(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.billService.Delete(ctx, storeID, id); err != nil {
		return common.SendServerError(c, "Failed to delete bill")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBills handles GET /bills?kind=payable&status=pending
func (h *BillHandlers) ListBills(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	kind := c.QueryParam("kind")
	if kind != "" {
		if err := common.ValidateBillKind(kind); err != nil {
			return common.SendValidationError(c, "kind", err.Error())
		}
	}
	status := c.QueryParam("status")
	if status != "" && status != models.BillPending && status != models.BillPaid {
		return common.SendValidationError(c, "status", "status must be 'pending' or 'paid'")
	}

	limit, offset := parsePagination(c)
	bills, err := h.billService.List(ctx, storeID, kind, status, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list bills")
	}
	return c.JSON(http.StatusOK, bills)
}

// MarkPaid handles POST /bills/:id/pay
func (h *BillHandlers) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.billService.MarkPaid(ctx, storeID, id); err != nil {
		if errors.Is(err, services.ErrBillNotFound) {
			return common.SendNotFoundError(c, "Bill")
		}
		return common.SendServerError(c, "Failed to mark bill as paid")
	}
	return c.NoContent(http.StatusNoContent)
}
