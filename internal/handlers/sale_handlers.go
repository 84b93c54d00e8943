package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"mercadopos/internal/common"
	"mercadopos/internal/services"
)

// SaleHandlers serves the sale history and the register (caixa) reports.
type SaleHandlers struct {
	reportService services.ReportServiceInterface
}

func NewSaleHandlers(reportService services.ReportServiceInterface) *SaleHandlers {
	return &SaleHandlers{reportService: reportService}
}

// GetSale handles GET /sales/:id
func (h *SaleHandlers) GetSale(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	sale, items, err := h.reportService.GetSale(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			return common.SendNotFoundError(c, "Sale")
		}
		return common.SendServerError(c, "Failed to load sale")
	}
	return c.JSON(http.StatusOK, map[string]any{"sale": sale, "items": items})
}

// ListSales handles GET /sales with optional from/to date filters.
func (h *SaleHandlers) ListSales(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	fromStr := c.QueryParam("from")
	toStr := c.QueryParam("to")
	if fromStr != "" || toStr != "" {
		from, err := common.ValidateDateFormat(fromStr, "from")
		if err != nil {
			return common.SendValidationError(c, "from", err.Error())
		}
		to, err := common.ValidateDateFormat(toStr, "to")
		if err != nil {
			return common.SendValidationError(c, "to", err.Error())
		}
		// The upper bound is exclusive: "to" means through the end of
		// that day.
		sales, err := h.reportService.ListSalesByDateRange(ctx, storeID, from, to.AddDate(0, 0, 1))
		if err != nil {
			return common.SendServerError(c, "Failed to list sales")
		}
		return c.JSON(http.StatusOK, sales)
	}

	limit, offset := parsePagination(c)
	sales, err := h.reportService.ListSales(ctx, storeID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list sales")
	}
	return c.JSON(http.StatusOK, sales)
}

// DailySummary handles GET /reports/daily?date=YYYY-MM-DD; the date
// defaults to today.
func (h *SaleHandlers) DailySummary(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	day := time.Now()
	if v := c.QueryParam("date"); v != "" {
		parsed, err := common.ValidateDateFormat(v, "date")
		if err != nil {
			return common.SendValidationError(c, "date", err.Error())
		}
		day = parsed
	}

	summary, err := h.reportService.DailySummary(ctx, storeID, day)
	if err != nil {
		return common.SendServerError(c, "Failed to build daily summary")
	}
	return c.JSON(http.StatusOK, summary)
}
