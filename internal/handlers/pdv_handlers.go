package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mercadopos/internal/checkout"
	"mercadopos/internal/common"
	"mercadopos/internal/models"
	"mercadopos/internal/receipts"
	"mercadopos/internal/repositories"
	"mercadopos/internal/services"
)

// PDVHandlers covers the point-of-sale surface: product lookup for the
// scanner, checkout settlement, and suspended sales.
type PDVHandlers struct {
	catalogService  services.CatalogServiceInterface
	checkoutService services.CheckoutServiceInterface
	pendingService  services.PendingSaleServiceInterface
	productService  services.ProductServiceInterface
}

func NewPDVHandlers(
	catalogService services.CatalogServiceInterface,
	checkoutService services.CheckoutServiceInterface,
	pendingService services.PendingSaleServiceInterface,
	productService services.ProductServiceInterface,
) *PDVHandlers {
	return &PDVHandlers{
		catalogService:  catalogService,
		checkoutService: checkoutService,
		pendingService:  pendingService,
		productService:  productService,
	}
}

type cartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type paymentRequest struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

type settleRequest struct {
	Items               []cartItemRequest `json:"items"`
	DiscountCents       int64             `json:"discount_cents"`
	Payments            []paymentRequest  `json:"payments"`
	SaleType            string            `json:"sale_type"`
	AmountReceivedCents int64             `json:"amount_received_cents"`
	InstallmentCount    int               `json:"installment_count"`
	FirstDueDate        string            `json:"first_due_date"`
}

// LookupBarcode handles GET /pdv/products/barcode/:code
func (h *PDVHandlers) LookupBarcode(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	product, err := h.catalogService.FindByBarcode(ctx, storeID, c.Param("code"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c, "Failed to look up product")
	}
	return c.JSON(http.StatusOK, product)
}

// SearchProducts handles GET /pdv/products/search?q=term
func (h *PDVHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	products, err := h.catalogService.Search(ctx, storeID, c.QueryParam("q"), limit)
	if err != nil {
		return common.SendServerError(c, "Failed to search products")
	}
	return c.JSON(http.StatusOK, products)
}

// buildCart rebuilds the server-side cart from the request. Prices come
// from the catalog, never from the client.
func (h *PDVHandlers) buildCart(c echo.Context, items []cartItemRequest, discountCents int64) (*checkout.Cart, error) {
	ctx := c.Request().Context()

	storeID, _ := common.GetStoreIDFromContext(ctx)
	cart := checkout.NewCart()

	for _, item := range items {
		productID, err := common.ValidateUUID(item.ProductID, "product_id")
		if err != nil {
			return nil, common.SendValidationError(c, "product_id", err.Error())
		}

		product, err := h.productService.GetByID(ctx, storeID, productID)
		if err != nil {
			if errors.Is(err, services.ErrProductNotFound) {
				return nil, common.SendNotFoundError(c, "Product")
			}
			return nil, common.SendServerError(c, "Failed to load product")
		}

		if err := cart.AddProduct(product); err != nil {
			return nil, common.SendConflictError(c, err.Error())
		}
		if err := cart.SetQuantity(productID, item.Quantity); err != nil {
			if errors.Is(err, checkout.ErrStockExceeded) {
				return nil, common.SendConflictError(c, "Requested quantity exceeds available stock")
			}
			return nil, common.SendValidationError(c, "quantity", err.Error())
		}
	}

	if err := cart.SetDiscount(discountCents); err != nil {
		return nil, common.SendValidationError(c, "discount_cents", err.Error())
	}
	return cart, nil
}

// Settle handles POST /pdv/checkout
func (h *PDVHandlers) Settle(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	}

	var req settleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if len(req.Items) == 0 {
		return common.SendValidationError(c, "items", "at least one item is required")
	}
	if req.SaleType == "" {
		req.SaleType = models.SaleTypeCash
	}

	cart, err := h.buildCart(c, req.Items, req.DiscountCents)
	if err != nil {
		return err
	}

	tenders := checkout.NewTenderList()
	if len(req.Payments) == 1 && req.Payments[0].AmountCents == 0 {
		// Single-method shortcut: the tender covers the whole sale.
		req.Payments[0].AmountCents = cart.TotalCents()
	}
	for _, p := range req.Payments {
		if err := tenders.Add(p.Method, p.AmountCents); err != nil {
			return common.SendValidationError(c, "payments", err.Error())
		}
	}

	var firstDue time.Time
	if req.SaleType == models.SaleTypeInstallment {
		firstDue, err = common.ValidateDateFormat(req.FirstDueDate, "first_due_date")
		if err != nil {
			return common.SendValidationError(c, "first_due_date", err.Error())
		}
	}

	result, err := h.checkoutService.Settle(ctx, storeID, userID, &services.SettleRequest{
		Cart:                cart,
		Tenders:             tenders,
		SaleType:            req.SaleType,
		AmountReceivedCents: req.AmountReceivedCents,
		InstallmentCount:    req.InstallmentCount,
		FirstDueDate:        firstDue,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrInvalidInstallmentCount),
			errors.Is(err, checkout.ErrMissingDueDate),
			errors.Is(err, services.ErrCashOnlyChange),
			errors.Is(err, services.ErrInsufficientCash):
			return common.SendClientError(c, err.Error())
		case errors.Is(err, checkout.ErrTenderImbalance):
			return common.SendConflictError(c, "Tenders do not balance the sale total")
		case errors.Is(err, repositories.ErrInsufficientStock):
			return common.SendConflictError(c, "Insufficient stock for one or more products")
		default:
			return common.SendServerError(c, "Failed to settle sale")
		}
	}
	return c.JSON(http.StatusCreated, result)
}

// Receipt handles GET /sales/:id/receipt
func (h *PDVHandlers) Receipt(c echo.Context) error {
	snapshot, err := h.loadReceipt(c)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(receipts.Render(*snapshot)))
}

// ReceiptPDF handles GET /sales/:id/receipt/pdf
func (h *PDVHandlers) ReceiptPDF(c echo.Context) error {
	snapshot, err := h.loadReceipt(c)
	if err != nil {
		return err
	}
	pdf, err := receipts.RenderPDF(*snapshot)
	if err != nil {
		return common.SendServerError(c, "Failed to render receipt PDF")
	}
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// Suspend handles POST /pdv/pending
func (h *PDVHandlers) Suspend(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	var req struct {
		Items         []cartItemRequest `json:"items"`
		DiscountCents int64             `json:"discount_cents"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	cart, err := h.buildCart(c, req.Items, 0)
	if err != nil {
		return err
	}

	pending, err := h.pendingService.Suspend(ctx, storeID, cart)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			return common.SendValidationError(c, "items", "cannot suspend an empty cart")
		}
		return common.SendServerError(c, "Failed to suspend sale")
	}
	return c.JSON(http.StatusCreated, pending)
}

// ListPending handles GET /pdv/pending
func (h *PDVHandlers) ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	pending, err := h.pendingService.List(ctx, storeID)
	if err != nil {
		return common.SendServerError(c, "Failed to list pending sales")
	}
	return c.JSON(http.StatusOK, pending)
}

// Resume handles POST /pdv/pending/:id/resume
func (h *PDVHandlers) Resume(c echo.Context) error {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return common.SendStoreSetupRequired(c)
	}

	pendingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	items, err := h.pendingService.Resume(ctx, storeID, pendingID)
	if err != nil {
		if errors.Is(err, services.ErrPendingSaleNotFound) {
			return common.SendNotFoundError(c, "Pending sale")
		}
		return common.SendServerError(c, "Failed to resume pending sale")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *PDVHandlers) loadReceipt(c echo.Context) (*receipts.Snapshot, error) {
	ctx := c.Request().Context()

	storeID, ok := common.GetStoreIDFromContext(ctx)
	if !ok {
		return nil, common.SendStoreSetupRequired(c)
	}

	saleID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return nil, common.SendValidationError(c, "id", err.Error())
	}

	snapshot, err := h.checkoutService.ReceiptForSale(ctx, storeID, saleID)
	if err != nil {
		if errors.Is(err, services.ErrSaleNotFound) {
			return nil, common.SendNotFoundError(c, "Sale")
		}
		return nil, common.SendServerError(c, "Failed to build receipt")
	}
	return snapshot, nil
}
