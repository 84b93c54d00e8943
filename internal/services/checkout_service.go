package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mercadopos/internal/caching"
	"mercadopos/internal/common"
	"mercadopos/internal/checkout"
	"mercadopos/internal/models"
	"mercadopos/internal/receipts"
	"mercadopos/internal/repositories"
)

// SettlementState tracks where a settlement attempt is in its lifecycle.
type SettlementState string

const (
	StateIdle           SettlementState = "idle"
	StateAwaitingTender SettlementState = "awaiting_tender"
	StateSettling       SettlementState = "settling"
	StateCompleted      SettlementState = "completed"
	StateFailed         SettlementState = "failed"
)

// ErrInsufficientCash is returned when the declared cash received does not
// cover the sale's final amount.
var ErrInsufficientCash = errors.New("cash received is less than the sale total")

// ErrCashOnlyChange is returned when an amount received is declared for a
// settlement whose tender is not a single cash payment.
var ErrCashOnlyChange = errors.New("amount received only applies to a single cash tender")

// SettleRequest carries everything one settlement attempt needs. When
// SaleType is installment the plan parameters must be present; the whole
// schedule is written in the same transaction as the sale.
type SettleRequest struct {
	Cart                *checkout.Cart
	Tenders             *checkout.TenderList
	SaleType            string
	AmountReceivedCents int64 // cash handed over; 0 means exact payment
	InstallmentCount    int
	FirstDueDate        time.Time
}

// SettleResult is the outcome of a completed settlement.
type SettleResult struct {
	State        SettlementState    `json:"state"`
	Sale         *models.Sale       `json:"sale"`
	Installments []*models.Installment `json:"installments,omitempty"`
	ChangeCents  int64              `json:"change_cents"`
	Receipt      receipts.Snapshot  `json:"receipt"`
}

type CheckoutServiceInterface interface {
	Settle(ctx context.Context, storeID, userID uuid.UUID, req *SettleRequest) (*SettleResult, error)
	ReceiptForSale(ctx context.Context, storeID, saleID uuid.UUID) (*receipts.Snapshot, error)
}

type checkoutService struct {
	db              repositories.Database
	saleRepo        repositories.SaleRepository
	saleItemRepo    repositories.SaleItemRepository
	salePaymentRepo repositories.SalePaymentRepository
	installmentRepo repositories.InstallmentRepository
	productRepo     repositories.ProductRepository
	storeRepo       repositories.StoreRepository
	cacheSvc        caching.CacheService
}

// NewCheckoutService creates the settlement orchestrator. It holds the pool
// because settlement is the one flow that must span several tables in a
// single transaction.
func NewCheckoutService(
	db repositories.Database,
	saleRepo repositories.SaleRepository,
	saleItemRepo repositories.SaleItemRepository,
	salePaymentRepo repositories.SalePaymentRepository,
	installmentRepo repositories.InstallmentRepository,
	productRepo repositories.ProductRepository,
	storeRepo repositories.StoreRepository,
	cacheSvc caching.CacheService,
) CheckoutServiceInterface {
	return &checkoutService{
		db:              db,
		saleRepo:        saleRepo,
		saleItemRepo:    saleItemRepo,
		salePaymentRepo: salePaymentRepo,
		installmentRepo: installmentRepo,
		productRepo:     productRepo,
		storeRepo:       storeRepo,
		cacheSvc:        cacheSvc,
	}
}

// Settle drives one settlement attempt through its states:
//
//	Idle -> AwaitingTender -> Settling -> Completed
//	                            '------> Failed (transaction rolled back)
//
// The sale header, its items, the tender rows, the stock decrements and the
// installment schedule commit atomically; a retry after Failed re-runs the
// whole unit, so a half-written sale can never be observed.
func (s *checkoutService) Settle(ctx context.Context, storeID, userID uuid.UUID, req *SettleRequest) (*SettleResult, error) {
	// Idle -> AwaitingTender: requires a non-empty cart.
	if req.Cart == nil || req.Cart.Len() == 0 {
		return nil, checkout.ErrEmptyCart
	}

	finalCents := req.Cart.TotalCents()

	// AwaitingTender -> Settling: tenders must balance the total exactly.
	// Re-checked here, atomically with the transition, never from a stale
	// earlier read.
	if req.Tenders == nil || !req.Tenders.CanSettle(finalCents) {
		return nil, checkout.ErrTenderImbalance
	}

	changeCents, err := s.computeChange(req, finalCents)
	if err != nil {
		return nil, err
	}

	if err := common.ValidateSaleType(req.SaleType); err != nil {
		return nil, err
	}

	status := models.SaleStatusCompleted
	if req.SaleType == models.SaleTypeInstallment {
		status = models.SaleStatusPending
	}

	var plan []checkout.PlannedInstallment
	if req.SaleType == models.SaleTypeInstallment {
		plan, err = checkout.BuildInstallmentPlan(finalCents, req.InstallmentCount, req.FirstDueDate)
		if err != nil {
			return nil, err
		}
	}

	sale := &models.Sale{
		ID:            uuid.New(),
		StoreID:       storeID,
		UserID:        userID,
		TotalCents:    req.Cart.SubtotalCents(),
		DiscountCents: req.Cart.DiscountCents(),
		FinalCents:    finalCents,
		PaymentMethod: req.Tenders.Label(),
		SaleType:      req.SaleType,
		Status:        status,
	}

	lines := req.Cart.Lines()

	// Settling: one transaction for the whole logical unit of work.
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.saleRepo.CreateTx(ctx, tx, sale); err != nil {
		return nil, fmt.Errorf("persist sale header: %w", err)
	}

	items := make([]*models.SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, &models.SaleItem{
			ID:             uuid.New(),
			SaleID:         sale.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents(),
		})
	}
	if err := s.saleItemRepo.CreateBatchTx(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("persist sale items: %w", err)
	}

	if req.Tenders.Count() > 1 {
		payments := make([]*models.SalePayment, 0, req.Tenders.Count())
		for _, t := range req.Tenders.List() {
			payments = append(payments, &models.SalePayment{
				ID:            uuid.New(),
				SaleID:        sale.ID,
				PaymentMethod: t.Method,
				AmountCents:   t.AmountCents,
			})
		}
		if err := s.salePaymentRepo.CreateBatchTx(ctx, tx, payments); err != nil {
			return nil, fmt.Errorf("persist sale payments: %w", err)
		}
	}

	for _, line := range lines {
		if err := s.productRepo.DecrementStockTx(ctx, tx, storeID, line.ProductID, line.Quantity); err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
		}
	}

	var installments []*models.Installment
	for _, p := range plan {
		installments = append(installments, &models.Installment{
			ID:                uuid.New(),
			SaleID:            sale.ID,
			InstallmentNumber: p.Number,
			AmountCents:       p.AmountCents,
			DueDate:           p.DueDate,
			Status:            models.InstallmentPending,
		})
	}
	if len(installments) > 0 {
		if err := s.installmentRepo.CreateBatchTx(ctx, tx, installments); err != nil {
			return nil, fmt.Errorf("persist installments: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit settlement: %w", err)
	}

	// Completed: invalidate cached product rows whose stock changed and
	// the day's register summary.
	s.invalidateAfterSale(ctx, storeID, lines, sale.CreatedAt)

	result := &SettleResult{
		State:        StateCompleted,
		Sale:         sale,
		Installments: installments,
		ChangeCents:  changeCents,
		Receipt:      s.buildReceipt(ctx, storeID, sale, lines, req.Tenders, changeCents),
	}
	return result, nil
}

func (s *checkoutService) computeChange(req *SettleRequest, finalCents int64) (int64, error) {
	if req.AmountReceivedCents == 0 {
		return 0, nil
	}
	tenders := req.Tenders.List()
	if len(tenders) != 1 || tenders[0].Method != models.PaymentCash {
		return 0, ErrCashOnlyChange
	}
	if req.AmountReceivedCents < finalCents {
		return 0, ErrInsufficientCash
	}
	return req.AmountReceivedCents - finalCents, nil
}

func (s *checkoutService) invalidateAfterSale(ctx context.Context, storeID uuid.UUID, lines []checkout.Line, soldAt time.Time) {
	if s.cacheSvc == nil {
		return
	}
	for _, line := range lines {
		if err := s.cacheSvc.DeleteProduct(ctx, storeID, line.ProductID); err != nil {
			log.Printf("WARN: failed to invalidate product cache %s: %v", line.ProductID, err)
		}
	}
	day := soldAt.Format("2006-01-02")
	if err := s.cacheSvc.DeleteDailySummary(ctx, storeID, day); err != nil {
		log.Printf("WARN: failed to invalidate daily summary cache %s: %v", day, err)
	}
}

func (s *checkoutService) buildReceipt(ctx context.Context, storeID uuid.UUID, sale *models.Sale, lines []checkout.Line, tenders *checkout.TenderList, changeCents int64) receipts.Snapshot {
	snapshot := receipts.Snapshot{
		SaleNumber:    sale.SaleNumber,
		CreatedAt:     sale.CreatedAt,
		SubtotalCents: sale.TotalCents,
		DiscountCents: sale.DiscountCents,
		FinalCents:    sale.FinalCents,
		PaymentMethod: sale.PaymentMethod,
		ChangeCents:   changeCents,
	}

	for _, line := range lines {
		snapshot.Items = append(snapshot.Items, receipts.Item{
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents(),
		})
	}
	if tenders.Count() > 1 {
		for _, t := range tenders.List() {
			snapshot.Payments = append(snapshot.Payments, receipts.Payment{
				Method:      t.Method,
				AmountCents: t.AmountCents,
			})
		}
	}

	s.fillStoreIdentity(ctx, storeID, &snapshot)
	return snapshot
}

// fillStoreIdentity decorates the receipt with the store header. Failures
// degrade to the generic fallback name; a receipt must never fail because
// the store record could not be read.
func (s *checkoutService) fillStoreIdentity(ctx context.Context, storeID uuid.UUID, snapshot *receipts.Snapshot) {
	var store *models.Store
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetStore(ctx, storeID); err == nil && cached != nil {
			store = cached
		}
	}
	if store == nil {
		loaded, err := s.storeRepo.GetByID(ctx, storeID)
		if err != nil {
			log.Printf("WARN: failed to load store %s for receipt: %v", storeID, err)
			return
		}
		store = loaded
		if s.cacheSvc != nil {
			if err := s.cacheSvc.SetStore(ctx, store, 10*time.Minute); err != nil {
				log.Printf("WARN: failed to cache store %s: %v", storeID, err)
			}
		}
	}

	snapshot.StoreName = store.Name
	snapshot.StoreCNPJ = common.SafeString(store.CNPJ)

	var parts []string
	for _, p := range []*string{store.Address, store.City, store.State} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	snapshot.StoreAddress = strings.Join(parts, " - ")
}

// ReceiptForSale rebuilds a receipt snapshot for an already-settled sale
// (re-print flow). Change is not reproducible after the fact and renders as
// zero.
func (s *checkoutService) ReceiptForSale(ctx context.Context, storeID, saleID uuid.UUID) (*receipts.Snapshot, error) {
	sale, err := s.saleRepo.GetByID(ctx, storeID, saleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("load sale: %w", err)
	}

	items, err := s.saleItemRepo.ListReceiptItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}

	snapshot := &receipts.Snapshot{
		SaleNumber:    sale.SaleNumber,
		CreatedAt:     sale.CreatedAt,
		SubtotalCents: sale.TotalCents,
		DiscountCents: sale.DiscountCents,
		FinalCents:    sale.FinalCents,
		PaymentMethod: sale.PaymentMethod,
	}
	for _, item := range items {
		snapshot.Items = append(snapshot.Items, receipts.Item{
			Name:           item.ProductName,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			SubtotalCents:  item.SubtotalCents,
		})
	}

	if sale.PaymentMethod == models.PaymentMultiple {
		payments, err := s.salePaymentRepo.ListBySale(ctx, saleID)
		if err != nil {
			return nil, fmt.Errorf("load sale payments: %w", err)
		}
		for _, p := range payments {
			snapshot.Payments = append(snapshot.Payments, receipts.Payment{
				Method:      p.PaymentMethod,
				AmountCents: p.AmountCents,
			})
		}
	}

	s.fillStoreIdentity(ctx, storeID, snapshot)
	return snapshot, nil
}
