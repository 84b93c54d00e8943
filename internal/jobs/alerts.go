package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"mercadopos/internal/repositories"
)

const defaultLowStockThreshold = 10

// AlertService runs the periodic store health checks: products running out
// of stock and installments past their due date.
type AlertService struct {
	productRepo     repositories.ProductRepository
	installmentRepo repositories.InstallmentRepository
	storeRepo       repositories.StoreRepository
}

type LowStockAlert struct {
	StoreID      uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	CurrentStock int
	Threshold    int
}

type OverdueAlert struct {
	StoreID           uuid.UUID
	SaleID            uuid.UUID
	InstallmentID     uuid.UUID
	InstallmentNumber int
	AmountCents       int64
	DueDate           time.Time
}

func NewAlertService(productRepo repositories.ProductRepository, installmentRepo repositories.InstallmentRepository, storeRepo repositories.StoreRepository) *AlertService {
	return &AlertService{
		productRepo:     productRepo,
		installmentRepo: installmentRepo,
		storeRepo:       storeRepo,
	}
}

func (a *AlertService) CheckLowStock(ctx context.Context, storeID uuid.UUID, threshold int) ([]LowStockAlert, error) {
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}

	products, err := a.productRepo.ListLowStock(ctx, storeID, threshold)
	if err != nil {
		log.Printf("Failed to list low stock products for store %s: %v", storeID, err)
		return nil, err
	}

	alerts := make([]LowStockAlert, 0, len(products))
	for _, p := range products {
		alerts = append(alerts, LowStockAlert{
			StoreID:      storeID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.StockQuantity,
			Threshold:    threshold,
		})
	}
	return alerts, nil
}

func (a *AlertService) CheckOverdueInstallments(ctx context.Context, storeID uuid.UUID) ([]OverdueAlert, error) {
	installments, err := a.installmentRepo.ListOverdue(ctx, storeID, time.Now())
	if err != nil {
		log.Printf("Failed to list overdue installments for store %s: %v", storeID, err)
		return nil, err
	}

	alerts := make([]OverdueAlert, 0, len(installments))
	for _, inst := range installments {
		alerts = append(alerts, OverdueAlert{
			StoreID:           storeID,
			SaleID:            inst.SaleID,
			InstallmentID:     inst.ID,
			InstallmentNumber: inst.InstallmentNumber,
			AmountCents:       inst.AmountCents,
			DueDate:           inst.DueDate,
		})
	}
	return alerts, nil
}

// RunLowStockSweep checks every store for products at or under the default
// threshold and logs the findings. Failures on one store do not stop the
// sweep.
func (a *AlertService) RunLowStockSweep(ctx context.Context) error {
	storeIDs, err := a.storeRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("Failed to list stores for low stock sweep: %v", err)
		return err
	}

	for _, storeID := range storeIDs {
		alerts, err := a.CheckLowStock(ctx, storeID, defaultLowStockThreshold)
		if err != nil {
			continue
		}
		for _, alert := range alerts {
			log.Printf("Low stock: store %s product '%s' has %d units (threshold %d)",
				alert.StoreID, alert.ProductName, alert.CurrentStock, alert.Threshold)
		}
	}
	return nil
}

// RunOverdueSweep checks every store for pending installments past their
// due date and logs the findings.
func (a *AlertService) RunOverdueSweep(ctx context.Context) error {
	storeIDs, err := a.storeRepo.ListIDs(ctx)
	if err != nil {
		log.Printf("Failed to list stores for overdue sweep: %v", err)
		return err
	}

	for _, storeID := range storeIDs {
		alerts, err := a.CheckOverdueInstallments(ctx, storeID)
		if err != nil {
			continue
		}
		for _, alert := range alerts {
			log.Printf("Overdue installment: store %s sale %s installment %d of %d cents, due %s",
				alert.StoreID, alert.SaleID, alert.InstallmentNumber, alert.AmountCents,
				alert.DueDate.Format("2006-01-02"))
		}
	}
	return nil
}
