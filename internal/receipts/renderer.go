package receipts

import (
	"fmt"
	"strings"
	"time"
)

const lineWidth = 40

// FallbackStoreName is printed when the sale's store has no configured
// identity.
const FallbackStoreName = "SISTEMA PDV"

// Item is one printed receipt line.
type Item struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// Payment is one tender printed on the receipt.
type Payment struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}

// Snapshot is everything the renderer needs about a finalized sale. It is
// assembled at settlement time and never re-reads the database.
type Snapshot struct {
	StoreName     string    `json:"store_name"`
	StoreAddress  string    `json:"store_address"`
	StoreCNPJ     string    `json:"store_cnpj"`
	SaleNumber    int64     `json:"sale_number"`
	CreatedAt     time.Time `json:"created_at"`
	Items         []Item    `json:"items"`
	SubtotalCents int64     `json:"subtotal_cents"`
	DiscountCents int64     `json:"discount_cents"`
	FinalCents    int64     `json:"final_cents"`
	PaymentMethod string    `json:"payment_method"`
	Payments      []Payment `json:"payments"`
	ChangeCents   int64     `json:"change_cents"`
}

// MethodLabel translates a payment method to its printed form.
func MethodLabel(method string) string {
	switch method {
	case "cash":
		return "Dinheiro"
	case "credit":
		return "Cartão de Crédito"
	case "debit":
		return "Cartão de Débito"
	case "pix":
		return "PIX"
	case "multiple":
		return "Múltiplo"
	}
	return method
}

// FormatCents renders integer cents as "R$ 12,34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}

func center(s string) string {
	if len(s) >= lineWidth {
		return s
	}
	pad := (lineWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func sides(left, right string) string {
	gap := lineWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func rule() string {
	return strings.Repeat("-", lineWidth)
}

// Render produces the fixed-width printable receipt. Pure function.
func Render(s Snapshot) string {
	var b strings.Builder

	name := s.StoreName
	if name == "" {
		name = FallbackStoreName
	}

	b.WriteString(center(name) + "\n")
	if s.StoreAddress != "" {
		b.WriteString(center(s.StoreAddress) + "\n")
	}
	if s.StoreCNPJ != "" {
		b.WriteString(center("CNPJ: "+s.StoreCNPJ) + "\n")
	}
	b.WriteString(center(fmt.Sprintf("Venda #%d", s.SaleNumber)) + "\n")
	b.WriteString(center(s.CreatedAt.Format("02/01/2006 15:04")) + "\n")
	b.WriteString(rule() + "\n")

	for _, item := range s.Items {
		b.WriteString(item.Name + "\n")
		detail := fmt.Sprintf("%d x %s", item.Quantity, FormatCents(item.UnitPriceCents))
		b.WriteString(sides("  "+detail, FormatCents(item.SubtotalCents)) + "\n")
	}
	b.WriteString(rule() + "\n")

	b.WriteString(sides("Subtotal:", FormatCents(s.SubtotalCents)) + "\n")
	if s.DiscountCents > 0 {
		b.WriteString(sides("Desconto:", "-"+FormatCents(s.DiscountCents)) + "\n")
	}
	b.WriteString(sides("TOTAL:", FormatCents(s.FinalCents)) + "\n")
	b.WriteString(rule() + "\n")

	if len(s.Payments) > 1 {
		b.WriteString("Formas de Pagamento:\n")
		for _, p := range s.Payments {
			b.WriteString(sides("  "+MethodLabel(p.Method)+":", FormatCents(p.AmountCents)) + "\n")
		}
	} else {
		b.WriteString(sides("Pagamento:", MethodLabel(s.PaymentMethod)) + "\n")
	}
	if s.ChangeCents > 0 {
		b.WriteString(sides("Troco:", FormatCents(s.ChangeCents)) + "\n")
	}

	b.WriteString(rule() + "\n")
	b.WriteString(center("Obrigado pela preferência!") + "\n")
	b.WriteString(center("Volte sempre!") + "\n")

	return b.String()
}
