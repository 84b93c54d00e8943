package receipts

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF produces an A4 PDF version of the receipt.
func RenderPDF(s Snapshot) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	name := s.StoreName
	if name == "" {
		name = FallbackStoreName
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.CellFormat(0, 10, tr(name), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	if s.StoreAddress != "" {
		pdf.CellFormat(0, 6, tr(s.StoreAddress), "", 1, "C", false, 0, "")
	}
	if s.StoreCNPJ != "" {
		pdf.CellFormat(0, 6, "CNPJ: "+s.StoreCNPJ, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Venda #%d - %s", s.SaleNumber, s.CreatedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Produto", "Qtd", "Unit.", "Subtotal"}
	colWidths := []float64{80, 20, 35, 35}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range s.Items {
		pdf.CellFormat(colWidths[0], 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, FormatCents(item.UnitPriceCents), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, FormatCents(item.SubtotalCents), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	totalWidth := colWidths[0] + colWidths[1] + colWidths[2]
	pdf.CellFormat(totalWidth, 7, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 7, FormatCents(s.SubtotalCents), "", 1, "R", false, 0, "")
	if s.DiscountCents > 0 {
		pdf.CellFormat(totalWidth, 7, "Desconto:", "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 7, "-"+FormatCents(s.DiscountCents), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(totalWidth, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, FormatCents(s.FinalCents), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	if len(s.Payments) > 1 {
		pdf.CellFormat(0, 6, "Formas de Pagamento:", "", 1, "L", false, 0, "")
		for _, p := range s.Payments {
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("  %s: %s", MethodLabel(p.Method), FormatCents(p.AmountCents))), "", 1, "L", false, 0, "")
		}
	} else {
		pdf.CellFormat(0, 6, tr("Pagamento: "+MethodLabel(s.PaymentMethod)), "", 1, "L", false, 0, "")
	}
	if s.ChangeCents > 0 {
		pdf.CellFormat(0, 6, "Troco: "+FormatCents(s.ChangeCents), "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 5, tr("Obrigado pela preferência!"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Volte sempre!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
