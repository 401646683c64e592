// Package receipt renders the printable documents of the point of sale: the
// sale voucher and the per-product sales report.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/go-pdf/fpdf"
)

// Header is printed at the top of every document.
type Header struct {
	StoreName string
	Location  *time.Location
}

func (h Header) location() *time.Location {
	if h.Location == nil {
		return time.UTC
	}
	return h.Location
}

func newDocument(h Header, title string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, h.StoreName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return pdf
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var voucherCols = []struct {
	title string
	width float64
	align string
}{
	{"Product", 90, "L"},
	{"Qty", 20, "R"},
	{"Price", 35, "R"},
	{"Subtotal", 35, "R"},
}

// RenderSaleVoucher lists every detail of the sale with its subtotal and the
// sale total.
func RenderSaleVoucher(h Header, sale *model.Sale, details []model.SaleDetail) ([]byte, error) {
	pdf := newDocument(h, "Sale voucher")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Sale: "+sale.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+sale.DateSale.In(h.location()).Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice: %s   Payment: %s", sale.InvoiceType, sale.PaymentType), "", 1, "L", false, 0, "")
	if sale.Annulled {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "ANNULLED", "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	for _, col := range voucherCols {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, d := range details {
		name := d.ProductName
		if name == "" {
			name = d.ProductID
		}
		values := []string{
			tr(name),
			fmt.Sprintf("%d", d.Count),
			d.PriceSale.StringFixed(2),
			d.Subtotal().StringFixed(2),
		}
		for i, col := range voucherCols {
			pdf.CellFormat(col.width, 7, values[i], "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(145, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, model.SaleTotal(details).StringFixed(2), "1", 1, "R", false, 0, "")

	return output(pdf)
}

// RenderProductReport prints the product card with its sales of the current
// month.
func RenderProductReport(h Header, p *model.Product, monthly *model.MonthlySales) ([]byte, error) {
	pdf := newDocument(h, "Product report")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	rows := [][2]string{
		{"Barcode", p.Barcode},
		{"Name", tr(p.Name)},
		{"Brand", tr(p.Brand)},
		{"Purchase price", p.PricePurchase.StringFixed(3)},
		{"Sale price", p.PriceSale.StringFixed(2)},
		{"Stock", fmt.Sprintf("%d", p.Stok)},
		{"Units sold", fmt.Sprintf("%d", p.NumSales)},
	}
	if monthly != nil {
		rows = append(rows,
			[2]string{"Units sold this month", fmt.Sprintf("%d", monthly.Count)},
			[2]string{"Sales this month", monthly.Total.StringFixed(2)},
		)
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(120, 7, row[1], "1", 1, "L", false, 0, "")
	}
	if p.Description != "" {
		pdf.Ln(4)
		pdf.MultiCell(180, 6, tr(p.Description), "", "L", false)
	}

	return output(pdf)
}
