// Package pdf renders the printable budget document handed to clients.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/pbaptista/orcamentos/internal/models"
	"github.com/pbaptista/orcamentos/internal/normalize"
)

const (
	pageWidth  = 210.0
	marginLeft = 15.0
	rightEdge  = 195.0

	colDesc  = 90.0
	colQty   = 25.0
	colUnit  = 30.0
	colTotal = 35.0
)

// Budget renders one budget as an A4 PDF. Company identity, footer text,
// and payment methods come from the settings; missing settings fall back to
// neutral defaults so rendering never blocks on configuration.
func Budget(b *models.Budget, s *models.Settings) ([]byte, error) {
	if s == nil {
		s = &models.Settings{}
	}
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("") // pt-BR accents via cp1252
	doc.SetMargins(marginLeft, 15, 15)
	doc.SetAutoPageBreak(true, 20)
	doc.AliasNbPages("")

	doc.SetHeaderFunc(func() { header(doc, tr, b, s) })
	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(150, 150, 150)
		doc.CellFormat(0, 10, fmt.Sprintf("Página %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	doc.AddPage()
	doc.Ln(5)
	itemsTable(doc, tr, b.Items)
	doc.Ln(8)
	if doc.GetY() > 250 {
		doc.AddPage()
	}
	totalBox(doc, tr, b.GrandTotal)
	footerBlock(doc, tr, s)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render budget pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func header(doc *gofpdf.Fpdf, tr func(string) string, b *models.Budget, s *models.Settings) {
	// accent bar across the top
	doc.SetFillColor(55, 65, 81)
	doc.Rect(0, 0, pageWidth, 5, "F")
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 28)
	doc.SetTextColor(220, 220, 220)
	doc.CellFormat(0, 10, tr("ORÇAMENTO"), "", 1, "R", false, 0, "")

	if s.LogoPath != "" {
		if _, err := os.Stat(s.LogoPath); err == nil {
			doc.ImageOptions(s.LogoPath, marginLeft, 7, 24, 0, false, gofpdf.ImageOptions{}, 0, "")
			doc.SetY(33)
		} else {
			doc.SetY(25)
		}
	} else {
		doc.SetY(25)
	}

	company := s.CompanyName
	if company == "" {
		company = "Minha Empresa"
	}
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(100, 7, tr(company), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(80, 80, 80)
	if s.LegalName != "" {
		doc.CellFormat(100, 5, tr(s.LegalName), "", 1, "L", false, 0, "")
	}
	if s.CNPJ != "" {
		doc.CellFormat(100, 5, tr("CNPJ: "+s.CNPJ), "", 1, "L", false, 0, "")
	}
	if s.Address != "" {
		doc.CellFormat(100, 5, tr(s.Address), "", 1, "L", false, 0, "")
	}
	if s.Phone != "" {
		doc.CellFormat(100, 5, tr("Tel: "+s.Phone), "", 1, "L", false, 0, "")
	}

	// number and date block on the right
	const yPos = 38.0
	doc.SetXY(110, yPos)
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(30, 6, tr("Número:"), "", 0, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(50, 6, fmt.Sprintf("#%04d", b.ID), "", 1, "R", false, 0, "")
	doc.SetXY(110, yPos+6)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(30, 6, "Data:", "", 0, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(50, 6, b.CreatedDate, "", 1, "R", false, 0, "")
	doc.Ln(15)

	doc.SetDrawColor(200, 200, 200)
	doc.Line(marginLeft, doc.GetY(), rightEdge, doc.GetY())
	doc.Ln(5)

	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 6, "PREPARADO PARA:", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(0, 0, 0)
	doc.CellFormat(0, 7, tr(b.ClientName), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(80, 80, 80)
	var contact []string
	if b.Email != "" {
		contact = append(contact, b.Email)
	}
	if b.Phone != "" {
		contact = append(contact, b.Phone)
	}
	if len(contact) > 0 {
		doc.CellFormat(0, 5, tr(strings.Join(contact, " | ")), "", 1, "L", false, 0, "")
	}
	if b.Address != "" {
		doc.CellFormat(0, 5, tr(b.Address), "", 1, "L", false, 0, "")
	}
	doc.Ln(10)
}

func itemsTable(doc *gofpdf.Fpdf, tr func(string) string, items []models.BudgetItem) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(50, 50, 50)
	doc.SetDrawColor(50, 50, 50)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(colDesc, 9, tr("  DESCRIÇÃO / SERVIÇO"), "1", 0, "L", true, 0, "")
	doc.CellFormat(colQty, 9, "QTD", "1", 0, "C", true, 0, "")
	doc.CellFormat(colUnit, 9, tr("UNITÁRIO"), "1", 0, "R", true, 0, "")
	doc.CellFormat(colTotal, 9, "TOTAL  ", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(220, 220, 220)

	for i := range items {
		it := &items[i]
		desc := it.Description
		if it.Note != "" {
			desc += "\n(Obs: " + it.Note + ")"
		}
		fill := i%2 == 1
		if fill {
			doc.SetFillColor(248, 248, 248)
		} else {
			doc.SetFillColor(255, 255, 255)
		}

		x, y := doc.GetXY()
		doc.MultiCell(colDesc, 7, tr("  "+desc), "L", "L", fill)
		rowH := doc.GetY() - y

		doc.SetXY(x+colDesc, y)
		doc.CellFormat(colQty, rowH, trimFloat(it.Quantity), "", 0, "C", fill, 0, "")
		doc.CellFormat(colUnit, rowH, tr(normalize.FormatMoney(it.UnitPrice)), "", 0, "R", fill, 0, "")
		doc.CellFormat(colTotal, rowH, tr(normalize.FormatMoney(it.LineTotal)+"  "), "", 0, "R", fill, 0, "")

		doc.Line(marginLeft, y+rowH, rightEdge, y+rowH)
		doc.SetXY(x, y+rowH)
	}
}

func totalBox(doc *gofpdf.Fpdf, tr func(string) string, total float64) {
	const xTotal = 120.0
	wBox := rightEdge - xTotal
	doc.SetFillColor(235, 235, 235)
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.3)
	doc.SetX(xTotal)
	doc.Rect(xTotal, doc.GetY(), wBox, 12, "DF")
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(40, 12, "  TOTAL GERAL", "", 0, "L", false, 0, "")
	doc.CellFormat(wBox-40, 12, tr(normalize.FormatMoney(total)+"  "), "", 1, "R", false, 0, "")
	doc.SetLineWidth(0.2)
	doc.SetTextColor(0, 0, 0)
}

func footerBlock(doc *gofpdf.Fpdf, tr func(string) string, s *models.Settings) {
	var methods []string
	if s.PaymentPix {
		methods = append(methods, "Pix")
	}
	if s.PaymentCredit {
		methods = append(methods, "Cartão de Crédito")
	}
	if s.PaymentDebit {
		methods = append(methods, "Cartão de Débito")
	}
	if s.PaymentCash {
		methods = append(methods, "Dinheiro")
	}
	if len(methods) > 0 {
		doc.Ln(10)
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(60, 60, 60)
		doc.CellFormat(0, 5, tr("Formas de pagamento: "+strings.Join(methods, ", ")), "", 1, "L", false, 0, "")
	}
	if s.FooterText != "" {
		doc.SetY(-35)
		doc.SetDrawColor(200, 200, 200)
		doc.Line(marginLeft, doc.GetY()-2, rightEdge, doc.GetY()-2)
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(60, 60, 60)
		doc.MultiCell(0, 5, tr(s.FooterText), "", "C", false)
	}
}

// trimFloat renders quantities without trailing decimal noise (2 not 2.00,
// but 2.5 stays 2.5).
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
