// =============================================================================
// Proforma Generator - PDF Document Writer
// =============================================================================
//
// This module draws the proforma invoice. Layout (landscape A4, millimeter
// units, 15 mm margins):
//
//   1. Header logo (optional), scaled to 22 mm height
//   2. Bordered disclaimer box with the fixed no-commercial-value line
//   3. Fixed sender block (Servicio POSTVENTA, Madrid)
//   4. DESTINO block on the right with the selected destination record
//   5. Proforma number line (the uppercased OA/SGR operation id)
//   6. Requester line
//   7. Line-item table: Referencia, Cantidad, Descripción, Precio/UD,
//      Importe/Euros, with a closing TOTAL € row. Amounts are shown with
//      two decimals; the underlying figures keep full precision.
//   8. Footer image (optional, 18 mm) and generation timestamp
//
// The table paginates: when a row would cross the bottom margin a new page
// is started and the column header is repeated.
//
// =============================================================================

package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/postventa-tools/proforma/internal/types"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	margin = 15.0 // page margin, mm

	logoMaxHeight   = 22.0
	footerMaxHeight = 18.0

	boxWidth  = 120.0
	boxHeight = 10.0

	lineSpacing = 5.2
	destSpacing = 6.0

	// Table column widths, mm: reference, quantity, description, unit
	// price, amount.
	colRefW    = 30.0
	colQtyW    = 22.0
	colDescW   = 110.0
	colPriceW  = 25.0
	colAmountW = 30.0

	rowHeight = 7.0
)

// disclaimer is the fixed no-commercial-value line shown inside the header
// box on every document.
const disclaimer = "Material gratuito sin valor comercial (Valor a precio estadístico)"

// senderLines is the fixed sender block.
var senderLines = []string{
	"Servicio POSTVENTA",
	"C/TITAN 15",
	"28045 - MADRID (ESPAÑA) CIF A28078202",
}

// =============================================================================
// DOCUMENT INPUT
// =============================================================================

// Document is the renderer input: a validated envelope plus its resolved
// lines. The renderer trusts it blindly; validation happened upstream.
type Document struct {
	Envelope types.OrderEnvelope
	Lines    []types.ResolvedLine
	Total    decimal.Decimal
}

// FileName derives the conventional output file name for an operation id:
// FacturaProforma_<OPERATION>.pdf. The id is expected to be normalized
// (uppercased) already.
func FileName(operationID string) string {
	return fmt.Sprintf("FacturaProforma_%s.pdf", operationID)
}

// =============================================================================
// RENDERER
// =============================================================================

// Options configures a Renderer.
type Options struct {
	// LogoPath is the header image. Skipped silently when unreadable.
	LogoPath string

	// FooterPath is the footer image. Skipped silently when unreadable.
	FooterPath string

	// Now supplies the generation timestamp. Defaults to time.Now; tests
	// pin it.
	Now func() time.Time
}

// Renderer draws proforma documents. A Renderer is stateless and safe for
// sequential reuse.
type Renderer struct {
	opts Options
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts Options) *Renderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{opts: opts}
}

// Render draws doc as a PDF and writes it to w.
func (r *Renderer) Render(doc *Document, w io.Writer) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(r.opts.Now())
	pdf.SetModificationDate(r.opts.Now())
	pdf.SetAutoPageBreak(false, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// 1) Header logo.
	y := margin
	if info := registerImage(pdf, r.opts.LogoPath); info != nil {
		h := logoMaxHeight
		wScaled := info.Width() * h / info.Height()
		pdf.ImageOptions(r.opts.LogoPath, margin, y, wScaled, h, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
		y += h + 4
	}

	// 2) Disclaimer box.
	boxTop := y + 2
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(margin, boxTop, boxWidth, boxHeight, "D")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(margin, boxTop+(boxHeight-4)/2)
	pdf.CellFormat(boxWidth, 4, tr(disclaimer), "", 0, "C", false, 0, "")

	// 3) Fixed sender block.
	textTop := boxTop + boxHeight + 8
	pdf.SetFont("Helvetica", "", 10)
	for i, line := range senderLines {
		pdf.SetXY(margin, textTop+float64(i)*lineSpacing)
		pdf.CellFormat(boxWidth, lineSpacing, tr(line), "", 0, "L", false, 0, "")
	}

	// 4) DESTINO block, right side.
	r.drawDestination(pdf, tr, pageW, doc.Envelope.Destination)

	// 5) Proforma number.
	opY := textTop + float64(len(senderLines))*lineSpacing + 6
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(margin, opY)
	pdf.CellFormat(0, 6, tr("NUMERO DE FACTURA PROFORMA: "+doc.Envelope.OperationID), "", 0, "L", false, 0, "")

	// 6) Requester line.
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin, opY+6)
	pdf.CellFormat(0, 5, tr(requesterLine(doc.Envelope)), "", 0, "L", false, 0, "")

	// 7) Line-item table.
	tableTop := opY + 16
	r.drawTable(pdf, tr, doc, tableTop, pageH)

	// 8) Footer image and timestamp, on the last page.
	if info := registerImage(pdf, r.opts.FooterPath); info != nil {
		h := footerMaxHeight
		wScaled := info.Width() * h / info.Height()
		pdf.ImageOptions(r.opts.FooterPath, margin, pageH-margin-h, wScaled, h, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	}
	pdf.SetFont("Helvetica", "I", 8)
	stamp := fmt.Sprintf("Generado el %s", r.opts.Now().Format("02/01/2006 15:04"))
	pdf.SetXY(pageW-margin-60, pageH-margin-4)
	pdf.CellFormat(60, 4, tr(stamp), "", 0, "R", false, 0, "")

	if pdf.Err() {
		return fmt.Errorf("pdf generation failed: %w", pdf.Error())
	}
	return pdf.Output(w)
}

// =============================================================================
// DRAWING HELPERS
// =============================================================================

// drawDestination draws the DESTINO block anchored to the right margin.
func (r *Renderer) drawDestination(pdf *fpdf.Fpdf, tr func(string) string, pageW float64, dest *types.Destination) {
	if dest == nil {
		return
	}

	x := pageW - margin - 110
	y := margin + 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x, y)
	pdf.CellFormat(110, 6, "DESTINO", "", 0, "L", false, 0, "")

	lines := []string{
		dest.Name,
		dest.Address,
		trimJoin(dest.PostalCode, dest.City),
		dest.Country,
	}
	if dest.TaxID != "" {
		lines = append(lines, "CIF: "+dest.TaxID)
	}

	pdf.SetFont("Helvetica", "", 10)
	row := 1
	for _, line := range lines {
		if line == "" {
			continue
		}
		pdf.SetXY(x, y+destSpacing*float64(row))
		pdf.CellFormat(110, destSpacing, tr(line), "", 0, "L", false, 0, "")
		row++
	}
}

// drawTable draws the line-item table with pagination and the TOTAL row.
func (r *Renderer) drawTable(pdf *fpdf.Fpdf, tr func(string) string, doc *Document, top, pageH float64) {
	y := top
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(211, 211, 211)
		pdf.SetXY(margin, y)
		pdf.CellFormat(colRefW, rowHeight, "Referencia", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colQtyW, rowHeight, "Cantidad", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colDescW, rowHeight, tr("Descripción"), "1", 0, "L", true, 0, "")
		pdf.CellFormat(colPriceW, rowHeight, "Precio/UD", "1", 0, "R", true, 0, "")
		pdf.CellFormat(colAmountW, rowHeight, "Importe/Euros", "1", 0, "R", true, 0, "")
		y += rowHeight
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range doc.Lines {
		if y+rowHeight > pageH-margin-footerMaxHeight {
			pdf.AddPage()
			y = margin
			drawHeader()
			pdf.SetFont("Helvetica", "", 9)
		}

		pdf.SetXY(margin, y)
		pdf.CellFormat(colRefW, rowHeight, tr(line.Reference), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQtyW, rowHeight, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colDescW, rowHeight, tr(line.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colPriceW, rowHeight, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colAmountW, rowHeight, line.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		y += rowHeight
	}

	// Totals row. Display rounding only: the total was accumulated at full
	// precision upstream.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(margin+colRefW+colQtyW+colDescW, y)
	pdf.CellFormat(colPriceW, rowHeight, tr("TOTAL €"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(colAmountW, rowHeight, doc.Total.StringFixed(2), "1", 0, "R", false, 0, "")
}

// requesterLine builds the one-line requester summary under the proforma
// number.
func requesterLine(env types.OrderEnvelope) string {
	text := "Solicitante: " + env.RequesterKind.Label()
	switch env.RequesterKind {
	case types.RequesterWarehouse:
		if env.WarehouseCode != "" {
			text += fmt.Sprintf(" · Almacén %s (%s)", env.WarehouseCode, env.WarehouseDescription)
		}
	case types.RequesterSupplier:
		if env.SupplierName != "" {
			text += " · " + env.SupplierName
		}
	}
	return text
}

// registerImage registers an image with the document if the file exists and
// is drawable, returning its intrinsic size. Missing or broken artwork
// never fails a render.
func registerImage(pdf *fpdf.Fpdf, path string) *fpdf.ImageInfoType {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	info := pdf.RegisterImageOptions(path, fpdf.ImageOptions{ReadDpi: true})
	if pdf.Err() {
		// Unreadable artwork: clear the error and continue without it.
		pdf.ClearError()
		return nil
	}
	return info
}

// trimJoin joins two optional fragments with a space, skipping blanks.
func trimJoin(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
