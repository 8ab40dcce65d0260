package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postventa-tools/proforma/internal/types"
)

func testDocument(lineCount int) *Document {
	price := decimal.NewFromFloat(12.5)

	lines := make([]types.ResolvedLine, 0, lineCount)
	total := decimal.Zero
	for i := 0; i < lineCount; i++ {
		amount := price.Mul(decimal.NewFromInt(2))
		lines = append(lines, types.ResolvedLine{
			Reference:   fmt.Sprintf("REF-%04d", i+1),
			Quantity:    2,
			Description: "Filtro de aceite",
			UnitPrice:   price,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	return &Document{
		Envelope: types.OrderEnvelope{
			OperationID:   "OA123456",
			RequesterKind: types.RequesterCentral,
			Destination: &types.Destination{
				Name:       "Central Madrid",
				Address:    "C/ Titán 15",
				PostalCode: "28045",
				City:       "Madrid",
				Country:    "España",
				TaxID:      "A28078202",
			},
		},
		Lines: lines,
		Total: total,
	}
}

func pinnedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	}
}

func render(t *testing.T, doc *Document) []byte {
	t.Helper()

	var buf bytes.Buffer
	r := NewRenderer(Options{Now: pinnedClock()})
	require.NoError(t, r.Render(doc, &buf))
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	out := render(t, testDocument(3))

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output must start with the PDF magic")
	assert.Contains(t, string(out), "%%EOF")
	assert.Greater(t, len(out), 1000)
}

func TestRenderSinglePage(t *testing.T) {
	out := render(t, testDocument(3))
	assert.Equal(t, 1, pageCount(t, out))
}

func TestRenderPaginatesLongTables(t *testing.T) {
	out := render(t, testDocument(120))

	// The page tree count reflects pagination: 120 rows cannot fit one
	// landscape A4 page.
	count := pageCount(t, out)
	assert.Greater(t, count, 1)
	assert.Equal(t, 1, pageCount(t, render(t, testDocument(3))))
}

// pageCount reads the /Count entry of the PDF page tree. The pages
// dictionary is written uncompressed by the generator.
func pageCount(t *testing.T, out []byte) int {
	t.Helper()

	m := regexp.MustCompile(`/Count (\d+)`).FindSubmatch(out)
	require.NotNil(t, m, "page tree /Count entry not found")
	n, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	return n
}

func TestRenderWithoutDestinationStillDraws(t *testing.T) {
	doc := testDocument(1)
	doc.Envelope.Destination = nil

	out := render(t, doc)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderMissingArtworkIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(Options{
		LogoPath:   "testdata/no-such-logo.png",
		FooterPath: "testdata/no-such-footer.png",
		Now:        pinnedClock(),
	})
	require.NoError(t, r.Render(testDocument(1), &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := testDocument(5)
	first := render(t, doc)
	second := render(t, doc)
	assert.Equal(t, first, second)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "FacturaProforma_OA123456.pdf", FileName("OA123456"))
	assert.Equal(t, "FacturaProforma_SGR42.pdf", FileName("SGR42"))
}

func TestRequesterLine(t *testing.T) {
	env := types.OrderEnvelope{
		RequesterKind:        types.RequesterWarehouse,
		WarehouseCode:        "0042",
		WarehouseDescription: "Taller Valencia",
	}
	assert.Equal(t, "Solicitante: BO/Taller · Almacén 0042 (Taller Valencia)", requesterLine(env))

	env = types.OrderEnvelope{RequesterKind: types.RequesterSupplier, SupplierName: "Recambios Sur"}
	assert.Equal(t, "Solicitante: Proveedor · Recambios Sur", requesterLine(env))

	env = types.OrderEnvelope{RequesterKind: types.RequesterCentral}
	assert.Equal(t, "Solicitante: Almacén Central", requesterLine(env))
}

func TestTrimJoin(t *testing.T) {
	assert.Equal(t, "28045 Madrid", trimJoin("28045", "Madrid"))
	assert.Equal(t, "Madrid", trimJoin("", "Madrid"))
	assert.Equal(t, "28045", trimJoin("28045", ""))
	assert.Equal(t, "", trimJoin("", ""))
}
