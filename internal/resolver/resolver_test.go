package resolver

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postventa-tools/proforma/internal/types"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type fakeCatalogEntry struct {
	description string
	price       *decimal.Decimal
}

// fakeCatalog implements CatalogLookup over a plain map.
type fakeCatalog map[string]fakeCatalogEntry

func (f fakeCatalog) Lookup(reference string) (string, *decimal.Decimal, bool) {
	entry, ok := f[types.NormalizeKey(reference)]
	if !ok {
		return "", nil, false
	}
	return entry.description, entry.price, true
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func testCatalog(t *testing.T) fakeCatalog {
	return fakeCatalog{
		"REF-1": {description: "Filtro de aceite", price: decPtr(t, "12.50")},
		"REF-2": {description: "Correa", price: decPtr(t, "0.333")},
		"NOPRICE": {description: "Pieza sin precio", price: nil},
	}
}

// =============================================================================
// LINE RESOLUTION
// =============================================================================

func TestResolveCatalogLine(t *testing.T) {
	lines := []types.RawLine{{Reference: "REF-1", Quantity: 3}}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.Equal(t, "REF-1", resolved[0].Reference)
	assert.Equal(t, 3, resolved[0].Quantity)
	assert.Equal(t, "Filtro de aceite", resolved[0].Description)
	assert.True(t, resolved[0].UnitPrice.Equal(dec(t, "12.50")))
	assert.True(t, resolved[0].Amount.Equal(dec(t, "37.50")))
}

func TestResolveNormalizesReference(t *testing.T) {
	// Trimmed and case-folded against the catalog key.
	lines := []types.RawLine{{Reference: "  ref-1 ", Quantity: 1}}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.Equal(t, "ref-1", resolved[0].Reference)
	assert.Equal(t, "Filtro de aceite", resolved[0].Description)
}

func TestManualOverridesWin(t *testing.T) {
	lines := []types.RawLine{{
		Reference:         "REF-1",
		Quantity:          2,
		ManualDescription: "Descripción corregida",
		ManualUnitPrice:   decPtr(t, "9.99"),
	}}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Descripción corregida", resolved[0].Description)
	assert.True(t, resolved[0].UnitPrice.Equal(dec(t, "9.99")))
	assert.True(t, resolved[0].Amount.Equal(dec(t, "19.98")))
}

func TestUnknownReferenceInLoadedCatalog(t *testing.T) {
	lines := []types.RawLine{{Reference: "MISSING", Quantity: 1}}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	assert.Empty(t, resolved)
	require.Len(t, errs, 2) // membership + unresolved price
	require.NotNil(t, errs[0].Line)
	assert.Equal(t, 1, *errs[0].Line)
	assert.Equal(t, "reference", errs[0].Field)
	assert.Contains(t, errs[0].Message, "MISSING")
}

func TestUnknownReferenceWithManualPrice(t *testing.T) {
	lines := []types.RawLine{{
		Reference:       "MISSING",
		Quantity:        2,
		ManualUnitPrice: decPtr(t, "5.00"),
	}}

	// Default policy: a manual price makes an uncataloged line acceptable.
	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})
	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Amount.Equal(dec(t, "10.00")))

	// Strict policy: still rejected.
	resolved, errs = ResolveLines(lines, testCatalog(t), Policy{StrictCatalogMembership: true})
	assert.Empty(t, resolved)
	require.Len(t, errs, 1)
	assert.Equal(t, "reference", errs[0].Field)
}

func TestNoCatalogDegradesToManualPricing(t *testing.T) {
	lines := []types.RawLine{
		{Reference: "ANYTHING", Quantity: 1, ManualUnitPrice: decPtr(t, "3.00")},
		{Reference: "UNPRICED", Quantity: 1},
	}

	resolved, errs := ResolveLines(lines, nil, Policy{})

	// With no catalog, membership is never checked; only the missing
	// manual price on line 2 fails.
	require.Len(t, resolved, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, *errs[0].Line)
	assert.Equal(t, "price", errs[0].Field)
}

func TestBlankReferenceSkippedSilently(t *testing.T) {
	lines := []types.RawLine{
		{Reference: "", Quantity: 0},
		{Reference: "   ", Quantity: -5},
		{Reference: "REF-1", Quantity: 1},
	}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	// Blank rows never surface as output or errors, whatever their other
	// fields contain.
	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.Equal(t, "REF-1", resolved[0].Reference)
}

func TestQuantityMustBePositive(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		lines := []types.RawLine{{Reference: "REF-1", Quantity: qty}}

		resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

		assert.Empty(t, resolved, "qty %d", qty)
		require.Len(t, errs, 1, "qty %d", qty)
		assert.Equal(t, "quantity", errs[0].Field)
	}
}

func TestCatalogRowWithoutPriceNeedsManual(t *testing.T) {
	lines := []types.RawLine{{Reference: "NOPRICE", Quantity: 1}}
	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})
	assert.Empty(t, resolved)
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)

	lines[0].ManualUnitPrice = decPtr(t, "2.50")
	resolved, errs = ResolveLines(lines, testCatalog(t), Policy{})
	require.Empty(t, errs)
	require.Len(t, resolved, 1)
	assert.Equal(t, "Pieza sin precio", resolved[0].Description)
}

func TestNegativeManualPriceRejected(t *testing.T) {
	lines := []types.RawLine{{Reference: "REF-1", Quantity: 1, ManualUnitPrice: decPtr(t, "-1")}}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	assert.Empty(t, resolved)
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
}

func TestOutputPreservesInputOrder(t *testing.T) {
	lines := []types.RawLine{
		{Reference: "REF-2", Quantity: 1},
		{Reference: "", Quantity: 1},
		{Reference: "REF-1", Quantity: 1},
	}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})

	require.Empty(t, errs)
	require.Len(t, resolved, 2)
	assert.Equal(t, "REF-2", resolved[0].Reference)
	assert.Equal(t, "REF-1", resolved[1].Reference)
}

func TestResolutionIsIdempotent(t *testing.T) {
	lines := []types.RawLine{
		{Reference: "REF-1", Quantity: 2},
		{Reference: "REF-2", Quantity: 7},
		{Reference: "MISSING", Quantity: 1},
	}

	first, firstErrs := ResolveLines(lines, testCatalog(t), Policy{})
	second, secondErrs := ResolveLines(lines, testCatalog(t), Policy{})

	assert.Equal(t, first, second)
	assert.Equal(t, firstErrs, secondErrs)
}

// =============================================================================
// TOTALS AND ROUNDING
// =============================================================================

func TestNoCumulativeRoundingDrift(t *testing.T) {
	// 10,000 lines of 0.333 * 3 must total exactly 9990, with rounding
	// applied only to the displayed figure.
	lines := make([]types.RawLine, 10000)
	for i := range lines {
		lines[i] = types.RawLine{Reference: "REF-2", Quantity: 3}
	}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})
	require.Empty(t, errs)
	require.Len(t, resolved, 10000)

	total := Total(resolved)
	assert.True(t, total.Equal(dec(t, "9990")), "got %s", total)
	assert.Equal(t, "9990.00", total.StringFixed(2))
}

func TestTotalRoundsOnlyAtDisplay(t *testing.T) {
	// Three lines of 0.333: per-line two-decimal rounding would give
	// 0.99, full-precision accumulation gives 0.999 -> "1.00".
	lines := []types.RawLine{
		{Reference: "REF-2", Quantity: 1},
		{Reference: "REF-2", Quantity: 1},
		{Reference: "REF-2", Quantity: 1},
	}

	resolved, errs := ResolveLines(lines, testCatalog(t), Policy{})
	require.Empty(t, errs)

	total := Total(resolved)
	assert.True(t, total.Equal(dec(t, "0.999")))
	assert.Equal(t, "1.00", total.StringFixed(2))
}

func TestAllBlank(t *testing.T) {
	assert.True(t, AllBlank(nil))
	assert.True(t, AllBlank([]types.RawLine{{Reference: "  "}, {Reference: ""}}))
	assert.False(t, AllBlank([]types.RawLine{{Reference: ""}, {Reference: "X"}}))
}
