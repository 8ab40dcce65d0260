// =============================================================================
// Proforma Generator - Tabular Data Source Reader
// =============================================================================
//
// This module reads the reference data tables (catalog, warehouses,
// destinations) from disk. Two physical formats are supported:
//
//   - XLSX : read with excelize; the first sheet is used
//   - CSV  : read with encoding/csv; the delimiter is sniffed from the
//            header line (comma, semicolon or tab)
//
// COLUMN NORMALIZATION:
//   The source files come from different hands and the header spellings
//   drift ("Descripcion", "Descripción", "Desc", ...). All header matching
//   happens once, at load time, against canonical column names:
//   headers are compared ignoring case, surrounding whitespace and Spanish
//   accents, and each canonical column carries a set of accepted aliases
//   (extensible from the configuration). Lookup logic above this layer only
//   ever sees canonical columns.
//
// ERROR MODEL:
//   - ErrSourceUnavailable : the file is missing or unreadable
//   - *SchemaError         : the file loaded but required columns are absent
//
// =============================================================================

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrSourceUnavailable marks a data source whose file could not be read at
// all. Callers distinguish this from a key miss: an unavailable catalog
// degrades resolution to manual pricing, a missing key is a hard error.
var ErrSourceUnavailable = errors.New("data source unavailable")

// ErrNotFound marks a lookup key with no matching row in a loaded source.
var ErrNotFound = errors.New("entry not found")

// SchemaError reports a source file that loaded but is missing required
// columns after alias normalization.
type SchemaError struct {
	// Source is the file the schema was read from.
	Source string

	// Missing lists the canonical names of the absent columns.
	Missing []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing columns: %s", filepath.Base(e.Source), strings.Join(e.Missing, ", "))
}

// =============================================================================
// TABLE STRUCTURE
// =============================================================================

// table is a loaded data source with canonical column resolution applied.
type table struct {
	// source is the path the table was loaded from.
	source string

	// rows holds the data rows (header excluded), raw cell strings.
	rows [][]string

	// columns maps canonical column name -> cell index.
	columns map[string]int
}

// cell returns the trimmed value of the named canonical column in a row,
// or "" when the row is short.
func (t *table) cell(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// =============================================================================
// LOADING
// =============================================================================

// loadTable reads a data source and resolves its header against the
// required canonical columns.
//
// aliases merges the built-in alias table for this source with any extra
// aliases from the configuration (canonical name -> accepted spellings).
func loadTable(path string, required []string, aliases map[string][]string) (*table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, path)
	}

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrSourceUnavailable, path)
	}

	t := &table{
		source:  path,
		rows:    records[1:],
		columns: make(map[string]int),
	}

	// Resolve the header row once. Every canonical column matches its own
	// name plus any alias, accent- and case-insensitively.
	header := records[0]
	for _, canonical := range required {
		idx := findColumn(header, canonical, aliases[canonical])
		if idx >= 0 {
			t.columns[canonical] = idx
		}
	}

	var missing []string
	for _, canonical := range required {
		if _, ok := t.columns[canonical]; !ok {
			missing = append(missing, canonical)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: path, Missing: missing}
	}

	return t, nil
}

// readXLSX reads all rows of the first sheet of an XLSX file.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return rows, nil
}

// readCSV reads a CSV file, sniffing the delimiter from the first line.
func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = sniffDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return records, nil
}

// sniffDelimiter picks the delimiter that occurs most often in the first
// line. Exported ERP dumps use ';' as often as ','.
func sniffDelimiter(data string) rune {
	line := data
	if i := strings.IndexAny(data, "\r\n"); i >= 0 {
		line = data[:i]
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if c := strings.Count(line, string(cand)); c > bestCount {
			best, bestCount = cand, c
		}
	}
	return best
}

// =============================================================================
// HEADER MATCHING
// =============================================================================

// accentFolder maps the accented characters seen in the source headers to
// their plain forms.
var accentFolder = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

// foldHeader normalizes a header cell for comparison: trimmed, lowercased,
// accents folded, inner spaces and separators dropped.
func foldHeader(s string) string {
	s = accentFolder.Replace(strings.TrimSpace(s))
	s = strings.ToLower(s)
	for _, sep := range []string{" ", "/", "_", "-", "."} {
		s = strings.ReplaceAll(s, sep, "")
	}
	return s
}

// findColumn returns the index of the header cell matching the canonical
// name or any of its aliases, or -1.
func findColumn(header []string, canonical string, aliases []string) int {
	accepted := map[string]bool{foldHeader(canonical): true}
	for _, a := range aliases {
		accepted[foldHeader(a)] = true
	}

	for i, cell := range header {
		if accepted[foldHeader(cell)] {
			return i
		}
	}
	return -1
}
