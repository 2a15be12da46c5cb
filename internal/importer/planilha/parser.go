// Package planilha reads stock spreadsheets exported as CSV.
package planilha

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/cestas/internal/encoding"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

const defaultUnit = "un"

var dateLayouts = []string{"02/01/2006", time.DateOnly, "02-01-2006"}

// Parser turns a stock spreadsheet into item creation params. Both ";" and ","
// separated files are accepted, and the column layout is matched against the
// known profiles.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]item.CreateParams, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = separator(string(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching spreadsheet layout: expected at least %q and %q columns",
			profiles[0].NameCol, profiles[0].QuantityCol)
	}

	slog.Debug("parsing stock spreadsheet", "profile", profile.Name, "charset", charset)

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// separator picks ";" unless the first line only uses commas.
func separator(data string) rune {
	first, _, _ := strings.Cut(data, "\n")
	if !strings.Contains(first, ";") && strings.Contains(first, ",") {
		return ','
	}

	return ';'
}

type colIndex map[string]int

func (c colIndex) lookup(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[strings.ToLower(name)]; ok {
		return i
	}

	return -1
}

// detectProfile finds the first row whose headers satisfy a profile. Header
// matching ignores case and surrounding spaces.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if _, seen := cols[name]; name != "" && !seen {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if cols.lookup(name) < 0 {
			return false
		}
	}

	return true
}

// parseRows converts data rows. Rows missing a name or a quantity are skipped
// as blank or footer lines; a malformed cell fails the whole import.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]item.CreateParams, error) {
	var (
		nameIdx     = cols.lookup(p.NameCol)
		quantityIdx = cols.lookup(p.QuantityCol)
		minIdx      = cols.lookup(p.MinCol)
		unitIdx     = cols.lookup(p.UnitCol)
		priceIdx    = cols.lookup(p.PriceCol)
		dateIdx     = cols.lookup(p.DateCol)
		categoryIdx = cols.lookup(p.CategoryCol)
	)

	var out []item.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		name := cellValue(row, nameIdx)
		quantity := cellValue(row, quantityIdx)

		if name == "" || quantity == "" {
			continue
		}

		params := item.CreateParams{Name: name, Unit: defaultUnit}

		q, err := parseQuantity(quantity)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if q < 0 {
			return nil, fmt.Errorf("row %d: negative quantity", rowNum)
		}

		params.Quantity = q

		if s := cellValue(row, minIdx); s != "" {
			if params.MinQuantity, err = parseQuantity(s); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		if s := cellValue(row, unitIdx); s != "" {
			params.Unit = s
		}

		if s := cellValue(row, priceIdx); s != "" {
			if params.UnitPrice, err = parseAmount(s); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		if s := cellValue(row, dateIdx); s != "" {
			d, ok := parseDate(s)
			if !ok {
				return nil, fmt.Errorf("row %d: invalid date %q", rowNum, s)
			}

			params.LastPurchaseDate = d
		}

		if s := cellValue(row, categoryIdx); s != "" {
			params.Category = new(s)
		}

		out = append(out, params)
	}

	return out, nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
