package planilha

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a spreadsheet money cell. Brazilian formatting is
// assumed when a comma is present: "R$ 1.234,56" -> 1234.56, "7,25" -> 7.25.
// Plain "7.25" is read as a dot-decimal number.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "R$")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, "\u00a0", "")

	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	return d.Round(2), nil
}

// parseQuantity reads a whole number in Brazilian notation, where "." only
// groups thousands: "1.200" -> 1200. A zero decimal part ("30,0") is accepted.
func parseQuantity(s string) (int, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}

	if !d.IsInteger() {
		return 0, fmt.Errorf("quantity %q is not a whole number", s)
	}

	return int(d.IntPart()), nil
}
