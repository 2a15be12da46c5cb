package basket

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("basket model not found")
	ErrInvalid  = errors.New("invalid basket model")
)

// Model is a named recipe of item lines.
type Model struct {
	ID    string
	Name  string
	Lines []Line
}

// Line references an item by id and the quantity one basket needs. The
// reference is weak: the item may no longer exist in stock.
type Line struct {
	ItemID   string
	Quantity int
}

// MergeLine adds line to lines, summing quantities when the item is already present.
func MergeLine(lines []Line, line Line) []Line {
	out := append([]Line(nil), lines...)

	for i := range out {
		if out[i].ItemID == line.ItemID {
			out[i].Quantity += line.Quantity
			return out
		}
	}

	return append(out, line)
}

// RemoveLine drops every line referencing itemID.
func RemoveLine(lines []Line, itemID string) []Line {
	out := make([]Line, 0, len(lines))

	for _, l := range lines {
		if l.ItemID != itemID {
			out = append(out, l)
		}
	}

	return out
}

// Validate checks that a model can be saved: a name and at least one line,
// each with a positive quantity.
func (m Model) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if len(m.Lines) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalid)
	}

	for _, l := range m.Lines {
		if l.ItemID == "" {
			return fmt.Errorf("%w: line without item", ErrInvalid)
		}

		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity for item %s must be positive", ErrInvalid, l.ItemID)
		}
	}

	return nil
}
