package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/cestas/internal/importer/planilha"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

//go:generate mockgen -source=service.go -destination=stock_mock.go -package=importer
type Stock interface {
	List(ctx context.Context) ([]item.Item, error)
	Add(ctx context.Context, params item.CreateParams) (*item.Item, error)
	Update(ctx context.Context, id string, params item.UpdateParams) (*item.Item, error)
}

type Service struct {
	stock     Stock
	importers map[Format]Importer
}

func NewService(stock Stock) *Service {
	return &Service{
		stock: stock,
		importers: map[Format]Importer{
			FormatPlanilha: planilha.NewParser(),
		},
	}
}

// Result reports what an import did to stock.
type Result struct {
	Created []item.Item
	Updated []item.Item
}

// Parse reads rows without touching stock.
func (s *Service) Parse(format Format, r io.Reader) ([]item.CreateParams, error) {
	if format == "" {
		format = FormatPlanilha
	}

	importer, ok := s.importers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %s", ErrInvalidFile, format)
	}

	rows, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	return rows, nil
}

// Import parses r and merges the rows into stock by item name, ignoring case.
// A known item gets the row quantity added and takes the row's price, minimum,
// category and purchase date when those are set and the date is not older.
// Unknown names become new items.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	rows, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	current, err := s.stock.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stock: %w", err)
	}

	byName := make(map[string]item.Item, len(current))
	for _, it := range current {
		byName[nameKey(it.Name)] = it
	}

	res := &Result{}

	for _, row := range rows {
		existing, found := byName[nameKey(row.Name)]
		if !found {
			created, err := s.stock.Add(ctx, row)
			if err != nil {
				return res, fmt.Errorf("adding %q: %w", row.Name, err)
			}

			byName[nameKey(created.Name)] = *created
			res.Created = append(res.Created, *created)

			continue
		}

		updated, err := s.stock.Update(ctx, existing.ID, mergeParams(existing, row))
		if err != nil {
			return res, fmt.Errorf("updating %q: %w", row.Name, err)
		}

		byName[nameKey(updated.Name)] = *updated
		res.Updated = append(res.Updated, *updated)
	}

	return res, nil
}

func mergeParams(existing item.Item, row item.CreateParams) item.UpdateParams {
	params := item.UpdateParams{
		Quantity: new(existing.Quantity + row.Quantity),
	}

	if row.MinQuantity > 0 {
		params.MinQuantity = new(row.MinQuantity)
	}

	if row.Category != nil {
		params.Category = row.Category
	}

	if row.LastPurchaseDate.IsZero() || !row.LastPurchaseDate.Before(existing.LastPurchaseDate) {
		if !row.UnitPrice.IsZero() {
			params.UnitPrice = new(row.UnitPrice)
		}

		if !row.LastPurchaseDate.IsZero() {
			params.LastPurchaseDate = new(row.LastPurchaseDate)
		}
	}

	return params
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
