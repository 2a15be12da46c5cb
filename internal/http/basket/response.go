package basket

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/feasibility"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

type lineResponse struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type basketResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Lines []lineResponse `json:"lines"`
}

type limitingResponse struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

type feasibilityResponse struct {
	Basket     basketResponse     `json:"basket"`
	MaxBaskets int                `json:"max_baskets"`
	Limiting   []limitingResponse `json:"limiting_items"`
	Cost       decimal.Decimal    `json:"cost"`
}

func toResponse(m *basket.Model, stock item.Index) basketResponse {
	resp := basketResponse{
		ID:    m.ID,
		Name:  m.Name,
		Lines: make([]lineResponse, len(m.Lines)),
	}

	for i, l := range m.Lines {
		resp.Lines[i] = lineResponse{
			ItemID:   l.ItemID,
			ItemName: stock.Name(l.ItemID),
			Quantity: l.Quantity,
		}
	}

	return resp
}

func toResponseList(models []basket.Model, stock item.Index) []basketResponse {
	resp := make([]basketResponse, len(models))
	for i := range models {
		resp[i] = toResponse(&models[i], stock)
	}

	return resp
}

func toFeasibilityResponse(m *basket.Model, stock item.Index) feasibilityResponse {
	res := feasibility.Evaluate(*m, stock)

	limiting := make([]limitingResponse, len(res.Limiting))
	for i, it := range res.Limiting {
		limiting[i] = limitingResponse{
			ItemID:   it.ID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     it.Unit,
		}
	}

	return feasibilityResponse{
		Basket:     toResponse(m, stock),
		MaxBaskets: res.MaxBaskets,
		Limiting:   limiting,
		Cost:       res.Cost,
	}
}
