// Package seed holds the demonstration dataset served while storage is empty.
package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Items() []item.Item {
	it := func(id, name string, q, minQ int, unit, price string, bought time.Time) item.Item {
		return item.Item{
			ID:               id,
			Name:             name,
			Quantity:         q,
			MinQuantity:      minQ,
			Unit:             unit,
			UnitPrice:        decimal.RequireFromString(price),
			LastPurchaseDate: bought,
		}
	}

	return []item.Item{
		it("1", "Arroz", 50, 20, "kg", "5.50", date(2023, time.April, 15)),
		it("2", "Feijão", 30, 15, "kg", "7.25", date(2023, time.April, 20)),
		it("3", "Açúcar", 25, 10, "kg", "4.75", date(2023, time.April, 10)),
		it("4", "Café", 8, 10, "kg", "25.00", date(2023, time.March, 30)),
		it("5", "Óleo", 40, 20, "un", "9.90", date(2023, time.April, 18)),
		it("6", "Sal", 30, 15, "kg", "3.50", date(2023, time.March, 25)),
		it("7", "Macarrão", 45, 25, "un", "4.20", date(2023, time.April, 12)),
		it("8", "Farinha de Trigo", 35, 20, "kg", "6.80", date(2023, time.April, 5)),
	}
}

// Baskets returns the four stock basket models. Each quantity slot maps to
// items 1..8; zero leaves the item out.
func Baskets() []basket.Model {
	items := Items()

	model := func(id, name string, quantities ...int) basket.Model {
		m := basket.Model{ID: id, Name: name}

		for i, q := range quantities {
			if q > 0 {
				m.Lines = append(m.Lines, basket.Line{ItemID: items[i].ID, Quantity: q})
			}
		}

		return m
	}

	return []basket.Model{
		model("1", "Cesta Premium", 5, 3, 4, 2, 3, 1, 4, 2),
		model("2", "Cesta Gold", 4, 2, 3, 1, 2, 1, 3, 2),
		model("3", "Cesta Prata", 3, 2, 2, 1, 2, 1, 2, 1),
		model("4", "Cesta Bronze", 2, 1, 1, 0, 1, 0, 2, 0),
	}
}

func Transactions() []transaction.Transaction {
	tx := func(id string, day time.Time, itemID string, q int, total, desc string) transaction.Transaction {
		return transaction.Transaction{
			ID:          id,
			Date:        day,
			ItemID:      itemID,
			Quantity:    q,
			TotalPrice:  decimal.RequireFromString(total),
			Description: &desc,
		}
	}

	return []transaction.Transaction{
		tx("1", date(2023, time.April, 15), "1", 100, "550.00", "Compra mensal de arroz"),
		tx("2", date(2023, time.April, 20), "2", 50, "362.50", "Compra mensal de feijão"),
		tx("3", date(2023, time.April, 10), "3", 40, "190.00", "Compra mensal de açúcar"),
		tx("4", date(2023, time.March, 30), "4", 20, "500.00", "Compra mensal de café"),
	}
}
