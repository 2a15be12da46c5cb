package planilha_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/cestas/internal/importer/planilha"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Estoque(t *testing.T) {
	csv := `Controle de estoque - Abril 2023;;;;;
Gerado em;30/04/2023;;;;

Nome;Quantidade;Quantidade mínima;Unidade;Preço unitário;Última compra
Arroz;50;20;kg;R$ 5,50;15/04/2023
Feijão;30;15;kg;7,25;20/04/2023
Farinha de Trigo;1.200;200;kg;1.234,56;2023-04-05
;;;;;
Total;;;;;
`

	items, err := planilha.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Arroz", items[0].Name)
	assert.Equal(t, 50, items[0].Quantity)
	assert.Equal(t, 20, items[0].MinQuantity)
	assert.Equal(t, "kg", items[0].Unit)
	assert.True(t, decimal.RequireFromString("5.50").Equal(items[0].UnitPrice))
	assert.Equal(t, date(2023, 4, 15), items[0].LastPurchaseDate)
	assert.Nil(t, items[0].Category)

	assert.Equal(t, "Feijão", items[1].Name)
	assert.True(t, decimal.RequireFromString("7.25").Equal(items[1].UnitPrice))

	assert.Equal(t, 1200, items[2].Quantity)
	assert.True(t, decimal.RequireFromString("1234.56").Equal(items[2].UnitPrice))
	assert.Equal(t, date(2023, 4, 5), items[2].LastPurchaseDate)
}

func TestParser_Produtos(t *testing.T) {
	csv := "PRODUTO;QTD;UN;VALOR;CATEGORIA\nDetergente;12;un;2,99;Limpeza\nSabonete;10;;1,80;\n"

	items, err := planilha.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.NotNil(t, items[0].Category)
	assert.Equal(t, "Limpeza", *items[0].Category)
	assert.Equal(t, "un", items[1].Unit)
	assert.True(t, items[1].LastPurchaseDate.IsZero())
}

func TestParser_InventoryCommaSeparated(t *testing.T) {
	csv := "Name,Quantity,Unit,Unit Price\nCoffee,8,kg,25.00\n"

	items, err := planilha.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, "Coffee", items[0].Name)
	assert.Equal(t, 8, items[0].Quantity)
	assert.True(t, decimal.RequireFromString("25").Equal(items[0].UnitPrice))
}

func TestParser_Latin1(t *testing.T) {
	raw := "Nome;Quantidade;Preço unitário\nAçúcar;25;4,75\nMacarrão;45;4,20\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(raw))
	require.NoError(t, err)

	items, err := planilha.NewParser().Parse(bytes.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Açúcar", items[0].Name)
	assert.Equal(t, "Macarrão", items[1].Name)
	assert.True(t, decimal.RequireFromString("4.20").Equal(items[1].UnitPrice))
}

func TestParser_Errors(t *testing.T) {
	tests := map[string]string{
		"NoHeader":         "Arroz;50\nFeijão;30\n",
		"FractionQuantity": "Nome;Quantidade\nArroz;2,5\n",
		"NegativeQuantity": "Nome;Quantidade\nArroz;-2\n",
		"BadPrice":         "Nome;Quantidade;Preço unitário\nArroz;2;abc\n",
		"BadDate":          "Nome;Quantidade;Última compra\nArroz;2;31/31/2023\n",
	}

	for name, csv := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := planilha.NewParser().Parse(strings.NewReader(csv))
			assert.Error(t, err)
		})
	}
}
