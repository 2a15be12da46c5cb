package planilha

// Profile describes the column layout of a stock spreadsheet. Only the name
// and quantity columns are mandatory; the rest are read when present.
type Profile struct {
	Name        string
	NameCol     string
	QuantityCol string
	MinCol      string
	UnitCol     string
	PriceCol    string
	DateCol     string
	CategoryCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.QuantityCol}
}

// profiles are tried in order against every row until one matches a header.
var profiles = []Profile{
	{
		Name:        "estoque",
		NameCol:     "Nome",
		QuantityCol: "Quantidade",
		MinCol:      "Quantidade mínima",
		UnitCol:     "Unidade",
		PriceCol:    "Preço unitário",
		DateCol:     "Última compra",
		CategoryCol: "Categoria",
	},
	{
		Name:        "produtos",
		NameCol:     "Produto",
		QuantityCol: "Qtd",
		MinCol:      "Mínimo",
		UnitCol:     "Un",
		PriceCol:    "Valor",
		DateCol:     "Data",
		CategoryCol: "Categoria",
	},
	{
		Name:        "inventory",
		NameCol:     "Name",
		QuantityCol: "Quantity",
		MinCol:      "Min Quantity",
		UnitCol:     "Unit",
		PriceCol:    "Unit Price",
		DateCol:     "Last Purchase",
		CategoryCol: "Category",
	},
}
