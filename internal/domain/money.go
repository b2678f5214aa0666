package domain

import "github.com/shopspring/decimal"

func init() {
	// Valores monetários trafegam como número JSON, como no backend da loja
	decimal.MarshalJSONWithoutQuotes = true
}
