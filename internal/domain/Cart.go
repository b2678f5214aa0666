package domain

import "github.com/shopspring/decimal"

// CartItem representa uma linha do carrinho persistida no storage do cliente
type CartItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Stock    int             `json:"stock"` // Quantidade máxima disponível no momento da alteração
}

// CartResponse é a visão do carrinho devolvida pela API
type CartResponse struct {
	CartID string          `json:"cart_id"`
	Items  []CartItem      `json:"items"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// NewCartResponse monta a resposta calculando contagem e subtotal
func NewCartResponse(cartID string, items []CartItem) *CartResponse {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if items == nil {
		items = []CartItem{}
	}

	return &CartResponse{
		CartID: cartID,
		Items:  items,
		Count:  len(items),
		Total:  total,
	}
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta"`
}

type BadgeResponse struct {
	Count int `json:"count"`
}
