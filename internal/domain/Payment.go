package domain

import "github.com/shopspring/decimal"

type PaymentURLRequest struct {
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	OrderInfo string          `json:"orderInfo"`
}

type PaymentURLResponse struct {
	PaymentURL string `json:"paymentUrl"`
}
