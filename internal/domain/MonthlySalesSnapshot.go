package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySalesSnapshot representa o fechamento mensal de vendas armazenado no banco
type MonthlySalesSnapshot struct {
	ID             int64           `json:"id"`
	Period         string          `json:"period"` // Período no formato mm-yyyy
	Revenue        decimal.Decimal `json:"revenue"`
	OrdersCount    int             `json:"orders_count"`
	CustomersCount int             `json:"customers_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
