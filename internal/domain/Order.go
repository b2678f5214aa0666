package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type OrderUser struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type OrderPayment struct {
	Amount decimal.Decimal `json:"amount"`
}

// Order é somente leitura para o núcleo de agregação
type Order struct {
	ID        int            `json:"id"`
	UserID    int            `json:"userId"`
	Status    OrderStatus    `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	User      OrderUser      `json:"user"`
	Payment   []OrderPayment `json:"payment"`
}

type Customer struct {
	ID       int    `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
