package domain

import "github.com/shopspring/decimal"

type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
	StockRunningLow StockStatus = "RUNNING_LOW"
)

type ProductCategory struct {
	CatName string `json:"catName"`
}

type Product struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	Status      *string          `json:"status"`
	CategoryID  *int             `json:"categoryId"`
	Stock       StockStatus      `json:"stock"`
	Quantity    int              `json:"quantity"`
	Description *string          `json:"description"`
	Category    *ProductCategory `json:"category"`
}

// ProductInput é o corpo aceito pelos endpoints de criação e edição de produto
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CategoryID  *int            `json:"categoryId"`
	Description *string         `json:"description"`
}

type Subcategory struct {
	ID       int       `json:"id"`
	CatName  string    `json:"catName"`
	Products []Product `json:"products"`
}

type Category struct {
	ID       int           `json:"id"`
	CatName  string        `json:"catName"`
	Children []Subcategory `json:"children"`
	Products []Product     `json:"products"`
}

type SearchProduct struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock StockStatus     `json:"stock"`
}

type SearchResponse struct {
	Query   string          `json:"query"`
	Results []SearchProduct `json:"results"`
	Applied bool            `json:"applied"`
}
