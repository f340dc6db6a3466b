package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"user"`
	Items     []OrderLine     `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Status    OrderStatus     `json:"status"`
	Shipping  Shipping        `json:"shipping"`
	CreatedAt time.Time       `json:"createdAt"`
}

type OrderLine struct {
	ProductID string          `json:"product"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

type Shipping struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}
