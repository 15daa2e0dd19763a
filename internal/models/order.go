package models

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderCompleted
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentMomo  PaymentMethod = "momo"
	PaymentVNPay PaymentMethod = "vnpay"
	PaymentBank  PaymentMethod = "bank"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type OrderItem struct {
	ID              string    `json:"_id"`
	OrderID         string    `json:"orderId"`
	ServiceID       string    `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	ServiceCategory string    `json:"serviceCategory"`
	ServicePrice    float64   `json:"servicePrice"`
	ServiceUnit     string    `json:"serviceUnit"`
	Quantity        float64   `json:"quantity"`
	UnitPrice       float64   `json:"unitPrice"`
	TotalPrice      float64   `json:"totalPrice"`
	Note            string    `json:"note,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Payment struct {
	ID             string        `json:"_id"`
	OrderID        string        `json:"orderId"`
	Method         PaymentMethod `json:"method"`
	Amount         float64       `json:"amount"`
	Status         PaymentStatus `json:"status"`
	TransactionRef string        `json:"transactionRef,omitempty"`
	PaidAt         *time.Time    `json:"paidAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// OrderCustomer is the customer summary embedded in an order.
type OrderCustomer struct {
	ID          string `json:"_id"`
	Phone       string `json:"phone"`
	Name        string `json:"name,omitempty"`
	Address     string `json:"address,omitempty"`
	Email       string `json:"email,omitempty"`
	IsVerified  bool   `json:"isVerified,omitempty"`
	HasPassword bool   `json:"hasPassword,omitempty"`
}

type OrderCreatedBy struct {
	ID    string `json:"_id"`
	Phone string `json:"phone"`
	Name  string `json:"name,omitempty"`
}

// Order is a laundry order. TotalPrice equals the sum of item totals; the server enforces it.
type Order struct {
	ID          string         `json:"_id"`
	Customer    OrderCustomer  `json:"customerId"`
	CreatedBy   OrderCreatedBy `json:"createdBy"`
	Status      OrderStatus    `json:"status"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	TotalPrice  float64        `json:"totalPrice"`
	Payment     *Payment       `json:"payment"`
	Items       []OrderItem    `json:"orderItems"`
	Note        string         `json:"note,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (o Order) Key() string { return o.ID }

// WithStatus returns a copy of o with only the status changed.
func (o Order) WithStatus(status string) Order {
	o.Status = OrderStatus(status)
	return o
}

// OrderFilter holds list filters. Customer-facing listings ignore the staff-only fields.
type OrderFilter struct {
	Status        OrderStatus
	CustomerID    string
	CreatedBy     string
	CustomerPhone string
	StartDate     string
	EndDate       string
	Limit         int
}

type CreateOrderItemPayload struct {
	ServiceID string   `json:"serviceId"`
	Quantity  float64  `json:"quantity"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Note      string   `json:"note,omitempty"`
}

// CreateOrderPayload creates an order; the server provisions the customer when the phone is unknown.
type CreateOrderPayload struct {
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerName    string                   `json:"customerName"`
	CustomerAddress string                   `json:"customerAddress,omitempty"`
	Items           []CreateOrderItemPayload `json:"items"`
	Note            string                   `json:"note,omitempty"`
}
