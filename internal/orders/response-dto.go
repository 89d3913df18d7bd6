package orders

import "time"

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	MemberID       string              `json:"member_id"`
	MemberUsername string              `json:"member_username"`
	OrderDate      time.Time           `json:"order_date"`
	TotalAmount    int64               `json:"total_amount"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
