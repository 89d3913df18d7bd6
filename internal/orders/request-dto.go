package orders

import "time"

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	// Price defaults to the product's current price
	Price *int64 `json:"price" validate:"omitempty,min=0"`
}

type CreateOrderRequest struct {
	MemberID    string             `json:"member_id" validate:"required,uuid"`
	OrderNumber string             `json:"order_number" validate:"omitempty,max=50"`
	OrderDate   *time.Time         `json:"order_date"`
	Status      string             `json:"status"`
	TotalAmount *int64             `json:"total_amount" validate:"omitempty,min=0"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderRequest replaces the items when Items is present
type UpdateOrderRequest struct {
	OrderDate   *time.Time         `json:"order_date"`
	Status      *string            `json:"status"`
	TotalAmount *int64             `json:"total_amount" validate:"omitempty,min=0"`
	Items       []OrderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

// ListOrdersQuery sorts by orderDate,desc when Sort is empty
type ListOrdersQuery struct {
	Page int    `form:"page,default=0" validate:"min=0"`
	Size int    `form:"size,default=10" validate:"min=1,max=100"`
	Sort string `form:"sort"`
}
