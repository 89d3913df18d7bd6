package orders

import (
	"time"

	"github.com/google/uuid"

	"shopadmin/internal/members"
	"shopadmin/internal/products"
)

type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderNumber string          `gorm:"uniqueIndex;not null;size:50"`
	MemberID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Member      *members.Member `gorm:"foreignKey:MemberID"`
	OrderDate   time.Time       `gorm:"not null"`
	TotalAmount int64           `gorm:"not null"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	OrderID   uuid.UUID         `gorm:"type:uuid;not null"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Product   *products.Product `gorm:"foreignKey:ProductID"`
	Quantity  int               `gorm:"not null"`
	Price     int64             `gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// ItemsTotal sums price times quantity over the items
func ItemsTotal(items []OrderItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

func (o *Order) ToResponse() OrderResponse {
	resp := OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		MemberID:    o.MemberID.String(),
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.String(),
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.Member != nil {
		resp.MemberUsername = o.Member.Username
	}
	for _, item := range o.Items {
		itemResp := OrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if item.Product != nil {
			itemResp.ProductName = item.Product.Name
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}
