package products

import (
	"time"

	"github.com/google/uuid"
)

// Product prices are whole currency units
type Product struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255;index"`
	Description   string    `json:"description" gorm:"type:text"`
	Price         int64     `json:"price" gorm:"not null"`
	StockQuantity int       `json:"stock_quantity" gorm:"not null;default:0"`
	CategoryID    int       `json:"category_id" gorm:"index"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		CategoryID:    p.CategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
