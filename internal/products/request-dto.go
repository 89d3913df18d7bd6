package products

type CreateProductRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Description   string `json:"description"`
	Price         int64  `json:"price" validate:"min=0"`
	StockQuantity int    `json:"stock_quantity" validate:"min=0"`
	CategoryID    int    `json:"category_id" validate:"min=0"`
}

type UpdateProductRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price" validate:"omitempty,min=0"`
	StockQuantity *int    `json:"stock_quantity" validate:"omitempty,min=0"`
	CategoryID    *int    `json:"category_id" validate:"omitempty,min=0"`
}

type ListProductsQuery struct {
	Page int `form:"page,default=0" validate:"min=0"`
	Size int `form:"size,default=5" validate:"min=1,max=100"`
}
