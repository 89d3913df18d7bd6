package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter narrows a listing to one member when MemberID is set
type ListFilter struct {
	MemberID *uuid.UUID
	Page     int
	Size     int
	Sort     Sort
}

type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int64, error)
	// Update applies field updates and, when items is non-nil, replaces the order's items
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, items []OrderItem) (*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *Order) error {
	return r.db.WithContext(ctx).Omit("Member").Create(order).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).
		Preload("Member").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Order, int64, error) {
	base := r.db.WithContext(ctx).Model(&Order{})
	if filter.MemberID != nil {
		base = base.Where("member_id = ?", *filter.MemberID)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Order
	err := base.
		Preload("Member").
		Preload("Items.Product").
		Order(filter.Sort.Clause()).
		Offset(filter.Page * filter.Size).
		Limit(filter.Size).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, items []OrderItem) (*Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrOrderNotFound
		}

		if items != nil {
			if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = id
			}
			if len(items) > 0 {
				if err := tx.Omit("Product").Create(&items).Error; err != nil {
					return err
				}
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the order's items, then the order, in one transaction
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}
