package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopadmin/internal/shared/constants"
	"shopadmin/internal/shared/utils/response"
	"shopadmin/pkg/cache"
	"shopadmin/pkg/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by orders")
)

type Service interface {
	ListProducts(ctx context.Context, query ListProductsQuery) (response.Page[ProductResponse], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  Repository
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewService(repo Repository, c cache.Service, ttl time.Duration, log *logger.Logger) Service {
	if ttl <= 0 {
		ttl = constants.TTL_PRODUCT_DETAIL
	}
	return &service{repo: repo, cache: c, ttl: ttl, log: log}
}

func (s *service) ListProducts(ctx context.Context, query ListProductsQuery) (response.Page[ProductResponse], error) {
	list, total, err := s.repo.List(ctx, query.Page, query.Size)
	if err != nil {
		return response.Page[ProductResponse]{}, fmt.Errorf("failed to list products: %w", err)
	}

	content := make([]ProductResponse, 0, len(list))
	for i := range list {
		content = append(content, list[i].ToResponse())
	}
	return response.NewPage(content, query.Page, query.Size, total), nil
}

// GetProduct reads through the product detail cache
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	var resp ProductResponse
	err := s.cache.GetOrSet(ctx, constants.BuildProductDetailKey(id.String()), s.ttl, func() (interface{}, error) {
		product, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return product.ToResponse(), nil
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product := &Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	resp := product.ToResponse()
	return &resp, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if len(updates) == 0 {
		return s.GetProduct(ctx, id)
	}

	product, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, id)

	resp := product.ToResponse()
	return &resp, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *service) evict(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildProductDetailKey(id.String())); err != nil {
		s.log.WarnContext(ctx, "product cache eviction failed",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()),
		)
	}
}
