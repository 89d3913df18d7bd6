package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopadmin/internal/audit"
	"shopadmin/internal/members"
	"shopadmin/internal/products"
	"shopadmin/internal/shared/utils/response"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
	ErrInvalidSort   = errors.New("invalid sort, expected one of orderDate, totalAmount, orderNumber, status with asc or desc")
	ErrEmptyItems    = errors.New("order must contain at least one item")
)

// MemberLookup is the part of the member store orders need
type MemberLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*members.Member, error)
	GetByEmail(ctx context.Context, email string) (*members.Member, error)
}

// ProductLookup resolves item products and their current prices
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]products.Product, error)
}

type Service interface {
	ListOrders(ctx context.Context, query ListOrdersQuery) (response.Page[OrderResponse], error)
	ListMemberOrders(ctx context.Context, subject string, query ListOrdersQuery) (response.Page[OrderResponse], error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error)
	CreateOrder(ctx context.Context, req CreateOrderRequest, actor string) (*OrderResponse, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, id uuid.UUID, actor string) error
}

type service struct {
	repo     Repository
	members  MemberLookup
	products ProductLookup
	recorder *audit.Recorder
	now      func() time.Time
}

func NewService(repo Repository, memberLookup MemberLookup, productLookup ProductLookup, recorder *audit.Recorder) Service {
	return &service{
		repo:     repo,
		members:  memberLookup,
		products: productLookup,
		recorder: recorder,
		now:      time.Now,
	}
}

// GenerateOrderNumber returns ORD- followed by eight upper-case hex digits
func GenerateOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *service) ListOrders(ctx context.Context, query ListOrdersQuery) (response.Page[OrderResponse], error) {
	return s.list(ctx, nil, query)
}

func (s *service) ListMemberOrders(ctx context.Context, subject string, query ListOrdersQuery) (response.Page[OrderResponse], error) {
	member, err := s.members.GetByEmail(ctx, subject)
	if err != nil {
		return response.Page[OrderResponse]{}, err
	}
	return s.list(ctx, &member.ID, query)
}

func (s *service) list(ctx context.Context, memberID *uuid.UUID, query ListOrdersQuery) (response.Page[OrderResponse], error) {
	sort, err := ParseSort(query.Sort)
	if err != nil {
		return response.Page[OrderResponse]{}, err
	}

	list, total, err := s.repo.List(ctx, ListFilter{
		MemberID: memberID,
		Page:     query.Page,
		Size:     query.Size,
		Sort:     sort,
	})
	if err != nil {
		return response.Page[OrderResponse]{}, fmt.Errorf("failed to list orders: %w", err)
	}

	content := make([]OrderResponse, 0, len(list))
	for i := range list {
		content = append(content, list[i].ToResponse())
	}
	return response.NewPage(content, query.Page, query.Size, total), nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := order.ToResponse()
	return &resp, nil
}

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest, actor string) (*OrderResponse, error) {
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return nil, members.ErrMemberNotFound
	}
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		return nil, err
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	items, err := s.buildItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderNumber: strings.TrimSpace(req.OrderNumber),
		MemberID:    memberID,
		OrderDate:   s.now().UTC(),
		Status:      status,
		Items:       items,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = GenerateOrderNumber()
	}
	if req.OrderDate != nil {
		order.OrderDate = req.OrderDate.UTC()
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	} else {
		order.TotalAmount = ItemsTotal(items)
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.recorder.Record(ctx, audit.EventOrderCreated, actor, map[string]string{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"member_id":    memberID.String(),
		"total_amount": strconv.FormatInt(order.TotalAmount, 10),
	})
	return s.GetOrder(ctx, order.ID)
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	updates := make(map[string]interface{})
	if req.Status != nil {
		status, err := ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		updates["status"] = status.String()
	}
	if req.OrderDate != nil {
		updates["order_date"] = req.OrderDate.UTC()
	}

	var items []OrderItem
	if req.Items != nil {
		if len(req.Items) == 0 {
			return nil, ErrEmptyItems
		}
		built, err := s.buildItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		items = built
		if req.TotalAmount == nil {
			updates["total_amount"] = ItemsTotal(items)
		}
	}
	if req.TotalAmount != nil {
		updates["total_amount"] = *req.TotalAmount
	}

	order, err := s.repo.Update(ctx, id, updates, items)
	if err != nil {
		return nil, err
	}
	resp := order.ToResponse()
	return &resp, nil
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recorder.Record(ctx, audit.EventOrderDeleted, actor, map[string]string{
		"order_id": id.String(),
	})
	return nil
}

// buildItems resolves products and defaults each item price to the product price
func (s *service) buildItems(ctx context.Context, reqs []OrderItemRequest) ([]OrderItem, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.ProductID)
		if err != nil {
			return nil, products.ErrProductNotFound
		}
		ids = append(ids, id)
	}

	found, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]products.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	items := make([]OrderItem, 0, len(reqs))
	for i, r := range reqs {
		product, ok := byID[ids[i]]
		if !ok {
			return nil, products.ErrProductNotFound
		}
		price := product.Price
		if r.Price != nil {
			price = *r.Price
		}
		items = append(items, OrderItem{
			ProductID: product.ID,
			Quantity:  r.Quantity,
			Price:     price,
		})
	}
	return items, nil
}
