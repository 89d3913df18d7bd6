package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"shopadmin/internal/auth"
	"shopadmin/internal/members"
	"shopadmin/internal/orders"
	"shopadmin/internal/products"
	"shopadmin/internal/roles"
	"shopadmin/internal/shared/config"
	"shopadmin/internal/shared/database"
	"shopadmin/pkg/logger"
)

type Seeder struct {
	db *gorm.DB
}

type seedMember struct {
	username, password, email, phone, address string
	roles                                     []string
}

var seedMembers = []seedMember{
	{"홍길동", "password123", "hong@example.com", "010-1234-5678", "서울시 강남구", []string{auth.RoleMember}},
	{"김철수", "password456", "kim@example.com", "010-9876-5432", "서울시 마포구", []string{auth.RoleMember}},
	{"이영희", "password789", "lee@example.com", "010-2468-1357", "부산시 해운대구", []string{auth.RoleMember}},
	{"박지성", "passwordabc", "park@example.com", "010-1357-2468", "인천시 연수구", []string{auth.RoleMember}},
	{"최민수", "passworddef", "choi@example.com", "010-3698-5214", "대전시 유성구", []string{auth.RoleMember}},
	{"정소연", "passwordghi", "jung@example.com", "010-7531-9514", "광주시 서구", []string{auth.RoleMember}},
	{"admin", "qwaszx", "admin@example.com", "", "", []string{auth.RoleAdmin, auth.RoleMember}},
}

func main() {
	fmt.Println("🌱 Starting shopadmin database seeder...")

	cfg, err := config.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.InitDB(cfg, logger.New(cfg.LogLevel))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db.PostgreSQL}
	ctx := context.Background()

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(ctx); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed. Log in with hong@example.com / password123 or admin@example.com / qwaszx")
}

// CleanDatabase truncates every table, children first
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{"order_items", "orders", "member_roles", "members", "products", "roles"}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds roles, members, products and one order in one transaction
func (s *Seeder) SeedAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleByName, err := seedRoles(tx)
		if err != nil {
			return fmt.Errorf("failed to seed roles: %w", err)
		}
		memberList, err := seedMembersWithRoles(tx, roleByName)
		if err != nil {
			return fmt.Errorf("failed to seed members: %w", err)
		}
		productList, err := seedProducts(tx)
		if err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		if err := seedOrder(tx, memberList[0], productList[0]); err != nil {
			return fmt.Errorf("failed to seed orders: %w", err)
		}
		return nil
	})
}

func seedRoles(tx *gorm.DB) (map[string]roles.Role, error) {
	list := []roles.Role{
		{Name: auth.RoleAdmin, Description: "Administrator with access to /admin"},
		{Name: auth.RoleMember, Description: "Registered shop member"},
	}
	if err := tx.Create(&list).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]roles.Role, len(list))
	for _, r := range list {
		byName[r.Name] = r
		fmt.Printf("  ✅ Role %s\n", r.Name)
	}
	return byName, nil
}

func seedMembersWithRoles(tx *gorm.DB, roleByName map[string]roles.Role) ([]members.Member, error) {
	out := make([]members.Member, 0, len(seedMembers))
	for _, sm := range seedMembers {
		hash, err := bcrypt.GenerateFromPassword([]byte(sm.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		member := members.Member{
			Username:    sm.username,
			Email:       sm.email,
			Password:    string(hash),
			PhoneNumber: sm.phone,
			Address:     sm.address,
		}
		for _, name := range sm.roles {
			member.Roles = append(member.Roles, roleByName[name])
		}
		if err := tx.Create(&member).Error; err != nil {
			return nil, err
		}

		out = append(out, member)
		fmt.Printf("  ✅ Member %s %v\n", member.Email, sm.roles)
	}
	return out, nil
}

func seedProducts(tx *gorm.DB) ([]products.Product, error) {
	list := []products.Product{
		{Name: "노트북", Description: "고성능 노트북", Price: 1500000, StockQuantity: 50, CategoryID: 1},
		{Name: "스마트폰", Description: "최신형 스마트폰", Price: 1000000, StockQuantity: 100, CategoryID: 2},
	}
	if err := tx.Create(&list).Error; err != nil {
		return nil, err
	}
	for _, p := range list {
		fmt.Printf("  ✅ Product %s (%d)\n", p.Name, p.Price)
	}
	return list, nil
}

func seedOrder(tx *gorm.DB, member members.Member, product products.Product) error {
	order := orders.Order{
		ID:          uuid.New(),
		OrderNumber: orders.GenerateOrderNumber(),
		MemberID:    member.ID,
		OrderDate:   time.Now().UTC(),
		TotalAmount: product.Price,
		Status:      orders.StatusPending,
		Items: []orders.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	if err := tx.Omit("Member").Create(&order).Error; err != nil {
		return err
	}
	fmt.Printf("  ✅ Order %s for %s\n", order.OrderNumber, member.Email)
	return nil
}
