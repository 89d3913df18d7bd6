package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shopadmin/pkg/logger"
)

var (
	ErrRoleNotFound = errors.New("role not found")
	ErrRoleExists   = errors.New("role already exists")
)

// CacheEvictor drops cached role sets after a role is renamed or removed
type CacheEvictor interface {
	EvictAll(ctx context.Context) error
}

type Service interface {
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	evictor CacheEvictor
	log     *logger.Logger
}

func NewService(repo Repository, evictor CacheEvictor, log *logger.Logger) Service {
	return &service{repo: repo, evictor: evictor, log: log}
}

// normalizeName stores role names upper-cased without a ROLE_ prefix
func normalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "ROLE_")
}

func (s *service) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	name := normalizeName(req.Name)
	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, ErrRoleNotFound) {
		return nil, fmt.Errorf("failed to check existing role: %w", err)
	}

	role := &Role{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repo.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	resp := role.ToResponse()
	return &resp, nil
}

func (s *service) GetRole(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := role.ToResponse()
	return &resp, nil
}

func (s *service) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	out := make([]RoleResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out, nil
}

func (s *service) UpdateRole(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	updates := make(map[string]interface{})
	renamed := false
	if req.Name != nil {
		name := normalizeName(*req.Name)
		existing, err := s.repo.GetByName(ctx, name)
		switch {
		case err == nil && existing.ID != id:
			return nil, ErrRoleExists
		case err != nil && !errors.Is(err, ErrRoleNotFound):
			return nil, fmt.Errorf("failed to check existing role: %w", err)
		}
		updates["name"] = name
		renamed = true
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return s.GetRole(ctx, id)
	}

	role, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if renamed {
		s.evict(ctx)
	}
	resp := role.ToResponse()
	return &resp, nil
}

func (s *service) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx)
	return nil
}

func (s *service) evict(ctx context.Context) {
	if s.evictor == nil {
		return
	}
	if err := s.evictor.EvictAll(ctx); err != nil {
		s.log.WarnContext(ctx, "role cache eviction failed", slog.String("error", err.Error()))
	}
}
