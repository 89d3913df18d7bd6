package members

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/roles"
	"shopadmin/internal/shared/utils/response"
	"shopadmin/pkg/logger"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member with this email or username already exists")
	ErrRoleNotGranted = errors.New("role is not granted to member")
)

// RoleCacheEvictor drops the cached role set of one subject
type RoleCacheEvictor interface {
	Evict(ctx context.Context, subject string) error
}

type Service interface {
	ListMembers(ctx context.Context, query ListMembersQuery) (response.Page[MemberResponse], error)
	GetMember(ctx context.Context, id uuid.UUID) (*MemberResponse, error)
	GetMemberBySubject(ctx context.Context, subject string) (*MemberResponse, error)
	CreateMember(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error)
	UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error)
	DeleteMember(ctx context.Context, id uuid.UUID) error
	GrantRole(ctx context.Context, memberID, roleID uuid.UUID, actor string) (*MemberResponse, error)
	RevokeRole(ctx context.Context, memberID, roleID uuid.UUID, actor string) (*MemberResponse, error)
}

type service struct {
	repo     Repository
	roles    roles.Repository
	evictor  RoleCacheEvictor
	recorder *audit.Recorder
	log      *logger.Logger
}

func NewService(repo Repository, roleRepo roles.Repository, evictor RoleCacheEvictor, recorder *audit.Recorder, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		roles:    roleRepo,
		evictor:  evictor,
		recorder: recorder,
		log:      log,
	}
}

func (s *service) ListMembers(ctx context.Context, query ListMembersQuery) (response.Page[MemberResponse], error) {
	list, total, err := s.repo.List(ctx, query.Page, query.Size)
	if err != nil {
		return response.Page[MemberResponse]{}, fmt.Errorf("failed to list members: %w", err)
	}

	content := make([]MemberResponse, 0, len(list))
	for i := range list {
		content = append(content, list[i].ToResponse())
	}
	return response.NewPage(content, query.Page, query.Size, total), nil
}

func (s *service) GetMember(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := member.ToResponse()
	return &resp, nil
}

func (s *service) GetMemberBySubject(ctx context.Context, subject string) (*MemberResponse, error) {
	member, err := s.repo.GetByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	resp := member.ToResponse()
	return &resp, nil
}

func (s *service) CreateMember(ctx context.Context, req CreateMemberRequest) (*MemberResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing member: %w", err)
	}
	if exists {
		return nil, ErrMemberExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	defaultRole, err := s.roles.GetByName(ctx, auth.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to load default role: %w", err)
	}

	member := &Member{
		Username:    username,
		Email:       email,
		Password:    string(hash),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Address:     strings.TrimSpace(req.Address),
		Roles:       []roles.Role{*defaultRole},
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	resp := member.ToResponse()
	return &resp, nil
}

func (s *service) UpdateMember(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	email, username := existing.Email, existing.Username
	if req.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*req.Email))
		updates["email"] = email
	}
	if req.Username != nil {
		username = strings.TrimSpace(*req.Username)
		updates["username"] = username
	}
	if req.Email != nil || req.Username != nil {
		exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing member: %w", err)
		}
		if exists {
			return nil, ErrMemberExists
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}

	if len(updates) == 0 {
		resp := existing.ToResponse()
		return &resp, nil
	}

	member, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if member.Email != existing.Email {
		s.evict(ctx, existing.Email)
	}

	resp := member.ToResponse()
	return &resp, nil
}

func (s *service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, existing.Email)
	return nil
}

func (s *service) GrantRole(ctx context.Context, memberID, roleID uuid.UUID, actor string) (*MemberResponse, error) {
	member, role, err := s.loadMemberAndRole(ctx, memberID, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddRole(ctx, member.ID, role.ID); err != nil {
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.evict(ctx, member.Email)
	s.recorder.Record(ctx, audit.EventMemberRoleGranted, actor, map[string]string{
		"member_id": member.ID.String(),
		"role":      role.Name,
	})
	return s.GetMember(ctx, memberID)
}

func (s *service) RevokeRole(ctx context.Context, memberID, roleID uuid.UUID, actor string) (*MemberResponse, error) {
	member, role, err := s.loadMemberAndRole(ctx, memberID, roleID)
	if err != nil {
		return nil, err
	}
	removed, err := s.repo.RemoveRole(ctx, member.ID, role.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke role: %w", err)
	}
	if !removed {
		return nil, ErrRoleNotGranted
	}

	s.evict(ctx, member.Email)
	s.recorder.Record(ctx, audit.EventMemberRoleRevoked, actor, map[string]string{
		"member_id": member.ID.String(),
		"role":      role.Name,
	})
	return s.GetMember(ctx, memberID)
}

func (s *service) loadMemberAndRole(ctx context.Context, memberID, roleID uuid.UUID) (*Member, *roles.Role, error) {
	member, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	return member, role, nil
}

func (s *service) evict(ctx context.Context, subject string) {
	if s.evictor == nil {
		return
	}
	if err := s.evictor.Evict(ctx, subject); err != nil {
		s.log.WarnContext(ctx, "role cache eviction failed",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}
