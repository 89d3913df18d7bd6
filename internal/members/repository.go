package members

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, member *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	// GetByEmail resolves a token subject; only the e-mail identifies a member
	GetByEmail(ctx context.Context, email string) (*Member, error)
	// GetByLogin matches the e-mail first, then the username
	GetByLogin(ctx context.Context, login string) (*Member, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string, exclude uuid.UUID) (bool, error)
	List(ctx context.Context, page, size int) ([]Member, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Member, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddRole(ctx context.Context, memberID, roleID uuid.UUID) error
	RemoveRole(ctx context.Context, memberID, roleID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, member *Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Member, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *repository) GetByLogin(ctx context.Context, login string) (*Member, error) {
	member, err := r.GetByEmail(ctx, login)
	if !errors.Is(err, ErrMemberNotFound) {
		return member, err
	}
	return r.findOne(ctx, "username = ?", login)
}

func (r *repository) findOne(ctx context.Context, query string, arg string) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).Preload("Roles").Where(query, arg).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

// ExistsByEmailOrUsername reports whether either value is taken as an e-mail or
// a username, so no username can shadow another member's e-mail.
func (r *repository) ExistsByEmailOrUsername(ctx context.Context, email, username string, exclude uuid.UUID) (bool, error) {
	var count int64
	taken := []string{email, username}
	query := r.db.WithContext(ctx).Model(&Member{}).Where("(email IN ? OR username IN ?)", taken, taken)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context, page, size int) ([]Member, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Member{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []Member
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("created_at asc").
		Offset(page * size).
		Limit(size).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Member, error) {
	result := r.db.WithContext(ctx).Model(&Member{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrMemberNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the member together with its orders, their items and its role grants
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE member_id = ?)", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM orders WHERE member_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM member_roles WHERE member_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Member{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

func (r *repository) AddRole(ctx context.Context, memberID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO member_roles (member_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		memberID, roleID,
	).Error
}

func (r *repository) RemoveRole(ctx context.Context, memberID, roleID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"DELETE FROM member_roles WHERE member_id = ? AND role_id = ?",
		memberID, roleID,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
