package members

import (
	"time"

	"github.com/google/uuid"

	"shopadmin/internal/roles"
)

type Member struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Username    string       `json:"username" gorm:"uniqueIndex;not null;size:100"`
	Email       string       `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password    string       `json:"-" gorm:"not null"`
	PhoneNumber string       `json:"phone_number" gorm:"size:20"`
	Address     string       `json:"address" gorm:"size:255"`
	Roles       []roles.Role `json:"roles" gorm:"many2many:member_roles;"`
	CreatedAt   time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "members"
}

// RoleNames returns the member's role names as stored
func (m *Member) RoleNames() []string {
	names := make([]string, 0, len(m.Roles))
	for _, r := range m.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (m *Member) ToResponse() MemberResponse {
	return MemberResponse{
		ID:          m.ID.String(),
		Username:    m.Username,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address,
		Roles:       m.RoleNames(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
