package members

type CreateMemberRequest struct {
	Username    string `json:"username" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	Address     string `json:"address" validate:"omitempty,max=255"`
}

// UpdateMemberRequest changes only the fields that are present
type UpdateMemberRequest struct {
	Username    *string `json:"username" validate:"omitempty,min=2,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=6,max=72"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
}

type ListMembersQuery struct {
	Page int `form:"page,default=0" validate:"min=0"`
	Size int `form:"size,default=5" validate:"min=1,max=100"`
}
