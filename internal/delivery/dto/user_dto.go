package dto

// Request DTOs

type CreateUserRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8,max=72"`
	FullName     string `json:"full_name" validate:"required,min=2,max=255"`
	RoleID       int    `json:"role_id" validate:"required,gte=1,lte=5"`
	DepartmentID *int   `json:"department_id" validate:"omitempty,gte=1"`
	PhoneNumber  string `json:"phone_number" validate:"omitempty,min=7,max=20"`
}

// UpdateUserRequest changes only the fields that are present
type UpdateUserRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=2,max=255"`
	RoleID       *int    `json:"role_id" validate:"omitempty,gte=1,lte=5"`
	DepartmentID *int    `json:"department_id" validate:"omitempty,gte=1"`
	PhoneNumber  *string `json:"phone_number" validate:"omitempty,max=20"`
	IsActive     *bool   `json:"is_active"`
}

// Response DTOs

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}

type RoleResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
