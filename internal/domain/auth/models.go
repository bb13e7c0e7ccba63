package auth

import "time"

type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	EmployeeID string     `json:"employeeId,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Credentials is a user together with its password hash. It never leaves the service.
type Credentials struct {
	User
	PasswordHash string
}

type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Gender     string `json:"gender"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// NewAccount is a validated registration ready to persist.
type NewAccount struct {
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Gender       string
	Phone        string
	Department   string
	Position     string
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
