package structs

import "strings"

// RegisterBody is the registration request
type RegisterBody struct {
	Email     string `json:"email" validate:"required,mailbox"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Username  string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

// Normalize trims input and lowercases the unique keys
func (b *RegisterBody) Normalize() {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.Username = strings.ToLower(strings.TrimSpace(b.Username))
	b.FirstName = strings.TrimSpace(b.FirstName)
	b.LastName = strings.TrimSpace(b.LastName)
	b.Role = strings.TrimSpace(b.Role)
}

// LoginBody is the login request. Role, when set, must match the account.
type LoginBody struct {
	Email     string `json:"email" validate:"required,mailbox"`
	Password  string `json:"password" validate:"required"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

// Normalize trims input and lowercases the email
func (b *LoginBody) Normalize() {
	b.Email = strings.ToLower(strings.TrimSpace(b.Email))
	b.Role = strings.TrimSpace(b.Role)
}

// RefreshBody exchanges a renewal token for a new pair
type RefreshBody struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateProfileBody changes the given and family names
type UpdateProfileBody struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
}

// AuthResult is returned by register, login and refresh
type AuthResult struct {
	User         *ReadUser `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}

// Principal is the verified identity attached to a request
type Principal struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
