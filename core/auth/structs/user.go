package structs

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the stored principal document
type User struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password_hash"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Role      Role               `bson:"role"`
	IsActive  bool               `bson:"is_active"`
	LastLogin *time.Time         `bson:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// FullName joins the given and family names
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Touch stamps the update time
func (u *User) Touch(now time.Time) {
	u.UpdatedAt = now
}

// ReadUser is the sanitized principal returned to clients. It has no
// password field at all.
type ReadUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  string     `json:"username"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Sanitize strips the password digest
func (u *User) Sanitize() *ReadUser {
	if u == nil {
		return nil
	}
	return &ReadUser{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
