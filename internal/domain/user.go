package domain

import (
	"time"

	"github.com/google/uuid"
)

const DefaultRole = "user"

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;not null"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserProfile is the identity attached to an authenticated request.
type UserProfile struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
}

func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Author is the public summary embedded in posts and comments.
type Author struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Username string    `json:"username"`
}

func (u *User) Author() *Author {
	if u == nil {
		return nil
	}
	return &Author{ID: u.ID, Name: u.Name, Username: u.Username}
}
