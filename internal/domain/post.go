package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	Title     string    `json:"title" gorm:"not null"`
	Blog      string    `json:"blog"`
	Published bool      `json:"published" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsOwnedBy reports whether userID owns the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// VisibleTo reports whether the post can be read by the requester.
// A nil requester is anonymous.
func (p *Post) VisibleTo(requester *UserProfile) bool {
	if p.Published {
		return true
	}
	return requester != nil && p.IsOwnedBy(requester.ID)
}

// PostUpdate holds a partial update. Nil fields keep their current value.
type PostUpdate struct {
	Title     *string
	Blog      *string
	Published *bool
}

func (u PostUpdate) Apply(p *Post) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Blog != nil {
		p.Blog = *u.Blog
	}
	if u.Published != nil {
		p.Published = *u.Published
	}
}
