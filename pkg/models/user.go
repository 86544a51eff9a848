package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can author posts and comments and like posts.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Username  string    `json:"username" gorm:"size:150;not null;uniqueIndex" validate:"required,max=150"`
	Email     string    `json:"email" gorm:"size:254" validate:"omitempty,email,max=254"`
	IsStaff   bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`

	// One-to-Many Relations
	Posts    []*Post    `json:"posts,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Comments []*Comment `json:"comments,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`

	// Many-to-Many Relations
	LikedPosts []*Post `json:"liked_posts,omitempty" gorm:"many2many:post_likes"`
}

// BeforeCreate assigns a fresh id when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Validate checks the user's field constraints.
func (u *User) Validate() error {
	return check(u)
}

func (u *User) String() string {
	return u.Username
}
