package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reader's reply under a post.
type Comment struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	PostID      uuid.UUID `json:"post_id" gorm:"not null;type:uuid;index:idx_comments_post"`
	AuthorID    uuid.UUID `json:"author_id" gorm:"not null;type:uuid;index:idx_comments_author"`
	Text        string    `json:"text" gorm:"type:text;not null" validate:"required"`
	PublishedAt time.Time `json:"published_at" gorm:"not null" validate:"required"`

	// Foreign Key Relations
	Post   *Post `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns a fresh id when the caller did not set one.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Validate checks the comment's field constraints.
func (c *Comment) Validate() error {
	return check(c)
}

// String needs Author and Post loaded; missing relations print as ids.
func (c *Comment) String() string {
	author := c.AuthorID.String()
	if c.Author != nil {
		author = c.Author.Username
	}
	post := c.PostID.String()
	if c.Post != nil {
		post = c.Post.Title
	}
	return fmt.Sprintf("%s under %s", author, post)
}
