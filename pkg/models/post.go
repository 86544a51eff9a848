package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Image references an uploaded picture together with its recorded dimensions.
type Image struct {
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Post represents a blog post written by a staff user.
type Post struct {
	ID          uuid.UUID                 `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string                    `json:"title" gorm:"size:200;not null" validate:"required,max=200"`
	Text        string                    `json:"text" gorm:"type:text;not null" validate:"required"`
	Slug        string                    `json:"slug" gorm:"size:200;not null;index:idx_posts_slug" validate:"required,max=200,slug"`
	Image       datatypes.JSONType[Image] `json:"image"`
	PublishedAt time.Time                 `json:"published_at" gorm:"not null;index:idx_posts_published_at" validate:"required"`
	AuthorID    uuid.UUID                 `json:"author_id" gorm:"not null;type:uuid;index:idx_posts_author"`

	// Foreign Key Relations
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`

	// One-to-Many Relations
	Comments []*Comment `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`

	// Many-to-Many Relations
	Likes []*User `json:"likes,omitempty" gorm:"many2many:post_likes"`
	Tags  []*Tag  `json:"tags,omitempty" gorm:"many2many:post_tags"`

	// Annotations, filled by query helpers only
	LikesCount    int64 `json:"likes_count" gorm:"->;-:migration"`
	CommentsCount int64 `json:"comments_count" gorm:"->;-:migration"`
	TagsCount     int64 `json:"tags_count" gorm:"->;-:migration"`
}

// BeforeCreate assigns a fresh id when the caller did not set one.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Validate checks the post's field constraints.
func (p *Post) Validate() error {
	return check(p)
}

// URL returns the path of the post's detail page.
func (p *Post) URL() string {
	return "/post/" + url.PathEscape(p.Slug)
}

func (p *Post) String() string {
	return p.Title
}
