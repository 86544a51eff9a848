package models

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag represents a tag in the system
type Tag struct {
	ID    uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Title string    `json:"title" gorm:"size:20;not null;uniqueIndex:idx_tags_title" validate:"required,max=20"`

	// Many-to-Many Relations
	Posts []*Post `json:"posts,omitempty" gorm:"many2many:post_tags"`

	// Annotations, filled by query helpers only
	PostsCount int64 `json:"posts_count" gorm:"->;-:migration"`
}

// Clean normalises the title to lowercase.
func (t *Tag) Clean() {
	t.Title = strings.ToLower(strings.TrimSpace(t.Title))
}

// Validate cleans the tag and checks its field constraints.
func (t *Tag) Validate() error {
	t.Clean()
	return check(t)
}

// BeforeCreate assigns a fresh id when the caller did not set one.
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps stored titles lowercase whatever path wrote them.
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	t.Clean()
	return nil
}

// URL returns the path of the page listing posts with this tag.
func (t *Tag) URL() string {
	return "/tag/" + url.PathEscape(t.Title)
}

func (t *Tag) String() string {
	return t.Title
}
