package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/gorm"
)

// TagRepository reads and writes tags.
type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *Database) *TagRepository {
	return &TagRepository{db: db.DB}
}

// Create validates (and lowercases) the tag, then stores it.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTitleFree(tx, tag.Title, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Omit("Posts").Create(tag).Error; err != nil {
			return translateTagErr(err)
		}
		return nil
	})
}

// Update renames a tag.
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Tag
		if err := tx.First(&existing, "id = ?", tag.ID).Error; err != nil {
			return translate(err)
		}
		if err := checkTitleFree(tx, tag.Title, tag.ID); err != nil {
			return err
		}
		if err := tx.Model(&existing).Update("title", tag.Title).Error; err != nil {
			return translateTagErr(err)
		}
		return nil
	})
}

// Get returns a tag annotated with its post count.
func (r *TagRepository) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Scopes(TagsWithPostsCount).First(&tag, "tags.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// GetByTitle looks a tag up by title, case-insensitively.
func (r *TagRepository) GetByTitle(ctx context.Context, title string) (*models.Tag, error) {
	probe := models.Tag{Title: title}
	probe.Clean()

	var tag models.Tag
	err := r.db.WithContext(ctx).Scopes(TagsWithPostsCount).First(&tag, "tags.title = ?", probe.Title).Error
	if err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

// List returns tags alphabetically, each annotated with its post count.
func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Scopes(TagsWithPostsCount).
		Order(tagOrdering).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Popular returns tags ranked by how many posts use them.
func (r *TagRepository) Popular(ctx context.Context, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Scopes(PopularTags, limited(limit)).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list popular tags: %w", err)
	}
	return tags, nil
}

// Delete removes a tag and its post associations; the posts stay.
func (r *TagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Select("Posts").Delete(&tag).Error; err != nil {
			return fmt.Errorf("failed to delete tag: %w", translate(err))
		}
		return nil
	})
}

func checkTitleFree(tx *gorm.DB, title string, self uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Tag{}).Where("title = ?", title)
	if self != uuid.Nil {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateTag, title)
	}
	return nil
}

func translateTagErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicateTag, err)
	}
	return translate(err)
}
