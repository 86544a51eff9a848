package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/gorm"
)

// CommentRepository reads and writes comments.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *Database) *CommentRepository {
	return &CommentRepository{db: db.DB}
}

// Create stores a comment after checking that its post and author exist.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Post{}, comment.PostID, "post"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.User{}, comment.AuthorID, "author"); err != nil {
			return err
		}
		if err := tx.Omit("Post", "Author").Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", translate(err))
		}
		return nil
	})
}

// Get returns a comment with its post and author.
func (r *CommentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Post").Preload("Author").First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListForPost returns a post's comments oldest first.
func (r *CommentRepository) ListForPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order(commentOrdering).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// List returns all comments oldest first.
func (r *CommentRepository) List(ctx context.Context, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Author").
		Scopes(limited(limit)).
		Order(commentOrdering).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CountForPost counts one post's comments.
func (r *CommentRepository) CountForPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

// Delete removes a single comment.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func mustExist(tx *gorm.DB, model any, id uuid.UUID, what string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %s", ErrInvalidReference, what, id)
	}
	return nil
}
