package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/gorm"
)

// UserRepository reads and writes users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *Database) *UserRepository {
	return &UserRepository{db: db.DB}
}

// Create stores a user; usernames are unique.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %q", ErrDuplicateUsername, user.Username)
		}

		if err := tx.Omit("Posts", "Comments", "LikedPosts").Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %v", ErrDuplicateUsername, err)
			}
			return fmt.Errorf("failed to create user: %w", translate(err))
		}
		return nil
	})
}

// Get returns a user by id.
func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns users alphabetically. staffOnly restricts the result to users
// allowed to author posts.
func (r *UserRepository) List(ctx context.Context, staffOnly bool) ([]*models.User, error) {
	q := r.db.WithContext(ctx).Order(userOrdering)
	if staffOnly {
		q = q.Where("is_staff = ?", true)
	}

	var users []*models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete removes a user with everything that cascades from it: authored
// posts (and their comments), authored comments and likes.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		var postIDs []uuid.UUID
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := deletePost(tx, postID); err != nil {
				return err
			}
		}

		if err := tx.Select("Comments", "LikedPosts").Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", translate(err))
		}
		return nil
	})
}
