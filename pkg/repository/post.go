package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository reads and writes posts and their like/tag associations.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *Database) *PostRepository {
	return &PostRepository{db: db.DB}
}

// Create stores a new post. Tags and Likes are treated as references: only
// their ids are read and every id must exist.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkStaffAuthor(tx, post.AuthorID); err != nil {
			return err
		}

		tags, err := loadTags(tx, post.Tags)
		if err != nil {
			return err
		}
		likes, err := loadUsers(tx, post.Likes)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", translate(err))
		}

		return replaceAssociations(tx, post, tags, likes)
	})
}

// Update saves every column of post. Tags and Likes are replaced only when
// non-nil; an empty slice clears them.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		if err := tx.Select("id").First(&existing, "id = ?", post.ID).Error; err != nil {
			return translate(err)
		}
		if err := checkStaffAuthor(tx, post.AuthorID); err != nil {
			return err
		}

		tags, err := loadTags(tx, post.Tags)
		if err != nil {
			return err
		}
		likes, err := loadUsers(tx, post.Likes)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return fmt.Errorf("failed to update post: %w", translate(err))
		}

		return replaceAssociations(tx, post, tags, likes)
	})
}

// Get returns a post with its author, likes and tags.
func (r *PostRepository) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return r.first(ctx, "posts.id = ?", id)
}

// GetBySlug returns the newest post with the given slug.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.first(ctx, "posts.slug = ?", slug)
}

func (r *PostRepository) first(ctx context.Context, query string, arg any) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, PrefetchTagsWithPostsCount).
		Preload("Likes", func(tx *gorm.DB) *gorm.DB { return tx.Order(userOrdering) }).
		Order(postOrdering).
		First(&post, query, arg).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := r.FetchWithCommentsCount(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns posts newest first with authors, tags and comment counts loaded.
func (r *PostRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Scopes(withAuthor, PrefetchTagsWithPostsCount, limited(limit)).
		Order(postOrdering).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err := r.FetchWithCommentsCount(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Popular returns posts ranked by like count, most liked first.
func (r *PostRepository) Popular(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(PopularPosts, withAuthor, PrefetchTagsWithPostsCount, limited(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list popular posts: %w", err)
	}
	if err := r.FetchWithCommentsCount(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Fresh returns posts newest first, each annotated with its comment count.
func (r *PostRepository) Fresh(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(FreshPosts, withAuthor, PrefetchTagsWithPostsCount, limited(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list fresh posts: %w", err)
	}
	return posts, nil
}

// WithTagsCount returns posts newest first, each annotated with its tag count.
func (r *PostRepository) WithTagsCount(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(PostsWithTagsCount, limited(limit)).
		Order(postOrdering).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count post tags: %w", err)
	}
	return posts, nil
}

// ListByTag returns the posts carrying the tag with the given title, newest first.
func (r *PostRepository) ListByTag(ctx context.Context, title string, limit int) ([]*models.Post, error) {
	tag := models.Tag{Title: title}
	tag.Clean()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Select("posts.*").
		Scopes(withAuthor, PrefetchTagsWithPostsCount, limited(limit)).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.title = ?", tag.Title).
		Order(postOrdering).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by tag: %w", err)
	}
	if err := r.FetchWithCommentsCount(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FetchWithCommentsCount sets CommentsCount on every post using one grouped
// query over comments instead of one count per post.
func (r *PostRepository) FetchWithCommentsCount(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []struct {
		PostID        uuid.UUID
		CommentsCount int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("post_id, COUNT(*) AS comments_count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.CommentsCount
	}
	for _, p := range posts {
		p.CommentsCount = counts[p.ID]
	}
	return nil
}

// Delete removes a post together with its comments and association rows.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePost(tx, id)
	})
}

func deletePost(tx *gorm.DB, id uuid.UUID) error {
	var post models.Post
	if err := tx.Select("id").First(&post, "id = ?", id).Error; err != nil {
		return translate(err)
	}
	if err := tx.Select(clause.Associations).Delete(&post).Error; err != nil {
		return fmt.Errorf("failed to delete post: %w", translate(err))
	}
	return nil
}

// Like records that the user liked the post. Liking twice is a no-op.
func (r *PostRepository) Like(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, user, err := loadPostAndUser(tx, postID, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(post).Association("Likes").Append(user); err != nil {
			return fmt.Errorf("failed to like post: %w", translate(err))
		}
		return nil
	})
}

// Unlike removes the user's like from the post if present.
func (r *PostRepository) Unlike(ctx context.Context, postID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, user, err := loadPostAndUser(tx, postID, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(post).Association("Likes").Delete(user); err != nil {
			return fmt.Errorf("failed to unlike post: %w", translate(err))
		}
		return nil
	})
}

// SetTags replaces the post's tags with the given ones.
func (r *PostRepository) SetTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return translate(err)
		}

		refs := make([]*models.Tag, 0, len(tagIDs))
		for _, id := range tagIDs {
			refs = append(refs, &models.Tag{ID: id})
		}
		tags, err := loadTags(tx, refs)
		if err != nil {
			return err
		}
		return replaceAssociations(tx, &post, tags, nil)
	})
}

func checkStaffAuthor(tx *gorm.DB, authorID uuid.UUID) error {
	var author models.User
	if err := tx.Select("id", "is_staff").First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: author %s", ErrInvalidReference, authorID)
		}
		return err
	}
	if !author.IsStaff {
		return ErrAuthorNotStaff
	}
	return nil
}

func loadPostAndUser(tx *gorm.DB, postID, userID uuid.UUID) (*models.Post, *models.User, error) {
	var post models.Post
	if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
		return nil, nil, translate(err)
	}
	var user models.User
	if err := tx.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: user %s", ErrInvalidReference, userID)
		}
		return nil, nil, err
	}
	return &post, &user, nil
}

// loadTags resolves tag references by id. A nil input stays nil so callers
// can tell "leave unchanged" from "clear".
func loadTags(tx *gorm.DB, refs []*models.Tag) ([]*models.Tag, error) {
	if refs == nil {
		return nil, nil
	}
	ids := uniqueIDs(len(refs), func(i int) uuid.UUID { return refs[i].ID })
	tags := make([]*models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d tags exist", ErrInvalidReference, len(tags), len(ids))
	}
	return tags, nil
}

func loadUsers(tx *gorm.DB, refs []*models.User) ([]*models.User, error) {
	if refs == nil {
		return nil, nil
	}
	ids := uniqueIDs(len(refs), func(i int) uuid.UUID { return refs[i].ID })
	users := make([]*models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, fmt.Errorf("%w: %d of %d users exist", ErrInvalidReference, len(users), len(ids))
	}
	return users, nil
}

func uniqueIDs(n int, at func(int) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, n)
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		id := at(i)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func replaceAssociations(tx *gorm.DB, post *models.Post, tags []*models.Tag, likes []*models.User) error {
	if tags != nil {
		if err := replaceOrClear(tx.Model(post).Association("Tags"), tags, len(tags)); err != nil {
			return fmt.Errorf("failed to set tags: %w", translate(err))
		}
	}
	if likes != nil {
		if err := replaceOrClear(tx.Model(post).Association("Likes"), likes, len(likes)); err != nil {
			return fmt.Errorf("failed to set likes: %w", translate(err))
		}
	}
	return nil
}

func replaceOrClear(assoc *gorm.Association, values any, n int) error {
	if n == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}
