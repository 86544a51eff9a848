package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/datatypes"
)

// PostInput DTO for creating or replacing a post. Tags and likes are raw-id fields.
type PostInput struct {
	Title       string       `json:"title" binding:"required"`
	Text        string       `json:"text" binding:"required"`
	Slug        string       `json:"slug" binding:"required"`
	Image       models.Image `json:"image"`
	PublishedAt time.Time    `json:"published_at" binding:"required"`
	AuthorID    uuid.UUID    `json:"author_id" binding:"required"`
	TagIDs      []uuid.UUID  `json:"tag_ids" binding:"required,min=1"`
	LikeIDs     []uuid.UUID  `json:"like_ids"`
}

func (in PostInput) toModel() *models.Post {
	post := &models.Post{
		Title:       in.Title,
		Text:        in.Text,
		Slug:        in.Slug,
		Image:       datatypes.NewJSONType(in.Image),
		PublishedAt: in.PublishedAt,
		AuthorID:    in.AuthorID,
		Tags:        make([]*models.Tag, 0, len(in.TagIDs)),
		Likes:       make([]*models.User, 0, len(in.LikeIDs)),
	}
	for _, id := range in.TagIDs {
		post.Tags = append(post.Tags, &models.Tag{ID: id})
	}
	for _, id := range in.LikeIDs {
		post.Likes = append(post.Likes, &models.User{ID: id})
	}
	return post
}

// ListPosts lists posts. ?ranking=popular orders by likes, ?ranking=fresh by
// publication with comment counts; ?tag= filters by tag title and cannot be
// combined with a ranking.
func (h *Handler) ListPosts(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	if c.Query("ranking") != "" && c.Query("tag") != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ranking and tag cannot be combined"})
		return
	}

	var (
		posts []*models.Post
		err   error
	)
	ctx := c.Request.Context()
	switch ranking := c.Query("ranking"); {
	case ranking == "popular":
		posts, err = h.posts.Popular(ctx, limit)
	case ranking == "fresh":
		posts, err = h.posts.Fresh(ctx, limit)
	case ranking != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ranking " + ranking})
		return
	case c.Query("tag") != "":
		posts, err = h.posts.ListByTag(ctx, c.Query("tag"), limit)
	default:
		posts, err = h.posts.List(ctx, limit)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost retrieves a single post by its ID.
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost creates a new post.
func (h *Handler) CreatePost(c *gin.Context) {
	var input PostInput
	if !bindJSON(c, &input) {
		return
	}

	post := input.toModel()
	if err := h.posts.Create(c.Request.Context(), post); err != nil {
		respondError(c, err)
		return
	}

	h.respondPost(c, http.StatusCreated, post.ID)
}

// UpdatePost replaces an existing post, including its tags and likes.
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input PostInput
	if !bindJSON(c, &input) {
		return
	}

	post := input.toModel()
	post.ID = id
	if err := h.posts.Update(c.Request.Context(), post); err != nil {
		respondError(c, err)
		return
	}

	h.respondPost(c, http.StatusOK, id)
}

// DeletePost deletes a post and its comments.
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikeInput DTO for liking a post
type LikeInput struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// LikePost adds a user's like to a post.
func (h *Handler) LikePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input LikeInput
	if !bindJSON(c, &input) {
		return
	}
	if err := h.posts.Like(c.Request.Context(), id, input.UserID); err != nil {
		respondError(c, err)
		return
	}
	h.respondPost(c, http.StatusOK, id)
}

// UnlikePost removes a user's like from a post.
func (h *Handler) UnlikePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.posts.Unlike(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	h.respondPost(c, http.StatusOK, id)
}

// respondPost reloads the post so the response carries its relations.
func (h *Handler) respondPost(c *gin.Context, status int, id uuid.UUID) {
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, post)
}
