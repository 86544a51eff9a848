package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kutbudev/blog/pkg/models"
)

// CommentInput DTO for adding a comment. Post and author are raw-id fields.
type CommentInput struct {
	PostID      uuid.UUID `json:"post_id" binding:"required"`
	AuthorID    uuid.UUID `json:"author_id" binding:"required"`
	Text        string    `json:"text" binding:"required"`
	PublishedAt time.Time `json:"published_at"`
}

// ListComments lists comments oldest first, optionally for one ?post_id=.
func (h *Handler) ListComments(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("post_id"); raw != "" {
		postID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post_id"})
			return
		}
		comments, err := h.comments.ListForPost(ctx, postID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, comments)
		return
	}

	limit, ok := limitQuery(c)
	if !ok {
		return
	}
	comments, err := h.comments.List(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// GetComment retrieves a single comment.
func (h *Handler) GetComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comment, err := h.comments.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// CreateComment adds a comment; published_at defaults to now.
func (h *Handler) CreateComment(c *gin.Context) {
	var input CommentInput
	if !bindJSON(c, &input) {
		return
	}
	if input.PublishedAt.IsZero() {
		input.PublishedAt = time.Now().UTC()
	}

	comment := &models.Comment{
		PostID:      input.PostID,
		AuthorID:    input.AuthorID,
		Text:        input.Text,
		PublishedAt: input.PublishedAt,
	}
	if err := h.comments.Create(c.Request.Context(), comment); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment deletes a single comment.
func (h *Handler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
