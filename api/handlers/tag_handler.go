package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/blog/pkg/models"
)

// TagInput DTO for creating or renaming a tag
type TagInput struct {
	Title string `json:"title" binding:"required"`
}

// ListTags lists tags alphabetically, or by usage with ?ranking=popular.
func (h *Handler) ListTags(c *gin.Context) {
	limit, ok := limitQuery(c)
	if !ok {
		return
	}

	var (
		tags []*models.Tag
		err  error
	)
	switch ranking := c.Query("ranking"); ranking {
	case "popular":
		tags, err = h.tags.Popular(c.Request.Context(), limit)
	case "":
		tags, err = h.tags.List(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ranking " + ranking})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag retrieves a tag with its post count.
func (h *Handler) GetTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// CreateTag creates a new tag; the title is stored lowercase.
func (h *Handler) CreateTag(c *gin.Context) {
	var input TagInput
	if !bindJSON(c, &input) {
		return
	}
	tag := &models.Tag{Title: input.Title}
	if err := h.tags.Create(c.Request.Context(), tag); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// UpdateTag renames a tag.
func (h *Handler) UpdateTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input TagInput
	if !bindJSON(c, &input) {
		return
	}
	tag := &models.Tag{ID: id, Title: input.Title}
	if err := h.tags.Update(c.Request.Context(), tag); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// DeleteTag deletes a tag; tagged posts remain.
func (h *Handler) DeleteTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.tags.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted successfully"})
}
