package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/blog/pkg/models"
)

// UserInput DTO for creating a user
type UserInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

// ListUsers lists users; ?staff=true keeps only possible post authors.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("staff") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser retrieves a single user.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser creates a user.
func (h *Handler) CreateUser(c *gin.Context) {
	var input UserInput
	if !bindJSON(c, &input) {
		return
	}
	user := &models.User{Username: input.Username, Email: input.Email, IsStaff: input.IsStaff}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// DeleteUser deletes a user with their posts, comments and likes.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
