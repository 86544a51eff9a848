package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/blog/internal/admin"
	"github.com/kutbudev/blog/pkg/repository"
)

// Resource is the set of CRUD endpoints for one registered model. Nil
// handlers are not mounted.
type Resource struct {
	List   gin.HandlerFunc
	Get    gin.HandlerFunc
	Create gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

// Handler serves the admin API.
type Handler struct {
	db       *repository.Database
	site     *admin.Site
	posts    *repository.PostRepository
	tags     *repository.TagRepository
	comments *repository.CommentRepository
	users    *repository.UserRepository
}

func New(db *repository.Database, site *admin.Site) *Handler {
	return &Handler{
		db:       db,
		site:     site,
		posts:    repository.NewPostRepository(db),
		tags:     repository.NewTagRepository(db),
		comments: repository.NewCommentRepository(db),
		users:    repository.NewUserRepository(db),
	}
}

// Resources returns the endpoints of every model the handler knows, keyed by
// admin model name.
func (h *Handler) Resources() map[string]Resource {
	return map[string]Resource{
		"post": {
			List: h.ListPosts, Get: h.GetPost, Create: h.CreatePost, Update: h.UpdatePost, Delete: h.DeletePost,
		},
		"tag": {
			List: h.ListTags, Get: h.GetTag, Create: h.CreateTag, Update: h.UpdateTag, Delete: h.DeleteTag,
		},
		"comment": {
			List: h.ListComments, Get: h.GetComment, Create: h.CreateComment, Delete: h.DeleteComment,
		},
		"user": {
			List: h.ListUsers, Get: h.GetUser, Create: h.CreateUser, Delete: h.DeleteUser,
		},
	}
}

// Index lists the registered models.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": h.site.Models()})
}

// Ping reports database health.
func (h *Handler) Ping(c *gin.Context) {
	if err := h.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
