// Package api serves the blog admin over JSON.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/kutbudev/blog/api/handlers"
	"github.com/kutbudev/blog/internal/admin"
	"github.com/kutbudev/blog/pkg/repository"
)

// NewRouter mounts the CRUD endpoints of every model registered on site,
// plus users and post likes which have no admin of their own.
func NewRouter(db *repository.Database, site *admin.Site) *gin.Engine {
	h := handlers.New(db, site)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/ping", h.Ping)

	resources := h.Resources()
	adm := r.Group("/admin")
	{
		adm.GET("/", h.Index)

		for _, m := range site.Models() {
			if res, ok := resources[m.Name]; ok {
				mount(r.Group(m.Path), res)
			}
		}
		mount(adm.Group("/users"), resources["user"])

		adm.POST("/posts/:id/likes", h.LikePost)
		adm.DELETE("/posts/:id/likes/:user_id", h.UnlikePost)
	}

	return r
}

func mount(g *gin.RouterGroup, res handlers.Resource) {
	if res.List != nil {
		g.GET("", res.List)
	}
	if res.Create != nil {
		g.POST("", res.Create)
	}
	if res.Get != nil {
		g.GET("/:id", res.Get)
	}
	if res.Update != nil {
		g.PUT("/:id", res.Update)
	}
	if res.Delete != nil {
		g.DELETE("/:id", res.Delete)
	}
}
