// Package router sets up the HTTP routes for the Scriptlab API server.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/roguepikachu/scriptlab/internal/http/handler"
	"github.com/roguepikachu/scriptlab/internal/http/middleware"
	"github.com/roguepikachu/scriptlab/pkg"
)

// NewRouter initializes the Gin engine with middleware and all routes.
func NewRouter(h *handler.Handler, hh *handler.HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestIDMiddleware(),
		middleware.RequestLogger(pkg.LivenessPath, pkg.ReadinessPath),
		middleware.Recovery(),
	)

	r.GET(pkg.HealthCheckPath, handler.Health)
	r.GET(pkg.LivenessPath, hh.Liveness)
	r.GET(pkg.ReadinessPath, hh.Readiness)

	v1 := r.Group(pkg.BasePath, middleware.Confirmation())
	{
		v1.GET(pkg.SnippetsPath, h.List)
		v1.POST(pkg.SnippetsPath, h.Create)
		v1.DELETE(pkg.SnippetsPath, h.DeleteAll)
		v1.GET(pkg.SnippetPath, h.Get)
		v1.PUT(pkg.SnippetPath, h.Update)
		v1.DELETE(pkg.SnippetPath, h.Delete)
		v1.POST(pkg.DuplicatePath, h.Duplicate)
		v1.GET(pkg.PlaylistPath, h.Playlist)
	}
	return r
}
