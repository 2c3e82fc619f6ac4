package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/config"
	"github.com/ValeriiSysoiev/AI-Enable-Cyber-Maturity-Assessment-2-sub003/internal/shared/server/middleware"
)

// RouteRegistrar attaches handler routes to an API group.
type RouteRegistrar interface {
	Register(api *gin.RouterGroup)
}

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	AssessmentHandler RouteRegistrar
	InsightsHandler   RouteRegistrar
}

// NewRouter builds the gin engine with shared middleware and API routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(deps.Config.CORSAllowOrigin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if deps.AssessmentHandler != nil {
		deps.AssessmentHandler.Register(api)
	}
	if deps.InsightsHandler != nil {
		deps.InsightsHandler.Register(api)
	}

	return r
}

// Addr normalizes a port value into a listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
