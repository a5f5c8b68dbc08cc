// Package router mounts every HTTP route on a gin engine.
package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"referearn_backend/internal/app/di"
	"referearn_backend/internal/platform/http/middleware"
	jwtmw "referearn_backend/internal/platform/jwt"
)

// Options configures the middleware stack.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(opts Options, h *di.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(opts.AllowedOrigins),
		middleware.Timeout(opts.RequestTimeout),
	)

	// No authentication required
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	limited := h.AuthLimiter.Middleware()
	r.POST("/register", limited, h.Account.Register)
	r.POST("/login", limited, h.Account.Login)
	r.POST("/refresh", h.Account.Refresh)
	r.POST("/logout", h.Account.Logout)
	r.GET("/courses", h.Course.List)

	// Routes below need a bearer access token
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/me", h.Account.Me)
		auth.GET("/dashboard", h.Dashboard.Get)
		auth.POST("/courses/:id/purchase", h.Purchase.Purchase)
	}

	return r
}
