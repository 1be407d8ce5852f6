package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/infrastructure/auth"
	"github.com/yoquet/backend/internal/infrastructure/config"
	"github.com/yoquet/backend/internal/interfaces/http/middleware"
)

// Router owns the gin engine and its route groups. AuthPublic carries
// the auth rate limiter; Public does not.
type Router struct {
	Engine     *gin.Engine
	Public     *gin.RouterGroup
	AuthPublic *gin.RouterGroup
	Authed     *gin.RouterGroup
	Staff      *gin.RouterGroup
}

// New builds the engine with the middleware stack and the /api/v1
// route groups
func New(cfg *config.Config, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *Router {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	RegisterValidators()

	engine := gin.New()
	_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP.CORSAllowOrigins),
	)

	api := engine.Group("/api/v1")

	public := api.Group("")

	authPublic := api.Group("")
	if cfg.HTTP.AuthRateLimitEnabled {
		authPublic.Use(middleware.RateLimit(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
	}

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(jwtService, blacklist))

	staff := api.Group("")
	staff.Use(middleware.JWTAuth(jwtService, blacklist), middleware.StaffOnly())

	return &Router{
		Engine:     engine,
		Public:     public,
		AuthPublic: authPublic,
		Authed:     authed,
		Staff:      staff,
	}
}

// RegisterValidators adds the custom binding rules. Safe to call more
// than once.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// entirely numeric passwords are rejected; emptiness is left to
	// the required rule
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return true
			}
		}
		return false
	})
}
