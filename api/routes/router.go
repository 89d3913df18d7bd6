package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "shopadmin/docs"
	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/members"
	"shopadmin/internal/orders"
	"shopadmin/internal/products"
	"shopadmin/internal/roles"
	"shopadmin/internal/shared/config"
	"shopadmin/internal/shared/database"
	"shopadmin/internal/shared/middleware"
	"shopadmin/pkg/cache"
	"shopadmin/pkg/logger"
	"shopadmin/pkg/ratelimit"
)

// Router holds all route dependencies. Everything is built once in NewRouter.
type Router struct {
	config      *config.Config
	db          *database.DB
	log         *logger.Logger
	tokens      *auth.TokenProvider
	roles       *auth.CachedRoleResolver
	rateLimiter *ratelimit.RateLimiter

	authHandler       *auth.Handler
	roleController    *roles.Controller
	memberController  *members.Controller
	productController *products.Controller
	orderController   *orders.Controller
}

// NewRouter wires repositories, services and controllers against db
func NewRouter(cfg *config.Config, db *database.DB, tokens *auth.TokenProvider, recorder *audit.Recorder, log *logger.Logger) *Router {
	pg := db.PostgreSQL
	cacheService := cache.NewService(db.Redis)

	roleRepo := roles.NewRepository(pg)
	memberRepo := members.NewRepository(pg)
	productRepo := products.NewRepository(pg)
	orderRepo := orders.NewRepository(pg)

	credentials := members.NewCredentialStore(memberRepo)
	roleResolver := auth.NewCachedRoleResolver(credentials, cacheService, cfg.Cache.RoleTTL)

	r := &Router{
		config: cfg,
		db:     db,
		log:    log,
		tokens: tokens,
		roles:  roleResolver,
		authHandler: auth.NewHandler(tokens, credentials, recorder, log, auth.CookieOptions{
			Secure:   cfg.Auth.CookieSecure,
			SameSite: http.SameSiteLaxMode,
		}),
		roleController: roles.NewController(roles.NewService(roleRepo, roleResolver, log)),
		memberController: members.NewController(
			members.NewService(memberRepo, roleRepo, roleResolver, recorder, log),
		),
		productController: products.NewController(
			products.NewService(productRepo, cacheService, cfg.Cache.ProductTTL, log),
		),
		orderController: orders.NewController(
			orders.NewService(orderRepo, memberRepo, productRepo, recorder),
		),
	}

	if cfg.RateLimit.Enabled && db.Redis != nil {
		r.rateLimiter = ratelimit.NewRateLimiter(db.Redis, &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			MemberRequests:  cfg.RateLimit.MemberRequests,
			HealthRequests:  cfg.RateLimit.HealthRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
	}
	return r
}

// Engine builds the gin engine. The invalidation filter runs before
// authorization so a logout never reaches a handler.
func (r *Router) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(r.log), gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Authorization", "Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.Metrics())

	if r.rateLimiter != nil {
		authPaths := []string{r.config.Auth.LoginPath, r.config.Auth.RefreshPath, r.config.Auth.InvalidationPath}
		engine.Use(ratelimit.Middleware(r.rateLimiter, authPaths, r.log))
	}

	engine.Use(r.authHandler.InvalidationFilter(r.config.Auth.InvalidationPath))
	engine.Use(middleware.Authorize(
		middleware.DefaultAccessPolicy(r.config.Auth.InvalidationPath),
		r.tokens,
		r.roles,
		r.log,
	))

	r.setupHealthRoutes(engine)
	auth.SetupAuthRoutes(engine, r.authHandler, r.config.Auth)
	roles.SetupRoleRoutes(engine, r.roleController)
	members.SetupMemberRoutes(engine, r.memberController)
	products.SetupProductRoutes(engine, r.productController)
	orders.SetupOrderRoutes(engine, r.orderController)

	return engine
}

// setupHealthRoutes sets up health, status, metrics and API docs routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "shopadmin-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "shopadmin-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "operational",
			"api_version":   r.config.APIVersion,
			"redis_cache":   r.db.Redis != nil,
			"rate_limiting": r.rateLimiter != nil,
			"timestamp":     time.Now(),
		})
	})

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
