package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"balcvetov/api/internal/config"
	"balcvetov/api/internal/database"
	"balcvetov/api/internal/middleware"
	"balcvetov/api/internal/models"
	"balcvetov/api/internal/repository"
	"balcvetov/api/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	db        database.Pool
	cache     *redis.Client
	auth      *service.AuthService
	orders    *service.OrderService
	pricelist *service.PricelistService
	products  *repository.ProductRepository
	orderRepo *repository.OrderRepository
	blog      *repository.BlogRepository
	customers *repository.CustomerRepository
	reports   *repository.ReportRepository
}

// NewHandlerSet wires the handlers. cache may be nil, which disables rate
// limiting and reports the cache as disabled in health checks.
func NewHandlerSet(log zerolog.Logger, db database.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		db:        db,
		cache:     cache,
		auth:      service.NewAuthService(db, log),
		orders:    service.NewOrderService(db, log),
		pricelist: service.NewPricelistService(db),
		products:  repository.NewProductRepository(db),
		orderRepo: repository.NewOrderRepository(db),
		blog:      repository.NewBlogRepository(db),
		customers: repository.NewCustomerRepository(db),
		reports:   repository.NewReportRepository(db),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	origins := h.cfg.AllowCORSOrigins
	get, post, put, options := http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions

	router.Any("/auth",
		middleware.CORS(origins, get, post, options),
		middleware.RateLimit(h.cfg.RateLimit, h.cache, "register", "login"),
		h.Auth,
	)
	router.Any("/products", middleware.CORS(origins, get, post, put, options), h.Products)
	router.Any("/orders", middleware.CORS(origins, get, post, options), h.Orders)
	router.Any("/blog", middleware.CORS(origins, get, post, put, options), h.Blog)
	router.Any("/admin",
		middleware.CORS(origins, get, put, options),
		middleware.Auth(h.auth.Sessions(), isPublicAdminRequest),
		middleware.RequireRoles(models.UserRoleAdmin),
		h.Admin,
	)
}

// The storefront downloads the price list with a plain link, without a token.
func isPublicAdminRequest(c *gin.Context) bool {
	return c.Query("path") == "export"
}
