package handlers

import (
	"time"

	_ "cards_api/docs"
	"cards_api/internal/logger"
	"cards_api/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options tunes the HTTP surface. Zero values fall back to defaults.
type Options struct {
	TokenRateLimit  int
	TokenRateWindow time.Duration
	AllowedOrigins  []string
}

const (
	defaultTokenRateLimit  = 20
	defaultTokenRateWindow = time.Minute
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies. A nil logger
// discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{services: services, log: log}
	if len(opts) > 0 {
		h.opts = opts[0]
	}
	if h.opts.TokenRateLimit <= 0 {
		h.opts.TokenRateLimit = defaultTokenRateLimit
	}
	if h.opts.TokenRateWindow <= 0 {
		h.opts.TokenRateWindow = defaultTokenRateWindow
	}
	if len(h.opts.AllowedOrigins) == 0 {
		h.opts.AllowedOrigins = []string{"*"}
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(h.requestLogger, h.recovery(), h.corsMiddleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerCardRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/getToken", h.tokenRateLimiter(), h.getToken)
}

func (h *Handler) registerCardRoutes(r *gin.Engine) {
	api := r.Group("/", h.tokenMiddleware)
	{
		cards := api.Group("/cards")
		{
			cards.GET("", h.listCards)
			cards.POST("/create", h.createCard)
			cards.GET("/count", h.countCards)
			cards.GET("/random", h.randomCard)
			cards.PUT("/:id", h.updateCard)
			cards.DELETE("/:id", h.deleteCard)
		}

		api.GET("/sets", h.distinct(fieldSet))
		api.GET("/types", h.distinct(fieldType))
		api.GET("/rarities", h.distinct(fieldRarity))

		api.GET("/ws/cards", h.wsCardCount)
	}
}
