package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/service"
	"github.com/webstaxinc/agra-sweets/internal/util"
)

const userKey = "current_user"

// Handler contains HTTP handlers
type Handler struct {
	storefront *service.Storefront
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.Storefront) *Handler {
	return &Handler{
		storefront: storefront,
		logger:     util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(h.requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/session/login", h.login)
		v1.POST("/session/logout", h.logout)
		v1.GET("/session", h.session)

		v1.GET("/communities", h.listCommunities)
		v1.GET("/communities/:id", h.getCommunity)
		v1.GET("/communities/:id/products", h.communityProducts)
		v1.GET("/products/categories", h.categories)

		v1.GET("/cart", h.getCart)
		v1.GET("/cart/details", h.getCartDetails)
		v1.POST("/cart/items", h.addCartItem)
		v1.PUT("/cart/items/:productId", h.updateCartItem)
		v1.DELETE("/cart/items/:productId", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.POST("/orders", h.requireUser(), h.createOrder)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/me/orders", h.requireUser(), h.myOrders)
	}

	admin := v1.Group("/admin", h.requireUser(), requireAdmin())
	{
		admin.GET("/orders", h.adminListOrders)
		admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)
		admin.POST("/orders/:id/advance", h.adminAdvanceOrder)

		admin.GET("/products", h.adminListProducts)
		admin.POST("/products", h.adminAddProduct)
		admin.PATCH("/products/:id", h.adminUpdateProduct)
		admin.DELETE("/products/:id", h.adminDeleteProduct)

		admin.GET("/analytics", h.adminAnalytics)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the store answers
func (h *Handler) readinessCheck(c *gin.Context) {
	if _, err := h.storefront.GetCart(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unavailable",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// requireUser loads the session user, answering 401 without one
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.storefront.CurrentUser(c.Request.Context())
		if err != nil {
			h.respondError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Login required"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// requireAdmin must run after requireUser
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessionUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized access"})
			return
		}
		c.Next()
	}
}

func sessionUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// respondError maps service outcomes to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrInvalidState):
		status, message = http.StatusBadRequest, "Invalid state"
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidPrice):
		status, message = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, service.ErrInvalidTransition):
		status, message = http.StatusConflict, "Invalid status transition"
	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// requestLogger logs one line per request
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
