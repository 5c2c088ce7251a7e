package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webstaxinc/agra-sweets/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
}

type addCartItemRequest struct {
	CommunityID string `json:"communityId" binding:"required"`
	ProductID   string `json:"productId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// quantity may be zero or negative to remove the item
type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.storefront.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.storefront.Logout(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	user, err := h.storefront.CurrentUser(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) listCommunities(c *gin.Context) {
	c.JSON(http.StatusOK, h.storefront.Communities())
}

func (h *Handler) getCommunity(c *gin.Context) {
	community, err := h.storefront.Community(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// communityProducts lists the shared catalog as seen from one community
func (h *Handler) communityProducts(c *gin.Context) {
	community, err := h.storefront.Community(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	products, err := h.storefront.GetAllProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"community":  community,
		"categories": service.Categories(products),
		"products": service.SearchProducts(products, service.ProductFilter{
			Query:    c.Query("q"),
			Category: c.Query("category"),
		}),
	})
}

func (h *Handler) categories(c *gin.Context) {
	products, err := h.storefront.GetAllProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.Categories(products))
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.storefront.GetCart(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) getCartDetails(c *gin.Context) {
	details, err := h.storefront.GetCartDetails(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart, err := h.storefront.AddToCart(c.Request.Context(), req.CommunityID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cart, err := h.storefront.UpdateCartItemQuantity(c.Request.Context(), c.Param("productId"), *req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	cart, err := h.storefront.RemoveFromCart(c.Request.Context(), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.storefront.ClearCart(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// createOrder handles checkout
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.storefront.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// getOrder serves the receipt page
func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.storefront.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) myOrders(c *gin.Context) {
	orders, err := h.storefront.OrdersForCustomer(c.Request.Context(), sessionUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
