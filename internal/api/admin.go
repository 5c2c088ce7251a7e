package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/webstaxinc/agra-sweets/internal/models"
	"github.com/webstaxinc/agra-sweets/internal/service"
)

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.storefront.GetAllOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.FilterOrders(orders, service.OrderFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}))
}

func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.storefront.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) adminAdvanceOrder(c *gin.Context) {
	order, err := h.storefront.AdvanceOrderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) adminListProducts(c *gin.Context) {
	products, err := h.storefront.GetAllProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.SearchProducts(products, service.ProductFilter{
		Query:             c.Query("q"),
		MatchCategoryText: true,
	}))
}

func (h *Handler) adminAddProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.storefront.AddProduct(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) adminUpdateProduct(c *gin.Context) {
	var req service.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.storefront.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) adminDeleteProduct(c *gin.Context) {
	removed, err := h.storefront.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adminAnalytics(c *gin.Context) {
	r := models.TimeRange(c.DefaultQuery("range", string(models.RangeDaily)))

	report, err := h.storefront.Analytics(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
