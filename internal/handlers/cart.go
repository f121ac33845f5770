package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

type addCartItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

type updateQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// GetCart returns the session's cart: line items in insertion order, the
// badge count, and the price breakdown derived from the lines right now.
func GetCart(pricing cart.Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		s := middleware.FromContext(c)

		items := s.Cart.Items()
		c.JSON(http.StatusOK, gin.H{
			"items":     items,
			"count":     s.Cart.Count(),
			"breakdown": pricing.Breakdown(items),
		})
	}
}

// AddCartItem adds a line to the session's cart, merging quantities for an
// already-present (product, size, color) variant.
func AddCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart"
		defer handlePanic(c, route)

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if req.Quantity < 1 {
			req.Quantity = 1
		}

		s := middleware.FromContext(c)
		s.Cart.AddItem(c.Request.Context(), models.CartItem{
			ProductID: strings.TrimSpace(req.ProductID),
			Name:      strings.TrimSpace(req.Name),
			Price:     req.Price,
			Image:     req.Image,
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
		})

		c.JSON(http.StatusOK, gin.H{"count": s.Cart.Count()})
	}
}

// UpdateCartQuantity sets the quantity for a product's lines. A quantity
// below 1 removes them.
func UpdateCartQuantity() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/quantity"
		defer handlePanic(c, route)

		var req updateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		s := middleware.FromContext(c)
		s.Cart.UpdateQuantity(c.Request.Context(), strings.TrimSpace(req.ProductID), *req.Quantity)

		c.JSON(http.StatusOK, gin.H{"count": s.Cart.Count()})
	}
}

// RemoveCartItem removes every line for the given product id.
func RemoveCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/:productId"
		defer handlePanic(c, route)

		s := middleware.FromContext(c)
		s.Cart.RemoveItem(c.Request.Context(), strings.TrimSpace(c.Param("productId")))

		c.JSON(http.StatusOK, gin.H{"count": s.Cart.Count()})
	}
}

// ClearCart empties the session's cart and its persisted slot.
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		s := middleware.FromContext(c)
		s.Cart.Clear(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}
