package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/middleware"
)

// Checkout submits the session's cart as an order. Precondition failures map
// to client errors; a remote store failure is passed through verbatim and
// leaves the cart intact for retry.
func Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		s := middleware.FromContext(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		orderID, err := s.Checkout.Submit(ctx)
		switch {
		case errors.Is(err, cart.ErrUnauthenticated):
			respondWithError(c, http.StatusUnauthorized, route, "login required")
		case errors.Is(err, cart.ErrEmptyCart):
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
		case errors.Is(err, cart.ErrCheckoutInFlight):
			respondWithError(c, http.StatusConflict, route, "checkout already in progress")
		case err != nil:
			respondWithError(c, http.StatusBadGateway, route, err.Error())
		default:
			c.JSON(http.StatusCreated, gin.H{
				"orderId": orderID,
				"message": "order created",
			})
		}
	}
}
