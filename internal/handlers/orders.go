package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/orders"
)

// GetOrders returns the logged-in user's order history, newest first.
func GetOrders(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		s := middleware.FromContext(c)
		id := s.Identity.Current()
		if id == nil {
			respondWithError(c, http.StatusUnauthorized, route, "login required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		history, err := store.QueryByEmail(ctx, id.Email)
		if err != nil {
			log.Println("[ORDER] [ERROR] history query failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, history)
	}
}
