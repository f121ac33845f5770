package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/identity"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/wishlist"
)

type addWishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func requireIdentity(c *gin.Context, route string) *identity.Identity {
	s := middleware.FromContext(c)
	id := s.Identity.Current()
	if id == nil {
		respondWithError(c, http.StatusUnauthorized, route, "login required")
		return nil
	}
	return id
}

// GetWishlist returns the logged-in user's saved products, newest first.
func GetWishlist(store *wishlist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /wishlist"
		defer handlePanic(c, route)

		id := requireIdentity(c, route)
		if id == nil {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		items, err := store.List(ctx, id.ID)
		if err != nil {
			log.Println("[WISHLIST] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// AddToWishlist saves a product for the logged-in user. The product snapshot
// is read from the catalog at save time.
func AddToWishlist(db *mongo.Database, store *wishlist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /wishlist"
		defer handlePanic(c, route)

		id := requireIdentity(c, route)
		if id == nil {
			return
		}

		var req addWishlistRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			log.Println("[WISHLIST] [ERROR] product lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := store.Add(ctx, id, product); err != nil {
			log.Println("[WISHLIST] [ERROR] add failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "added to wishlist"})
	}
}

// RemoveFromWishlist deletes the user's entry for a product.
func RemoveFromWishlist(store *wishlist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /wishlist/:productId"
		defer handlePanic(c, route)

		id := requireIdentity(c, route)
		if id == nil {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := store.Remove(ctx, id.ID, c.Param("productId")); err != nil {
			log.Println("[WISHLIST] [ERROR] remove failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "removed from wishlist"})
	}
}

// CheckWishlist reports whether the user has saved the product.
func CheckWishlist(store *wishlist.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /wishlist/:productId"
		defer handlePanic(c, route)

		id := requireIdentity(c, route)
		if id == nil {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		saved, err := store.Contains(ctx, id.ID, c.Param("productId"))
		if err != nil {
			log.Println("[WISHLIST] [ERROR] check failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"inWishlist": saved})
	}
}
