package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/identity"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account, logs the session in, and returns an
// access token.
func Register(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "could not hash password")
			return
		}

		now := time.Now().UTC()
		user := models.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         strings.TrimSpace(req.Name),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "email already registered")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		id := &identity.Identity{ID: objectIDHex(res.InsertedID), Email: email}
		finishLogin(c, route, id, jwtSecret, accessTTL)
	}
}

// Login verifies credentials, pushes the identity into the session observer
// (swapping the active cart to the user's persisted one), and returns an
// access token.
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}
		if err != nil {
			log.Println("[AUTH] [ERROR] login lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		id := &identity.Identity{ID: user.ID.Hex(), Email: user.Email}
		finishLogin(c, route, id, jwtSecret, accessTTL)
	}
}

// Logout reverts the session to guest. The user's cart stays persisted under
// their own slot; the session switches back to the guest cart.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.FromContext(c)
		s.Identity.Set(nil)

		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// GetMe reports the session's current identity, or null for guests.
func GetMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.FromContext(c)
		c.JSON(http.StatusOK, gin.H{"identity": s.Identity.Current()})
	}
}

func objectIDHex(v interface{}) string {
	if id, ok := v.(primitive.ObjectID); ok {
		return id.Hex()
	}
	return ""
}

func finishLogin(c *gin.Context, route string, id *identity.Identity, jwtSecret string, accessTTL time.Duration) {
	token, err := identity.NewToken(id, jwtSecret, accessTTL)
	if err != nil {
		log.Println("[AUTH] [ERROR] token signing failed:", err)
		respondWithError(c, http.StatusInternalServerError, route, "could not issue token")
		return
	}

	s := middleware.FromContext(c)
	s.Identity.Set(id)
	log.Println("[AUTH] [INFO] session logged in:", id.Email)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"expiresIn":   int64(accessTTL.Seconds()),
		"user":        id,
	})
}
