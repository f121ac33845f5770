package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/session"
	"storefront/internal/wishlist"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}
	if err := database.EnsureWishlistIndexes(db); err != nil {
		log.Printf("⚠️ wishlist index warning: %v", err)
	}

	var slot cart.Slot
	if config.AppEnv.RedisAddr != "" {
		slot = cart.NewRedisSlot(redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr}))
		log.Println("Redis cart slot at:", config.AppEnv.RedisAddr)
	} else {
		slot = cart.NewMemorySlot()
		log.Println("⚠️ REDIS_ADDR not set, carts will not survive restarts")
	}

	pricing := cart.Pricing{
		FreeShippingThreshold: config.AppEnv.FreeShippingThreshold,
		FlatShippingFee:       config.AppEnv.FlatShippingFee,
		TaxRate:               config.AppEnv.TaxRate,
	}

	orderStore := orders.NewStore(db)
	wishlistStore := wishlist.NewStore(db)
	registry := session.NewRegistry(slot, orderStore, pricing)

	r := gin.Default()
	r.Use(middleware.Attach(registry, config.AppEnv.JWTSecret))

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/logout", handlers.Logout())
	r.GET("/auth/me", handlers.GetMe())

	r.GET("/products", handlers.GetProducts(db))

	r.GET("/cart", handlers.GetCart(pricing))
	r.POST("/cart", handlers.AddCartItem())
	r.PUT("/cart/quantity", handlers.UpdateCartQuantity())
	r.DELETE("/cart/:productId", handlers.RemoveCartItem())
	r.DELETE("/cart", handlers.ClearCart())

	r.POST("/checkout", handlers.Checkout())
	r.GET("/orders", handlers.GetOrders(orderStore))

	r.GET("/wishlist", handlers.GetWishlist(wishlistStore))
	r.POST("/wishlist", handlers.AddToWishlist(db, wishlistStore))
	r.DELETE("/wishlist/:productId", handlers.RemoveFromWishlist(wishlistStore))
	r.GET("/wishlist/:productId", handlers.CheckWishlist(wishlistStore))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
