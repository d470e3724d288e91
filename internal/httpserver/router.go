package httpserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const customerCtxKey = "customerID"

// buildRouter wires routes for the cart API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// The catalog is public; cart routes need a customer.
	router.GET("/v1/products", listProductsHandler(deps.ProductSvc))

	v1 := router.Group("/v1", customerMiddleware())
	{
		v1.GET("/cart", getCartHandler(deps.CartSvc))
		v1.POST("/cart/items", addItemHandler(deps.CartSvc))
		v1.PATCH("/cart/items", updateItemHandler(deps.CartSvc))
		v1.DELETE("/cart/items/:productID", removeItemHandler(deps.CartSvc))
		v1.DELETE("/cart", clearCartHandler(deps.CartSvc))
	}

	return router
}

// customerMiddleware resolves the customer from the bearer token. The
// reference deployment treats the token as the customer key directly; a real
// deployment would validate a session token here.
func customerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		c.Set(customerCtxKey, strings.TrimSpace(token))
		c.Next()
	}
}

func customerID(c *gin.Context) string {
	return c.GetString(customerCtxKey)
}
