package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savemymealng-tech/smm-app-sub000/internal/backend"
	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
	cartsvc "github.com/savemymealng-tech/smm-app-sub000/internal/service/cart"
)

// CartService is the slice of the cart service the handlers need.
type CartService interface {
	Get(ctx context.Context, customerID string) ([]domain.CartItem, error)
	Add(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) ([]domain.CartItem, error)
	Update(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) ([]domain.CartItem, error)
	Remove(ctx context.Context, customerID, productID string) ([]domain.CartItem, error)
	Clear(ctx context.Context, customerID string) error
}

// ProductLister exposes the catalog for browsing clients.
type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Deps carries the request-handling collaborators.
type Deps struct {
	CartSvc    CartService
	ProductSvc ProductLister
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Get(c.Request.Context(), customerID(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func addItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in backend.MutationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		items, err := svc.Add(c.Request.Context(), customerID(c), in.ProductID, in.Quantity, in.FulfillmentMethod)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func updateItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in backend.MutationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		items, err := svc.Update(c.Request.Context(), customerID(c), in.ProductID, in.Quantity, in.FulfillmentMethod)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func removeItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Remove(c.Request.Context(), customerID(c), c.Param("productID"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartResponse(items))
	}
}

func clearCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), customerID(c)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listProductsHandler(svc ProductLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc == nil {
			c.JSON(http.StatusOK, gin.H{"products": []any{}})
			return
		}
		products, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		out := make([]backend.Product, 0, len(products))
		for _, p := range products {
			out = append(out, toWireProduct(p))
		}
		c.JSON(http.StatusOK, gin.H{"products": out})
	}
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, cartsvc.ErrUnsupportedFulfillment):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
