package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/savemymealng-tech/smm-app-sub000/internal/domain"
)

// ErrUnsupportedFulfillment indicates a method the product cannot honor.
var ErrUnsupportedFulfillment = errors.New("fulfillment method not supported by product")

type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	List(ctx context.Context, customerID string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, customerID string, product domain.Product, quantity int, method domain.FulfillmentMethod, requiresChoice bool) error
	UpdateItem(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) error
	RemoveItem(ctx context.Context, customerID, productID string) error
	Clear(ctx context.Context, customerID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

// Get returns the customer's cart lines.
func (s *Service) Get(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	return s.repo.List(ctx, customerID)
}

// Add puts quantity units of a product into the customer's cart and returns
// the resulting lines. The product snapshot is taken here, at add time.
func (s *Service) Add(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !method.Valid() {
		return nil, ErrUnsupportedFulfillment
	}
	if s.productRepo == nil {
		return nil, errors.New("product repository unavailable")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	if method != domain.FulfillmentUnset && !product.Supports(method) {
		return nil, ErrUnsupportedFulfillment
	}

	effective, requiresChoice := domain.ChooseFulfillment(*product, method)
	if err := s.repo.AddItem(ctx, customerID, *product, quantity, effective, requiresChoice); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, customerID)
}

// Update changes quantity and optionally the fulfillment method of the
// customer's line for productID.
func (s *Service) Update(ctx context.Context, customerID, productID string, quantity int, method domain.FulfillmentMethod) ([]domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !method.Valid() {
		return nil, ErrUnsupportedFulfillment
	}
	if err := s.repo.UpdateItem(ctx, customerID, productID, quantity, method); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, customerID)
}

// Remove deletes the customer's line for productID. Removing an absent line
// succeeds; the cart ends in the requested state either way.
func (s *Service) Remove(ctx context.Context, customerID, productID string) ([]domain.CartItem, error) {
	if err := s.repo.RemoveItem(ctx, customerID, productID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, customerID)
}

// Clear empties the customer's cart.
func (s *Service) Clear(ctx context.Context, customerID string) error {
	return s.repo.Clear(ctx, customerID)
}
