package service

import (
	"context"

	"github.com/tmdt/furnishop/internal/core/domain"
)

func (s *Service) GetCart(ctx context.Context, userID uint64) ([]domain.CartItem, error) {
	return s.repo.ListCartItems(ctx, userID)
}

// AddToCart snapshots the product's effective price into the cart line.
// Checkout later prices from this snapshot, not from the live catalog.
func (s *Service) AddToCart(ctx context.Context, userID uint64, productID uint64, quantity int32) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrBadRequest
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.StockQuantity < quantity {
		return nil, &domain.StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	item := &domain.CartItem{
		UserID:      userID,
		ProductID:   productID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.EffectivePrice(),
	}

	return s.repo.UpsertCartItem(ctx, item)
}

func (s *Service) RemoveFromCart(ctx context.Context, userID uint64, itemID uint64) error {
	return s.repo.RemoveCartItem(ctx, userID, itemID)
}
