package store

import (
	"context" // Request scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"pizza_delivery/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// OrderStore persists orders
type OrderStore struct {
	db *gorm.DB
}

// NewOrderStore creates an OrderStore backed by db
func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create inserts order
func (s *OrderStore) Create(ctx context.Context, order *domain.Order) error {
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("store: create order: %w", err)
	}
	return nil
}

// FindByID returns the order with id or ErrOrderNotFound
func (s *OrderStore) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find order: %w", err)
	}
	return &order, nil
}

// List returns every order
func (s *OrderStore) List(ctx context.Context) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := s.db.WithContext(ctx).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("store: list orders: %w", err)
	}
	return orders, nil
}

// ListByUser returns the orders owned by userID
func (s *OrderStore) ListByUser(ctx context.Context, userID uint) ([]domain.Order, error) {
	orders := []domain.Order{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("store: list user orders: %w", err)
	}
	return orders, nil
}

// Save writes every field of order
func (s *OrderStore) Save(ctx context.Context, order *domain.Order) error {
	if err := s.db.WithContext(ctx).Save(order).Error; err != nil {
		return fmt.Errorf("store: save order: %w", err)
	}
	return nil
}

// Delete removes the order with id
func (s *OrderStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("store: delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
