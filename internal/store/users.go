package store

import (
	"context" // Request scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping

	"pizza_delivery/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserStore persists user credentials
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a UserStore backed by db
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername looks up a user by username
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findBy(ctx, "username = ?", username)
}

// FindByEmail looks up a user by email address
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findBy(ctx, "email = ?", email)
}

// Create inserts user after checking that its email and username are free.
// The uniqueness check is not atomic with the insert; the unique indexes
// catch the losing side of a race.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if _, err := s.FindByEmail(ctx, user.Email); err == nil {
		return ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if _, err := s.FindByUsername(ctx, user.Username); err == nil {
		return ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.duplicateError(ctx, user)
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// duplicateError names the unique field a failed insert of user collided on
func (s *UserStore) duplicateError(ctx context.Context, user *domain.User) error {
	if _, err := s.FindByEmail(ctx, user.Email); err == nil {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

func (s *UserStore) findBy(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: find user: %w", err)
	}
	return &user, nil
}
