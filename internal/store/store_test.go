package store

import (
	"context"
	"path/filepath"
	"testing"

	"pizza_delivery/internal/config"
	"pizza_delivery/internal/db"
	"pizza_delivery/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(&config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	return gdb
}

func createUser(t *testing.T, users *UserStore, username, email string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: email, Password: "hash", IsActive: true}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(newTestDB(t))

	created := createUser(t, users, "shifanx", "a@b.com")
	assert.NotZero(t, created.ID)

	byName, err := users.FindByUsername(ctx, "shifanx")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.True(t, byName.IsActive)

	byEmail, err := users.FindByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = users.FindByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStoreRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(newTestDB(t))
	createUser(t, users, "shifanx", "a@b.com")

	err := users.Create(ctx, &domain.User{Username: "other", Email: "a@b.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	err = users.Create(ctx, &domain.User{Username: "shifanx", Email: "other@b.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// Email is checked first when both collide
	err = users.Create(ctx, &domain.User{Username: "shifanx", Email: "a@b.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestOrderStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	users := NewUserStore(gdb)
	orders := NewOrderStore(gdb)

	alice := createUser(t, users, "alice", "alice@b.com")
	bob := createUser(t, users, "bob", "bob@b.com")

	first := &domain.Order{Quantity: 2, PizzaSize: domain.PizzaSizeLarge, OrderStatus: domain.OrderStatusPending, UserID: alice.ID}
	require.NoError(t, orders.Create(ctx, first))
	second := &domain.Order{Quantity: 1, PizzaSize: domain.PizzaSizeSmall, OrderStatus: domain.OrderStatusPending, UserID: bob.ID}
	require.NoError(t, orders.Create(ctx, second))

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := orders.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	first.OrderStatus = domain.OrderStatusDelivered
	require.NoError(t, orders.Save(ctx, first))
	got, err := orders.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, got.OrderStatus)

	require.NoError(t, orders.Delete(ctx, first.ID))
	_, err = orders.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, orders.Delete(ctx, first.ID), ErrOrderNotFound)
}

func TestOrderStoreListsAreEmptyNotNil(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderStore(newTestDB(t))

	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	mine, err := orders.ListByUser(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, mine)
}

// insertRivalBeforeCreate inserts rival once, after Create's uniqueness checks and before its insert
func insertRivalBeforeCreate(t *testing.T, gdb *gorm.DB, rival domain.User) {
	t.Helper()
	done := false
	err := gdb.Callback().Create().Before("gorm:begin_transaction").Register("test:rival_signup", func(tx *gorm.DB) {
		if done {
			return
		}
		done = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (username, email, password, is_active, is_staff) VALUES (?, ?, ?, ?, ?)",
			rival.Username, rival.Email, "hash", true, false,
		)
	})
	require.NoError(t, err)
}

func TestUserStoreCreateLosingRaceOnEmail(t *testing.T) {
	gdb := newTestDB(t)
	users := NewUserStore(gdb)
	insertRivalBeforeCreate(t, gdb, domain.User{Username: "rival", Email: "a@b.com"})

	err := users.Create(context.Background(), &domain.User{Username: "shifanx", Email: "a@b.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserStoreCreateLosingRaceOnUsername(t *testing.T) {
	gdb := newTestDB(t)
	users := NewUserStore(gdb)
	insertRivalBeforeCreate(t, gdb, domain.User{Username: "shifanx", Email: "rival@b.com"})

	err := users.Create(context.Background(), &domain.User{Username: "shifanx", Email: "a@b.com", Password: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}
