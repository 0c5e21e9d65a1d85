package repositories_test

import (
	"context"
	"testing"

	"toko/internal/database/dbtest"
	"toko/internal/models"
	"toko/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewGORMUserRepository(dbtest.NewTestDB(t))

	user := &models.User{Email: "Alice@Example.com", Username: "alice", Password: "hash", IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID, "email lookup ignores case")

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := &models.User{Email: "other@example.com", Username: "alice", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repositories.ErrDuplicate, "usernames are unique")

	dup = &models.User{Email: "Alice@Example.com", Username: "alice2", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), repositories.ErrDuplicate, "emails are unique")
}

func TestGORMProductRepository(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	products := repositories.NewGORMProductRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	owner := &models.User{Email: "o@example.com", Username: "owner", Password: "hash"}
	require.NoError(t, users.Create(ctx, owner))

	lamp := &models.Product{OwnerID: owner.ID, Title: "Lamp", Price: decimal.RequireFromString("12.30")}
	require.NoError(t, products.Create(ctx, lamp))
	assert.Equal(t, "owner", lamp.Owner.Username)

	lamp.Title = "Floor lamp"
	require.NoError(t, products.Update(ctx, lamp))

	got, err := products.GetByID(ctx, lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Floor lamp", got.Title)
	assert.Equal(t, "12.30", got.Price.StringFixed(2))
	assert.Equal(t, "owner", got.Owner.Username)

	all, err := products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// Deleting a product drops the cart lines that point at it.
	_, _, err = carts.AddItem(ctx, owner.ID, lamp.ID, 2)
	require.NoError(t, err)
	require.NoError(t, products.Delete(ctx, lamp.ID))

	cart, err := carts.GetOrCreate(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = products.GetByID(ctx, lamp.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, products.Delete(ctx, lamp.ID), repositories.ErrNotFound)
	assert.ErrorIs(t, products.Update(ctx, lamp), repositories.ErrNotFound)
}

func TestGORMCartRepository_CheckoutRollsBackOnSnapshotError(t *testing.T) {
	ctx := context.Background()
	db := dbtest.NewTestDB(t)
	users := repositories.NewGORMUserRepository(db)
	products := repositories.NewGORMProductRepository(db)
	carts := repositories.NewGORMCartRepository(db)

	buyer := &models.User{Email: "b@example.com", Username: "buyer", Password: "hash"}
	require.NoError(t, users.Create(ctx, buyer))
	lamp := &models.Product{OwnerID: buyer.ID, Title: "Lamp", Price: decimal.NewFromInt(1)}
	require.NoError(t, products.Create(ctx, lamp))
	_, _, err := carts.AddItem(ctx, buyer.ID, lamp.ID, 1)
	require.NoError(t, err)

	_, err = carts.Checkout(ctx, buyer.ID, func(items []models.CartItem) (*models.Order, error) {
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	cart, err := carts.GetOrCreate(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1, "cart is untouched when checkout aborts")

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}
