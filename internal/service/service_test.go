package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manha/pos/internal/cart"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/repo"
)

type testEnv struct {
	T        *testing.T
	Repo     *repo.GormRepo
	Hub      *livesync.Hub
	Carts    *cart.Store
	Lock     *lock.Service
	Catalog  *CatalogService
	Cart     *CartService
	Checkout *CheckoutService
	Sales    *SalesService
}

func newTestEnv(t *testing.T) *testEnv {
	// A unique shared-cache DSN per test: plain :memory: would give
	// every pooled connection its own empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(gdb))

	store := repo.New(gdb)
	hub := livesync.NewHub()
	carts := cart.NewStore()
	appLock, err := lock.New("1234")
	require.NoError(t, err)

	env := &testEnv{
		T:     t,
		Repo:  store,
		Hub:   hub,
		Carts: carts,
		Lock:  appLock,
	}
	env.Catalog = &CatalogService{Repo: store, Lock: appLock, Sync: hub}
	env.Cart = &CartService{Carts: carts, Sync: hub}
	env.Checkout = &CheckoutService{
		Repo: store, Carts: carts, Lock: appLock, Sync: hub,
		Now: func() time.Time {
			return time.Date(2026, time.March, 5, 14, 30, 0, 0, time.UTC)
		},
	}
	env.Sales = &SalesService{Repo: store, Lock: appLock, Sync: hub}
	return env
}

func (env *testEnv) seedProduct(name string, price int64, stock int) models.Product {
	p := models.Product{Name: name, Price: price, Stock: stock, Unit: models.UnitPieces}
	require.NoError(env.T, env.Repo.CreateProduct(context.Background(), &p))
	env.Catalog.RefreshSnapshot(context.Background())
	return p
}
