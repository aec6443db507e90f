package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/manha/pos/internal/backup"
	"github.com/manha/pos/internal/cart"
	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/repo"
	"github.com/manha/pos/internal/service"
	"github.com/manha/pos/internal/session"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Repo     *repo.GormRepo
	Hub      *livesync.Hub
	Lock     *lock.Service
	Sessions *session.Manager
	Catalog  *service.CatalogService

	ProductH *ProductHandler
	CartH    *CartHandler
	SalesH   *SalesHandler
	LockH    *LockHandler
	BackupH  *BackupHandler
}

func newTestEnv(t *testing.T) *testEnv {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(gdb))

	store := repo.New(gdb)
	hub := livesync.NewHub()
	carts := cart.NewStore()
	appLock, err := lock.New("1234")
	require.NoError(t, err)
	sessions := session.NewManager([]byte("test-secret"), time.Hour)

	catalogSvc := &service.CatalogService{Repo: store, Lock: appLock, Sync: hub}
	cartSvc := &service.CartService{Carts: carts, Sync: hub}
	checkoutSvc := &service.CheckoutService{Repo: store, Carts: carts, Lock: appLock, Sync: hub}
	salesSvc := &service.SalesService{Repo: store, Lock: appLock, Sync: hub}
	backupSvc := &backup.Service{Repo: store}

	return &testEnv{
		T:        t,
		E:        echo.New(),
		Repo:     store,
		Hub:      hub,
		Lock:     appLock,
		Sessions: sessions,
		Catalog:  catalogSvc,
		ProductH: &ProductHandler{Catalog: catalogSvc},
		CartH:    &CartHandler{Cart: cartSvc, Checkout: checkoutSvc},
		SalesH:   &SalesHandler{Sales: salesSvc},
		LockH:    &LockHandler{Lock: appLock},
		BackupH:  &BackupHandler{Backup: backupSvc, Catalog: catalogSvc, Sales: salesSvc},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedProduct(name string, price int64, stock int) models.Product {
	p := models.Product{Name: name, Price: price, Stock: stock, Unit: models.UnitPieces}
	require.NoError(env.T, env.Repo.CreateProduct(context.Background(), &p))
	env.Catalog.RefreshSnapshot(context.Background())
	return p
}

// sessionCookie issues a fresh anonymous session for cart requests.
func (env *testEnv) sessionCookie() *http.Cookie {
	token, _, err := env.Sessions.Issue()
	require.NoError(env.T, err)
	return session.NewCookie(token, time.Hour)
}

// withSession runs a handler behind the session middleware, the way
// the router mounts the cart group.
func (env *testEnv) withSession(h echo.HandlerFunc) echo.HandlerFunc {
	return env.Sessions.Middleware()(h)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}
