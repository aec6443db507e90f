package httpserver

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/manha/pos/internal/models"
	"github.com/manha/pos/internal/service"
)

func TestCartRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil)
	err := env.withSession(env.CartH.GetCart)(c)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAddToCartAndView(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": p.ID.String()}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	decode(t, rec, &view)
	require.Len(t, view.Lines, 1)
	require.Equal(t, int64(1000), view.Total)
	require.Equal(t, 1, view.ItemCount)
}

func TestAddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": "0b6ef32a-95cc-4bd1-bc94-13a040ab6dcf"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetCartQuantityDelta(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": p.ID.String()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))

	delta := map[string]any{"delta": 2}
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+p.ID.String(), delta, ck)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	require.NoError(t, env.withSession(env.CartH.SetCartQuantity)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view service.CartView
	decode(t, rec, &view)
	require.Equal(t, 3, view.Lines[0].Qty)
}

func TestSetCartQuantityRaw(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": p.ID.String()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))

	raw := map[string]any{"qty": "4"}
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+p.ID.String(), raw, ck)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	require.NoError(t, env.withSession(env.CartH.SetCartQuantity)(c))

	var view service.CartView
	decode(t, rec, &view)
	require.Equal(t, 4, view.Lines[0].Qty)
}

func TestSetCartQuantityRequiresDeltaOrQty(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/cart/"+p.ID.String(), map[string]any{}, ck)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())
	require.NoError(t, env.withSession(env.CartH.SetCartQuantity)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": p.ID.String()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))

	body := map[string]string{"customerName": "Jane", "customerMobile": "555-1234"}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/checkout", body, ck)
	require.NoError(t, env.withSession(env.CartH.CheckoutCart)(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var sale models.Sale
	decode(t, rec, &sale)
	require.Equal(t, int64(1000), sale.Total)
	require.Equal(t, "Jane", sale.CustomerName)
	require.NotEmpty(t, sale.OrderNumber)

	// Same session's cart is now empty.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, env.withSession(env.CartH.GetCart)(c))
	var view service.CartView
	decode(t, rec, &view)
	require.Empty(t, view.Lines)
}

func TestCheckoutEmptyCartHandler(t *testing.T) {
	env := newTestEnv(t)
	ck := env.sessionCookie()

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/checkout", map[string]string{}, ck)
	require.NoError(t, env.withSession(env.CartH.CheckoutCart)(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutWhileLockedHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct("Rice", 1000, 5)
	ck := env.sessionCookie()

	payload := map[string]string{"productId": p.ID.String()}
	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart", payload, ck)
	require.NoError(t, env.withSession(env.CartH.AddToCart)(c))

	env.Lock.Lock()
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/cart/checkout", map[string]string{}, ck)
	require.NoError(t, env.withSession(env.CartH.CheckoutCart)(c))
	require.Equal(t, http.StatusLocked, rec.Code)
}
