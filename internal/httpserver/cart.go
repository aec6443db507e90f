package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/service"
	"github.com/manha/pos/internal/session"
	"github.com/manha/pos/internal/transport"
)

type CartHandler struct {
	Cart     *service.CartService
	Checkout *service.CheckoutService
}

func sessionID(c echo.Context) (string, error) {
	id, ok := session.FromContext(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return id, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.Cart.View(id))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req transport.CartAddRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}
	if err := h.Cart.Add(id, req.ProductID); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, h.Cart.View(id))
}

// SetCartQuantity handles both quantity mutations on a line: a
// relative delta, or a raw typed value. The two follow different
// removal rules, so the request says which one it is.
func (h *CartHandler) SetCartQuantity(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}

	var req transport.CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}

	switch {
	case req.Delta != nil:
		h.Cart.Adjust(id, productID, *req.Delta)
	case req.Qty != nil:
		h.Cart.SetQuantity(id, productID, *req.Qty)
	default:
		return respondError(c, http.StatusBadRequest, "delta or qty is required")
	}
	return c.JSON(http.StatusOK, h.Cart.View(id))
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	productID, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid product id")
	}
	h.Cart.Remove(id, productID)
	return c.JSON(http.StatusOK, h.Cart.View(id))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}
	h.Cart.Clear(id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) CheckoutCart(c echo.Context) error {
	id, err := sessionID(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}

	sale, err := h.Checkout.Checkout(c.Request().Context(), id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, sale)
}
