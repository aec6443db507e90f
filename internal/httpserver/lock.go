package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/lock"
	"github.com/manha/pos/internal/transport"
)

type LockHandler struct {
	Lock *lock.Service
}

type lockState struct {
	Locked bool `json:"locked"`
}

func (h *LockHandler) GetLock(c echo.Context) error {
	return c.JSON(http.StatusOK, lockState{Locked: h.Lock.Locked()})
}

func (h *LockHandler) EngageLock(c echo.Context) error {
	h.Lock.Lock()
	return c.JSON(http.StatusOK, lockState{Locked: true})
}

// Unlock verifies the PIN. A wrong PIN is 401, not 423: the caller is
// allowed to try again.
func (h *LockHandler) Unlock(c echo.Context) error {
	var req transport.UnlockRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}
	if err := h.Lock.Unlock(req.PIN); err != nil {
		return respondError(c, http.StatusUnauthorized, err.Error())
	}
	return c.JSON(http.StatusOK, lockState{Locked: false})
}

func (h *LockHandler) SetPIN(c echo.Context) error {
	var req transport.SetPINRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}
	if err := h.Lock.SetPIN(req.CurrentPIN, req.NewPIN); err != nil {
		if errors.Is(err, lock.ErrWrongPIN) {
			return respondError(c, http.StatusUnauthorized, err.Error())
		}
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// RequireUnlocked gates a route group on the application lock.
func (h *LockHandler) RequireUnlocked() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if h.Lock.Locked() {
				return respondError(c, http.StatusLocked, "app is locked")
			}
			return next(c)
		}
	}
}
