package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/logging"
	"github.com/manha/pos/internal/session"
)

type SessionHandler struct {
	Sessions *session.Manager
}

// SignIn issues an anonymous session and sets its cookie. Calling it
// again replaces the session, and with it the server-side cart.
func (h *SessionHandler) SignIn(c echo.Context) error {
	token, sessionID, err := h.Sessions.Issue()
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("session issue failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(session.NewCookie(token, h.Sessions.TTL))
	return c.JSON(http.StatusOK, map[string]string{"sessionId": sessionID})
}
