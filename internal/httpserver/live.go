package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/livesync"
	"github.com/manha/pos/internal/logging"
)

type LiveHandler struct {
	Sync *livesync.Hub
}

// Stream serves collection snapshots over server-sent events. The
// client gets both current snapshots immediately, then a fresh one
// whenever a collection changes.
func (h *LiveHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	updates, cancel := h.Sync.Subscribe(8)
	defer cancel()

	initial := []livesync.Update{
		{Collection: livesync.CollectionItems, Items: h.Sync.Products()},
		{Collection: livesync.CollectionSales, Sales: h.Sync.Sales()},
	}
	for _, u := range initial {
		if err := writeEvent(w, u); err != nil {
			return nil
		}
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeEvent(w, u); err != nil {
				logging.FromContext(ctx).Debug("sse client gone", "error", err)
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, u livesync.Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", u.Collection, payload); err != nil {
		return err
	}
	w.Flush()
	return nil
}
