package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/backup"
	"github.com/manha/pos/internal/service"
)

type BackupHandler struct {
	Backup  *backup.Service
	Catalog *service.CatalogService
	Sales   *service.SalesService
}

// ExportBackup streams the full dataset as a downloadable JSON file.
func (h *BackupHandler) ExportBackup(c echo.Context) error {
	dump, err := h.Backup.Export(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	filename := fmt.Sprintf("pos-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.JSON(http.StatusOK, dump)
}

func (h *BackupHandler) ImportBackup(c echo.Context) error {
	var dump backup.Dump
	if err := c.Bind(&dump); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed backup file")
	}
	if err := h.Backup.Import(c.Request().Context(), &dump); err != nil {
		return errorResponse(c, err)
	}

	ctx := c.Request().Context()
	h.Catalog.RefreshSnapshot(ctx)
	h.Sales.RefreshSnapshot(ctx)
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"products": len(dump.Items),
		"sales":    len(dump.Sales),
	})
}
