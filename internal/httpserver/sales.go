package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/manha/pos/internal/reporting"
	"github.com/manha/pos/internal/service"
	"github.com/manha/pos/internal/transport"
)

type SalesHandler struct {
	Sales *service.SalesService
}

// GetSales lists the sales history filtered by free-text search and
// calendar period. The date selectors arrive as plain query params:
// ?period=daily&date=2026-08-29, ?period=monthly&month=2026-08,
// ?period=yearly&year=2026.
func (h *SalesHandler) GetSales(c echo.Context) error {
	q, err := parseSalesQuery(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	page, err := h.Sales.List(c.Request().Context(), q)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *SalesHandler) GetSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid sale id")
	}
	sale, err := h.Sales.Get(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) UpdateSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid sale id")
	}

	var req transport.UpdateSaleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "malformed request body")
	}

	sale, err := h.Sales.Update(c.Request().Context(), id, req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *SalesHandler) DeleteSale(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid sale id")
	}
	if err := h.Sales.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func parseSalesQuery(c echo.Context) (reporting.Query, error) {
	q := reporting.Query{
		Search: c.QueryParam("q"),
		Period: reporting.Period(c.QueryParam("period")),
	}
	if q.Period == "" {
		q.Period = reporting.PeriodAll
	}
	if !q.Period.Valid() {
		return q, errInvalidPeriod
	}

	switch q.Period {
	case reporting.PeriodDaily:
		t, err := time.Parse("2006-01-02", c.QueryParam("date"))
		if err != nil {
			return q, errInvalidDate
		}
		q.Year, q.Month, q.Day = t.Year(), t.Month(), t.Day()
	case reporting.PeriodMonthly:
		t, err := time.Parse("2006-01", c.QueryParam("month"))
		if err != nil {
			return q, errInvalidMonth
		}
		q.Year, q.Month = t.Year(), t.Month()
	case reporting.PeriodYearly:
		t, err := time.Parse("2006", c.QueryParam("year"))
		if err != nil {
			return q, errInvalidYear
		}
		q.Year = t.Year()
	}
	return q, nil
}

var (
	errInvalidPeriod = &queryError{"period must be daily, monthly, yearly or all"}
	errInvalidDate   = &queryError{"date must look like 2006-01-02"}
	errInvalidMonth  = &queryError{"month must look like 2006-01"}
	errInvalidYear   = &queryError{"year must look like 2006"}
)

type queryError struct{ msg string }

func (e *queryError) Error() string { return e.msg }
