package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	models "AstroChart/internal/domain/models"
	domsvc "AstroChart/internal/domain/service"
	"AstroChart/internal/usecase"
	xhttp "AstroChart/pkg/http"
	xlogger "AstroChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ChartService is what the handler needs from the chart usecase.
type ChartService interface {
	Compute(ctx context.Context, in usecase.ChartInput) (*models.Chart, error)
	Recent(ctx context.Context, limit int, since time.Time) ([]*models.ChartRecord, error)
}

// ChartEchoHandler serves natal chart endpoints.
type ChartEchoHandler struct {
	logger *xlogger.Logger
	charts ChartService
}

func NewChartEchoHandler(logger *xlogger.Logger, charts ChartService) *ChartEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ChartEchoHandler{logger: logger, charts: charts}
}

func (h *ChartEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/astro", h.Compute)
	g.GET("/charts/recent", h.Recent)
}

// Compute returns the bare chart object on success.
func (h *ChartEchoHandler) Compute(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	chart, err := h.charts.Compute(c.Request().Context(), usecase.ChartInput{
		BirthDate: req.BirthDate,
		BirthTime: req.BirthTime,
		Latitude:  req.Latitude.Float(),
		Longitude: req.Longitude.Float(),
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, chart)
	case errors.Is(err, usecase.ErrInvalidInput):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, domsvc.ErrEphemerisUnavailable):
		h.logger.Error("ephemeris unavailable", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("ephemeris data is not loaded").WithError(err))
	default:
		h.logger.Error("chart usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.EphemerisError(err))
	}
}

func (h *ChartEchoHandler) Recent(c echo.Context) error {
	req := &models.RecentChartsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var since time.Time
	if req.Since != "" {
		t, ok := xhttp.ParseTime(req.Since)
		if !ok {
			verr := xhttp.NewAppError("ERR_DATETIME", "since", "since must be RFC3339 or unix seconds", http.StatusBadRequest).
				WithParam("value", req.Since)
			return xhttp.AppErrorResponse(c, verr)
		}
		since = t
	}

	rows, err := h.charts.Recent(c.Request().Context(), req.Limit, since)
	if err != nil {
		if errors.Is(err, usecase.ErrArchiveDisabled) {
			return xhttp.AppErrorResponse(c, xhttp.UnavailableError("chart archive is disabled"))
		}
		h.logger.Error("recent charts usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to list charts").WithError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}
