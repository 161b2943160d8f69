package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_analytics_sample/internal/analytics"
	"github.com/locvowork/hr_analytics_sample/internal/export"
	"github.com/locvowork/hr_analytics_sample/internal/service"
	"github.com/locvowork/hr_analytics_sample/internal/service/serviceutils"
)

type DashboardHandler struct {
	svc *service.QueryService
}

func NewDashboardHandler(svc *service.QueryService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// MetricHandler serves GET /dashboard/:metric?type=bar.
func (h *DashboardHandler) MetricHandler(c echo.Context) error {
	metric, err := analytics.ParseMetric(c.Param("metric"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusNotFound, "Unknown dashboard metric", err)
	}
	kind, err := export.ParseChartKind(c.QueryParam("type"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Invalid chart type", err)
	}
	view, err := h.svc.Dashboard(metric, kind)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to compute dashboard", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, view.Title, view)
}

// MetricsHandler lists the available dashboard metrics.
func (h *DashboardHandler) MetricsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dashboard metrics", analytics.Metrics())
}
