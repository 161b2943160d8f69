package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/export"
	"github.com/locvowork/hr_analytics_sample/internal/service"
	"github.com/locvowork/hr_analytics_sample/internal/service/serviceutils"
)

const mimeCSV = "text/csv; charset=utf-8"

type QueryHandler struct {
	svc *service.QueryService
}

func NewQueryHandler(svc *service.QueryService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

func (h *QueryHandler) GetConfigHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Working query configuration", h.svc.Config())
}

func (h *QueryHandler) PutConfigHandler(c echo.Context) error {
	var cfg domain.QueryConfig
	if err := c.Bind(&cfg); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid query configuration", err)
	}
	if err := h.svc.SetConfig(cfg); err != nil {
		return serviceutils.ResponseDomainError(c, "Invalid query configuration", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Query configuration updated", h.svc.Config())
}

// ExecuteHandler runs the working configuration. A non-empty JSON body
// replaces the working configuration first.
func (h *QueryHandler) ExecuteHandler(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Failed to read request body", err)
	}

	var cfg *domain.QueryConfig
	if len(bytes.TrimSpace(body)) > 0 {
		cfg = &domain.QueryConfig{}
		if err := json.Unmarshal(body, cfg); err != nil {
			return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid query configuration", err)
		}
	}

	rows, err := h.svc.Execute(c.Request().Context(), cfg)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to execute query", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Query executed", QueryResult{Count: len(rows), Rows: rows})
}

// ExportHandler downloads the last results as CSV (default) or xlsx.
func (h *QueryHandler) ExportHandler(c echo.Context) error {
	format := strings.ToLower(c.QueryParam("format"))
	switch format {
	case "", "csv":
		var buf bytes.Buffer
		if err := h.svc.ExportCSV(&buf); err != nil {
			return serviceutils.ResponseDomainError(c, "Failed to export results", err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="query_results.csv"`)
		return c.Blob(http.StatusOK, mimeCSV, buf.Bytes())
	case "xlsx":
		if err := h.svc.ExportExcelResponse(c.Response(), "query_results.xlsx"); err != nil {
			return serviceutils.ResponseDomainError(c, "Failed to export results", err)
		}
		return nil
	default:
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Unsupported export format", fmt.Errorf("format %q", format))
	}
}

func (h *QueryHandler) ChartHandler(c echo.Context) error {
	kind, err := export.ParseChartKind(c.QueryParam("type"))
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Invalid chart type", err)
	}
	vis, err := h.svc.Chart(kind)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to build chart", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Chart built", vis)
}

func (h *QueryHandler) SQLHandler(c echo.Context) error {
	preview, err := h.svc.SQL()
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to build SQL preview", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "SQL preview", preview)
}

func (h *QueryHandler) ListQueriesHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Saved queries", h.svc.ListQueries())
}

func (h *QueryHandler) SaveQueryHandler(c echo.Context) error {
	var req SaveQueryRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	saved, err := h.svc.SaveQuery(c.Request().Context(), req.Name)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to save query", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Query saved", saved)
}

func (h *QueryHandler) LoadQueryHandler(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid query ID", err)
	}
	cfg, err := h.svc.LoadQuery(id)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to load query", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Query loaded", cfg)
}
