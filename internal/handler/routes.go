package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts every endpoint on e.
func RegisterRoutes(e *echo.Echo, ds *DatasetHandler, q *QueryHandler, d *DashboardHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	dataset := e.Group("/dataset")
	dataset.GET("", ds.SummaryHandler)
	dataset.GET("/records", ds.RecordsHandler)
	dataset.POST("/generate", ds.GenerateHandler)
	dataset.POST("/seed", ds.SeedHandler)
	dataset.POST("/load", ds.LoadHandler)
	dataset.POST("/save", ds.SaveHandler)
	dataset.POST("/upload", ds.UploadHandler)

	queryGroup := e.Group("/query")
	queryGroup.GET("/config", q.GetConfigHandler)
	queryGroup.PUT("/config", q.PutConfigHandler)
	queryGroup.POST("/execute", q.ExecuteHandler)
	queryGroup.POST("/export", q.ExportHandler)
	queryGroup.POST("/chart", q.ChartHandler)
	queryGroup.GET("/sql", q.SQLHandler)

	e.GET("/queries", q.ListQueriesHandler)
	e.POST("/queries", q.SaveQueryHandler)
	e.POST("/queries/:id/load", q.LoadQueryHandler)

	e.GET("/dashboard", d.MetricsHandler)
	e.GET("/dashboard/:metric", d.MetricHandler)
}
