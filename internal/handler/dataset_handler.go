package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/hr_analytics_sample/internal/service"
	"github.com/locvowork/hr_analytics_sample/internal/service/serviceutils"
)

// maxUploadSize bounds uploaded dataset files.
const maxUploadSize = 64 << 20

type DatasetHandler struct {
	svc *service.DatasetService
}

func NewDatasetHandler(svc *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{svc: svc}
}

func (h *DatasetHandler) SummaryHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dataset summary", DatasetSummary{Count: h.svc.Count()})
}

func (h *DatasetHandler) RecordsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Records())
}

func (h *DatasetHandler) GenerateHandler(c echo.Context) error {
	var req CountRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	records, err := h.svc.Generate(c.Request().Context(), req.Count)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to generate dataset", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dataset generated", DatasetSummary{Count: len(records)})
}

func (h *DatasetHandler) SeedHandler(c echo.Context) error {
	var req CountRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	records, err := h.svc.GenerateAndSave(c.Request().Context(), req.Count)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to generate and save dataset", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dataset generated and saved", DatasetSummary{Count: len(records)})
}

func (h *DatasetHandler) LoadHandler(c echo.Context) error {
	n, err := h.svc.LoadSaved(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to load saved dataset", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Saved dataset loaded", DatasetSummary{Count: n})
}

func (h *DatasetHandler) SaveHandler(c echo.Context) error {
	n, err := h.svc.Save(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Failed to save dataset", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dataset saved", DatasetSummary{Count: n})
}

// UploadHandler accepts a multipart "file" field or a raw JSON body.
func (h *DatasetHandler) UploadHandler(c echo.Context) error {
	data, err := readUpload(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Failed to read upload", err)
	}

	n, err := h.svc.Upload(c.Request().Context(), data)
	if err != nil {
		return serviceutils.ResponseDomainError(c, "Error parsing file. Please ensure it's valid JSON.", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Dataset uploaded", DatasetSummary{Count: n})
}

func readUpload(c echo.Context) ([]byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxUploadSize))
	}
	return io.ReadAll(io.LimitReader(c.Request().Body, maxUploadSize))
}
