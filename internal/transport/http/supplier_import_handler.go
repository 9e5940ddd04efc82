package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/service"
	"github.com/fornecelist/backend/internal/util"
)

type SupplierImportHandler struct {
	service      *service.SupplierImportService
	maxSheetSize int64
	maxZipSize   int64
}

func RegisterSupplierImports(e *echo.Echo, auth *service.AuthService, svc *service.SupplierImportService, enabled bool, maxSheet, maxZip int64) {
	if !enabled || svc == nil {
		return
	}
	handler := &SupplierImportHandler{
		service:      svc,
		maxSheetSize: maxSheet,
		maxZipSize:   maxZip,
	}

	group := e.Group("/api/v1/admin/supplier-imports", RequireAuth(auth), RequireAdmin(auth))
	group.GET("/template", handler.template)
	group.POST("", handler.create)
	group.GET("", handler.listJobs)
	group.GET("/:id", handler.getJob)
	group.GET("/:id/errors", handler.downloadErrors)
}

var templateHeaders = []string{
	"codigo", "nome", "descricao", "instagram", "whatsapp", "site",
	"preco_medio", "quantidade_minima", "cidade", "estado", "envio",
	"precisa_cnpj", "formas_pagamento", "tipo_fornecedor", "imagens",
}

var templateSample = []any{
	"F001", "Malhas Sul", "Atacado de malhas e básicos", "@malhassul", "+55 51 99999-0000",
	"https://malhassul.com.br", "medio", "30 peças", "Porto Alegre", "RS", "correios, transportadora",
	"sim", "pix, cartao, boleto", "Moda Feminina, Plus Size", "F001-frente.jpg, F001-detalhe.jpg",
}

func (h *SupplierImportHandler) template(c echo.Context) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, header := range templateHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, value := range templateSample {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, value)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not generate template"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="modelo-importacao-fornecedores.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *SupplierImportHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	sheetFile, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("spreadsheet file is required"))
	}
	sheetData, err := readUpload(sheetFile, h.maxSheetSize, 8*1024*1024)
	if err != nil {
		return h.writeError(c, err)
	}

	var zipData []byte
	if zipFile, err := c.FormFile("images"); err == nil && zipFile != nil {
		zipData, err = readUpload(zipFile, h.maxZipSize, 50*1024*1024)
		if err != nil {
			return h.writeError(c, err)
		}
	}

	job, err := h.service.Import(c.Request().Context(), user.ID, sheetFile.Filename, sheetData, zipData, nil)
	if err != nil {
		return h.writeError(c, err)
	}

	status := http.StatusCreated
	if job.Status == domain.SupplierImportStatusValidationFailed {
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, util.Envelope{"job": buildImportJob(job)})
}

func (h *SupplierImportHandler) listJobs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	jobs, err := h.service.ListJobs(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not list import jobs"))
	}
	out := make([]util.Envelope, 0, len(jobs))
	for i := range jobs {
		out = append(out, buildImportJob(&jobs[i]))
	}
	return c.JSON(http.StatusOK, util.Envelope{"jobs": out})
}

func (h *SupplierImportHandler) getJob(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid job id"))
	}
	job, err := h.service.GetJob(c.Request().Context(), jobID)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error("import job not found"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"job": buildImportJob(job)})
}

func (h *SupplierImportHandler) downloadErrors(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid job id"))
	}
	job, err := h.service.GetJob(c.Request().Context(), jobID)
	if err != nil {
		return c.JSON(http.StatusNotFound, util.Error("import job not found"))
	}
	data, err := service.ErrorsCSV(job)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not generate csv"))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="erros-importacao.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

func (h *SupplierImportHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrImportEmptyFile), errors.Is(err, service.ErrImportUnreadable),
		errors.Is(err, service.ErrArchiveUnreadable):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrImportInvalidHeaders):
		return c.JSON(http.StatusUnprocessableEntity, util.Error(err.Error()))
	case errors.Is(err, service.ErrImportTooLarge), errors.Is(err, service.ErrImportRowLimitExceeded):
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func readUpload(file *multipart.FileHeader, limit, fallback int64) ([]byte, error) {
	if limit <= 0 {
		limit = fallback
	}
	src, err := file.Open()
	if err != nil {
		return nil, service.ErrImportUnreadable
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, limit+1))
	if err != nil {
		return nil, service.ErrImportUnreadable
	}
	if int64(len(data)) > limit {
		return nil, service.ErrImportTooLarge
	}
	return data, nil
}

func buildImportJob(job *domain.SupplierImportJob) util.Envelope {
	resp := util.Envelope{
		"id":              job.ID,
		"uploaded_by":     job.UploadedBy,
		"filename":        job.Filename,
		"status":          job.Status,
		"total_rows":      job.TotalRows,
		"success_count":   job.SuccessCount,
		"error_count":     job.ErrorCount,
		"images_uploaded": job.ImagesUploaded,
		"images_failed":   job.ImagesFailed,
		"submitted_at":    job.SubmittedAt,
		"created_at":      job.CreatedAt,
		"updated_at":      job.UpdatedAt,
	}
	if job.RunStatus != nil {
		resp["run_status"] = *job.RunStatus
	}
	if job.CompletedAt != nil {
		resp["completed_at"] = *job.CompletedAt
	}
	if len(job.Errors) > 0 {
		resp["errors"] = job.Errors
	}
	if len(job.Warnings) > 0 {
		resp["warnings"] = job.Warnings
	}
	return resp
}
