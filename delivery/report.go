package delivery

import (
	"net/http"
	"path/filepath"
	"sekarnet/config"
	"sekarnet/domain"
	"sekarnet/dto"
	"sekarnet/middleware"
	"sekarnet/utils"

	"github.com/gin-gonic/gin"
)

const defaultDaysToKeep = 30

type ReportHandler struct {
	uc domain.ReportUseCase
}

func NewReportHandler(app *gin.Engine, uc domain.ReportUseCase, jwtManager *utils.JWTManager) {
	h := &ReportHandler{uc: uc}

	reports := app.Group("/api/reports")
	reports.Use(config.AuthMiddleware(jwtManager), middleware.RequireAction(domain.ActionReportManage))
	{
		reports.GET("", h.Available)
		reports.POST("/generate", h.Generate)
		reports.GET("/download/:file", h.Download)
		reports.POST("/cleanup", h.Cleanup)
	}
}

func (h *ReportHandler) Available(c *gin.Context) {
	writeOK(c, http.StatusOK, "AvailableReports", h.uc.AvailableReports())
}

func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, "GenerateReport", err)
		return
	}
	path, err := h.uc.Generate(c.Request.Context(), req.Type, req.Format)
	if err != nil {
		writeError(c, "GenerateReport", err)
		return
	}
	name := filepath.Base(path)
	writeOK(c, http.StatusCreated, "GenerateReport", gin.H{
		"filename":    name,
		"downloadUrl": "/api/reports/download/" + name,
	})
}

func (h *ReportHandler) Download(c *gin.Context) {
	path, err := h.uc.Resolve(c.Param("file"))
	if err != nil {
		writeError(c, "DownloadReport", err)
		return
	}
	utils.PrintLogInfo(username(c), http.StatusOK, "DownloadReport", nil)
	c.FileAttachment(path, filepath.Base(path))
}

func (h *ReportHandler) Cleanup(c *gin.Context) {
	var req dto.CleanupReportsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, "CleanupReports", err)
			return
		}
	}
	days := defaultDaysToKeep
	if req.DaysToKeep != nil {
		days = *req.DaysToKeep
	}
	deleted, err := h.uc.Cleanup(days)
	if err != nil {
		writeError(c, "CleanupReports", err)
		return
	}
	writeOK(c, http.StatusOK, "CleanupReports", gin.H{"deleted": deleted})
}
