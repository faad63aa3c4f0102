package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"rebate_audit/internal/models"
	"rebate_audit/internal/render"
	"rebate_audit/internal/services"
	"rebate_audit/internal/validation"
)

type APIHandler struct {
	seedService   services.SeedService
	reportService services.ReportService
	validate      *validatorv10.Validate
	log           *logrus.Entry
}

func NewAPIHandler(
	seedService services.SeedService,
	reportService services.ReportService,
	log *logrus.Entry,
) *APIHandler {
	return &APIHandler{
		seedService:   seedService,
		reportService: reportService,
		validate:      validation.New(),
		log:           log,
	}
}

// NewRouter wires the audit endpoints onto a fresh engine.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(h.log))

	api := router.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/report", h.GetReport)
		api.GET("/report.csv", h.GetReportCSV)
		api.POST("/seed", h.Seed)
	}
	return router
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *APIHandler) Seed(c *gin.Context) {
	result, err := h.seedService.Seed(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("seed failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) GetReport(c *gin.Context) {
	params, result, ok := h.runReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"params": params,
		"result": result,
	})
}

func (h *APIHandler) GetReportCSV(c *gin.Context) {
	_, result, ok := h.runReport(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="audit_rebate.csv"`)
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := render.WriteCSV(c.Writer, result); err != nil {
		h.log.WithError(err).Error("failed to stream report csv")
	}
}

// runReport binds query parameters over the CLI defaults, makes sure a store
// exists and runs the audit. It writes the error response itself.
func (h *APIHandler) runReport(c *gin.Context) (models.ReportParams, *models.ReportResult, bool) {
	params := models.DefaultReportParams()
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return params, nil, false
	}
	if err := validation.ReportParams(h.validate, params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return params, nil, false
	}

	ctx := c.Request.Context()
	if _, err := h.seedService.EnsureStore(ctx); err != nil {
		h.log.WithError(err).Error("failed to prepare store")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return params, nil, false
	}

	result, err := h.reportService.Run(ctx, params)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrQueryContract) {
			status = http.StatusBadGateway
		}
		h.log.WithError(err).WithField("params", params.String()).Error("report failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return params, nil, false
	}
	return params, result, true
}
