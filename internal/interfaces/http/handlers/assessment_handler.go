// Package handlers maps HTTP requests onto the assessment application
// service.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// AssessmentHandler serves the risk and supplier assessment endpoints.
type AssessmentHandler struct {
	service *assessment.Service
	logger  logging.Logger
}

// NewAssessmentHandler builds an AssessmentHandler.
func NewAssessmentHandler(service *assessment.Service, logger logging.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		logger:  logger.Named("handler.assessment"),
	}
}

// AssessRisk handles POST /api/v1/assessments/risk.
func (h *AssessmentHandler) AssessRisk(c *gin.Context) {
	var req assessment.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.service.AssessRisk(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeMateriality handles POST /api/v1/assessments/materiality.
func (h *AssessmentHandler) AnalyzeMateriality(c *gin.Context) {
	var req assessment.RiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.service.AnalyzeMateriality(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EvaluateSupplier handles POST /api/v1/assessments/supplier.
func (h *AssessmentHandler) EvaluateSupplier(c *gin.Context) {
	var req assessment.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.service.EvaluateSupplier(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TemplateCSV handles GET /api/v1/templates/:industry/csv. The supplier name
// is optional and only affects the metadata line of the sheet.
func (h *AssessmentHandler) TemplateCSV(c *gin.Context) {
	industry := c.Param("industry")
	supplierName := c.Query("supplier")

	csv := h.service.TemplateCSV(supplierName, industry)
	c.Header("Content-Disposition", `attachment; filename="evaluation_template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

func (h *AssessmentHandler) writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := appErr.Code.HTTPStatus()
		if status >= http.StatusInternalServerError {
			h.logger.Error("request failed", logging.String("path", c.Request.URL.Path), logging.Err(err))
		}
		c.JSON(status, gin.H{"error": appErr.Message, "code": string(appErr.Code)})
		return
	}
	h.logger.Error("request failed", logging.String("path", c.Request.URL.Path), logging.Err(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
