package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/repository/sheets"
	"github.com/anarmmdv/bazar/internal/service/ledger"
	"github.com/anarmmdv/bazar/internal/service/report"
)

// AnalysisHandler serves the read-only range report and its spreadsheet
// export.
type AnalysisHandler struct {
	reportSvc *report.Service
	exporter  sheets.Exporter
	loc       *time.Location
	logger    *zap.Logger
}

// NewAnalysisHandler constructs the analysis HTTP adapter. The exporter may
// be nil when spreadsheet export is not configured.
func NewAnalysisHandler(reportSvc *report.Service, exporter sheets.Exporter, loc *time.Location, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{reportSvc: reportSvc, exporter: exporter, loc: loc, logger: logger}
}

// Get returns the per-product summary for the requested range, defaulting
// to the last 30 days.
func (h *AnalysisHandler) Get(c *gin.Context) {
	from, to, ok := h.rangeParams(c)
	if !ok {
		return
	}

	view, err := h.reportSvc.Range(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, report.ErrBadDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("range report failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed loading report"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// Export appends the requested range's summary rows to the configured
// spreadsheet.
func (h *AnalysisHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet export is not configured"})
		return
	}

	from, to, ok := h.rangeParams(c)
	if !ok {
		return
	}

	view, err := h.reportSvc.Range(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, report.ErrBadDateRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("range report failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed loading report"})
		return
	}

	if err := h.exporter.AppendSummary(c.Request.Context(), from, to, view.Rows); err != nil {
		h.logger.Error("spreadsheet export failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "export failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exported": len(view.Rows)})
}

func (h *AnalysisHandler) rangeParams(c *gin.Context) (string, string, bool) {
	today := ledger.DateIn(time.Now(), h.loc)

	to := c.DefaultQuery("to", today)
	from := c.Query("from")
	if from == "" {
		defaultFrom, err := ledger.AddDays(today, -30)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed computing default range"})
			return "", "", false
		}
		from = defaultFrom
	}

	if !ledger.ValidDate(from) || !ledger.ValidDate(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be formatted YYYY-MM-DD"})
		return "", "", false
	}

	return from, to, true
}
