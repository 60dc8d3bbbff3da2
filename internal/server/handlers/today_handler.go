package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/internal/service/ledger"
	"github.com/anarmmdv/bazar/internal/service/report"
)

// TodayHandler serves the daily entry screen backed by the long-lived
// ledger session.
type TodayHandler struct {
	session *ledger.Session
	logger  *zap.Logger
}

// NewTodayHandler constructs the Today screen HTTP adapter.
func NewTodayHandler(session *ledger.Session, logger *zap.Logger) *TodayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodayHandler{session: session, logger: logger}
}

type todayResponse struct {
	ledger.View
	Summary []models.ProductSummary `json:"summary"`
	Totals  models.Totals           `json:"totals"`
}

// Get returns the full Today screen state: draft tables, validation
// messages, availability and the running per-product summary.
func (h *TodayHandler) Get(c *gin.Context) {
	if !h.ensureLoaded(c) {
		return
	}
	c.JSON(http.StatusOK, h.response())
}

type putRowsRequest struct {
	Rows []models.DraftRow `json:"rows"`
}

// PutRows replaces the draft rows of one table. Persistence follows after
// the autosave quiet period.
func (h *TodayHandler) PutRows(c *gin.Context) {
	table := models.TableKind(c.Param("table"))
	if !table.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table"})
		return
	}

	var req putRowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rows payload"})
		return
	}

	if !h.ensureLoaded(c) {
		return
	}

	if err := h.session.SetRows(c.Request.Context(), table, req.Rows); err != nil {
		h.logger.Error("failed updating draft rows", zap.String("table", string(table)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed updating rows"})
		return
	}

	c.JSON(http.StatusOK, h.response())
}

// AddRow appends an empty draft row to one table.
func (h *TodayHandler) AddRow(c *gin.Context) {
	table := models.TableKind(c.Param("table"))
	if !table.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table"})
		return
	}

	if !h.ensureLoaded(c) {
		return
	}

	if err := h.session.AddRow(table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed adding row"})
		return
	}

	c.JSON(http.StatusOK, h.response())
}

// RemoveRow deletes one draft row by index.
func (h *TodayHandler) RemoveRow(c *gin.Context) {
	table := models.TableKind(c.Param("table"))
	if !table.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row index"})
		return
	}

	if !h.ensureLoaded(c) {
		return
	}

	if err := h.session.RemoveRow(c.Request.Context(), table, index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.response())
}

func (h *TodayHandler) ensureLoaded(c *gin.Context) bool {
	if err := h.session.EnsureLoaded(c.Request.Context()); err != nil {
		h.logger.Error("today session load failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed loading today's data"})
		return false
	}
	return true
}

func (h *TodayHandler) response() todayResponse {
	view := h.session.View()

	names := make(map[string]string, len(view.Products))
	for _, p := range view.Products {
		names[p.ID] = p.Name
	}

	summary := report.Summarize(ledger.NormalizeRows(view.Buys), ledger.NormalizeRows(view.Sells), names)
	return todayResponse{
		View:    view,
		Summary: summary,
		Totals:  report.TotalsOf(summary),
	}
}
