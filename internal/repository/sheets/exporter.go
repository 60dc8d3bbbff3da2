package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/anarmmdv/bazar/internal/config"
	"github.com/anarmmdv/bazar/internal/domain/models"
)

const exportRange = "Reports!A:H"

// Exporter appends analysis report rows to an external spreadsheet.
type Exporter interface {
	AppendSummary(ctx context.Context, from, to string, rows []models.ProductSummary) error
}

// GoogleSheetExporter implements Exporter using the official Sheets API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSummary writes one spreadsheet row per product summary, tagged with
// the report period.
func (e *GoogleSheetExporter) AppendSummary(ctx context.Context, from, to string, rows []models.ProductSummary) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		values = append(values, []interface{}{
			from, to, r.Name, r.BoughtKg, r.BoughtAmount, r.SoldKg, r.SoldAmount, r.Profit,
		})
	}

	payload := &sheetsapi.ValueRange{Values: values}
	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, exportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary rows into range %s: %w", exportRange, err)
	}

	e.logger.Debug("summary exported to sheet", zap.Int("rows", len(values)), zap.String("from", from), zap.String("to", to))
	return nil
}
