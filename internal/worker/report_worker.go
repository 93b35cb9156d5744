package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"smartstock/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReportWorker renders a sales summary to a PDF file under storagePath.
type ReportWorker struct {
	storagePath string
}

func NewReportWorker(storagePath string) *ReportWorker {
	return &ReportWorker{storagePath: storagePath}
}

func (w *ReportWorker) Process(_ context.Context, payload json.RawMessage) error {
	var job ReportJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("report: unmarshal payload: %w", err)
	}

	path, err := infra.GenerateReportPDF(&job.Summary, w.storagePath)
	if err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Str("requested_by", job.RequestedBy).
		Msg("sales report PDF generated")
	return nil
}
