package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"smartstock/internal/infra"

	"github.com/rs/zerolog/log"
)

// LowStockWorker emails a restock alert for products that dropped to or
// below their minimum stock level.
type LowStockWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
	alertTo string
}

func NewLowStockWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, alertTo string) *LowStockWorker {
	return &LowStockWorker{mailer: mailer, breaker: breaker, alertTo: alertTo}
}

func (w *LowStockWorker) Process(_ context.Context, payload json.RawMessage) error {
	var alert LowStockAlert
	if err := json.Unmarshal(payload, &alert); err != nil {
		return fmt.Errorf("lowstock: unmarshal payload: %w", err)
	}

	if w.alertTo == "" || !w.mailer.Configured() {
		// SMTP not configured — the alert still shows up in the logs.
		log.Warn().
			Str("product_code", alert.ProductCode).
			Str("product_name", alert.ProductName).
			Int("current_stock", alert.CurrentStock).
			Int("min_stock", alert.MinStock).
			Str("status", alert.Status).
			Msg("low stock alert (email disabled)")
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", alert.ProductName, alert.ProductCode)
	body := fmt.Sprintf(
		"Product %s (%s) is %s.\nCurrent stock: %d\nMinimum level: %d\n",
		alert.ProductName, alert.ProductCode, alert.Status, alert.CurrentStock, alert.MinStock,
	)

	return w.breaker.Execute(func() error {
		return w.mailer.Send(w.alertTo, subject, body, "")
	})
}
