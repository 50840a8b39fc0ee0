package worker

// ordersheet_worker.go
// Processes order-sheet jobs from QueueOrderSheet. When an order is pushed
// to production the worker renders the PDF production sheet and emails it
// to the production inbox so the floor can start without touching the app.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"betteredible/internal/infra"
	"betteredible/internal/model"
	"betteredible/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// OrderSheetJobPayload is the job envelope sent to QueueOrderSheet.
type OrderSheetJobPayload struct {
	OrderID string `json:"order_id"`
}

// OrderSheetWorker renders production order sheets and hands them to the
// email queue.
type OrderSheetWorker struct {
	orderRepo       repository.OrderRepository
	dispatcher      *Dispatcher
	rdb             *redis.Client
	pdfStoragePath  string
	productionEmail string
}

func NewOrderSheetWorker(
	orderRepo repository.OrderRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
	productionEmail string,
) *OrderSheetWorker {
	return &OrderSheetWorker{
		orderRepo:       orderRepo,
		dispatcher:      dispatcher,
		rdb:             rdb,
		pdfStoragePath:  pdfStoragePath,
		productionEmail: productionEmail,
	}
}

// Process handles a single order-sheet job:
//  1. Parse OrderSheetJobPayload from the job envelope
//  2. Fetch the order (with items and client) from DB, retrying transient failures
//  3. Render the PDF production sheet
//  4. Enqueue an email job to the production inbox with the PDF attached
func (w *OrderSheetWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload OrderSheetJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("ordersheet_worker: invalid payload")
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("ordersheet_worker: invalid order_id")
		return
	}

	var order *model.ClientOrder
	fetchErr := withRetry(ctx, 3, func(attempt int) error {
		var err error
		order, err = w.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Str("order_id", payload.OrderID).
				Msg("ordersheet_worker: order fetch failed, retrying")
		}
		return err
	})
	if fetchErr != nil {
		log.Error().Err(fetchErr).Str("order_id", payload.OrderID).Msg("ordersheet_worker: order not found")
		SendToDLQ(ctx, w.rdb, QueueOrderSheet, "ordersheet", raw, "order not found: "+fetchErr.Error(), 3)
		return
	}

	pdfPath, err := infra.GenerateOrderSheetPDF(order, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("ordersheet_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueOrderSheet, "ordersheet", raw, "pdf generation failed: "+err.Error(), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Int("order_number", order.OrderNumber).Msg("ordersheet_worker: PDF generated")

	if w.productionEmail == "" {
		log.Warn().Msg("ordersheet_worker: no production email configured — sheet left on disk")
		return
	}

	storeName := ""
	if order.Client != nil {
		storeName = order.Client.StoreName
	}
	emailJob := EmailJobPayload{
		ToEmail: w.productionEmail,
		Subject: fmt.Sprintf("Production sheet — Order #%d (%s)", order.OrderNumber, storeName),
		Body:    fmt.Sprintf("Order #%d entered production.\nItems: %d\nTotal: $%s", order.OrderNumber, len(order.Items), order.Total.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("order_id", payload.OrderID).Msg("ordersheet_worker: failed to enqueue email")
		return
	}
	log.Info().Int("order_number", order.OrderNumber).Msg("ordersheet_worker: email job enqueued")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
