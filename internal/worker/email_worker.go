package worker

// email_worker.go
// Drains QueueEmail: shipping notifications to store contacts and order
// sheets to the production inbox.

import (
	"context"
	"encoding/json"

	"betteredible/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path,omitempty"`
}

// EmailWorker hands email jobs to the SMTP mailer.
type EmailWorker struct {
	mailer *infra.Mailer
}

func NewEmailWorker(mailer *infra.Mailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

// Process sends one email, attaching a PDF when the payload names one.
// Malformed and recipient-less jobs are dropped with a log line; they would
// fail identically on every retry.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) {
	var job EmailJobPayload
	if err := json.Unmarshal(raw, &job); err != nil {
		log.Error().Err(err).Msg("email_worker: undecodable payload dropped")
		return
	}
	if job.ToEmail == "" {
		log.Warn().Str("subject", job.Subject).Msg("email_worker: job without recipient dropped")
		return
	}

	if err := w.mailer.Send(job.ToEmail, job.Subject, job.Body, job.PDFPath); err != nil {
		log.Error().Err(err).Str("to", job.ToEmail).Msg("email_worker: delivery failed")
		return
	}
	log.Info().Str("to", job.ToEmail).Str("subject", job.Subject).Bool("attachment", job.PDFPath != "").Msg("email_worker: delivered")
}
