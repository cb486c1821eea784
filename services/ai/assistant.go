package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
)

// InvoiceDraft is the invoice-shaped JSON extracted from free text. It is
// never persisted by this package.
type InvoiceDraft struct {
	InvoiceNumber string            `json:"invoiceNumber"`
	InvoiceDate   string            `json:"invoiceDate"`
	DueDate       string            `json:"dueDate"`
	BillFrom      models.BillFrom   `json:"billFrom"`
	BillTo        models.BillTo     `json:"billTo"`
	Items         []models.LineItem `json:"items"`
	Subtotal      float64           `json:"subtotal"`
	TaxTotal      float64           `json:"taxTotal"`
	Total         float64           `json:"total"`
	Notes         string            `json:"notes"`
	PaymentTerms  string            `json:"paymentTerms"`
}

type ReminderEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Assistant runs the three model-backed tasks with a per-call timeout and
// retries on generic failures.
type Assistant struct {
	model      Model
	timeout    time.Duration
	maxRetries int
	now        func() time.Time
	log        zerolog.Logger
}

func NewAssistant(model Model, timeout time.Duration, maxRetries int) *Assistant {
	return &Assistant{
		model:      model,
		timeout:    timeout,
		maxRetries: maxRetries,
		now:        time.Now,
		log:        logger.WithComponent("ai"),
	}
}

func (a *Assistant) ParseInvoiceText(ctx context.Context, text string) (*InvoiceDraft, error) {
	prompt := RenderParsePrompt(text, a.now().Format("2006-01-02"))
	reply, err := a.generate(ctx, "parse_invoice", prompt)
	if err != nil {
		return nil, err
	}

	var draft InvoiceDraft
	if err := DecodeReply(reply, &draft); err != nil {
		a.log.Warn().Err(err).Msg("unparseable invoice draft")
		return nil, malformed("Could not extract invoice data from the AI response.", errors.Unwrap(err))
	}
	return &draft, nil
}

func (a *Assistant) DraftReminder(ctx context.Context, inv *models.Invoice, customMessage string) (*ReminderEmail, error) {
	reply, err := a.generate(ctx, "reminder_email", RenderReminderPrompt(inv, customMessage))
	if err != nil {
		return nil, err
	}

	var email ReminderEmail
	if err := DecodeReply(reply, &email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(email.Subject) == "" && strings.TrimSpace(email.Body) == "" {
		return nil, malformed("The AI response did not contain an email.", errEmptyReply)
	}
	return &email, nil
}

func (a *Assistant) Insights(ctx context.Context, stats models.InvoiceStatistics) ([]string, error) {
	reply, err := a.generate(ctx, "dashboard_insights", RenderDashboardPrompt(stats))
	if err != nil {
		return nil, err
	}

	var out struct {
		Insights *[]string `json:"insights"`
	}
	if err := DecodeReply(reply, &out); err != nil {
		return nil, err
	}
	if out.Insights == nil {
		return nil, malformed("The AI response did not contain insights.", errors.New(`missing "insights" key`))
	}
	return *out.Insights, nil
}

// generate calls the model under a timeout, retrying only failures that
// are neither auth/quota problems nor caller cancellation.
func (a *Assistant) generate(ctx context.Context, op, prompt string) (string, error) {
	var lastErr *UpstreamError
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		start := time.Now()
		reply, err := a.model.Generate(callCtx, prompt)
		cancel()

		if err == nil {
			a.log.Debug().
				Str("op", op).
				Str("model", a.model.Name()).
				Int("attempt", attempt+1).
				Dur("latency", time.Since(start)).
				Msg("model replied")
			return reply, nil
		}

		lastErr = classify(err)
		a.log.Warn().
			Err(err).
			Str("op", op).
			Str("model", a.model.Name()).
			Str("kind", lastErr.Kind.String()).
			Int("attempt", attempt+1).
			Int("max_retries", a.maxRetries).
			Msg("model call failed")

		if lastErr.Kind != Generic || ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
