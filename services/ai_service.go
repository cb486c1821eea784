package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
	"invoicegen-backend/services/ai"
	"invoicegen-backend/store"
)

// NoInvoicesInsight is returned instead of a model call when the owner has
// no invoices yet.
const NoInvoicesInsight = "No invoices found. Start creating invoices to see insights."

type DashboardSummary struct {
	Statistics models.InvoiceStatistics
	Insights   []string
}

// AIService wires the assistant to stored invoices. A nil assistant means
// no provider is configured.
type AIService struct {
	store     store.Store
	assistant *ai.Assistant
	log       zerolog.Logger
}

func NewAIService(s store.Store, assistant *ai.Assistant) *AIService {
	return &AIService{
		store:     s,
		assistant: assistant,
		log:       logger.WithComponent("ai-service"),
	}
}

// ParseInvoiceText returns a draft whose totals were recomputed locally.
func (s *AIService) ParseInvoiceText(ctx context.Context, text string) (*ai.InvoiceDraft, error) {
	if strings.TrimSpace(text) == "" {
		return nil, validationError("Text is required")
	}
	if s.assistant == nil {
		return nil, unavailableError("AI service is not configured")
	}

	draft, err := s.assistant.ParseInvoiceText(ctx, text)
	if err != nil {
		return nil, s.upstream("parse invoice", err)
	}

	if draft.Items == nil {
		draft.Items = []models.LineItem{}
	}
	t := CalculateTotals(draft.Items)
	if err := ValidateTotals(draft.Items, t); err != nil {
		return nil, err
	}
	draft.Subtotal, draft.TaxTotal, draft.Total = t.Subtotal, t.TaxTotal, t.Total
	if draft.PaymentTerms == "" {
		draft.PaymentTerms = models.DefaultPaymentTerms
	}
	return draft, nil
}

func (s *AIService) GenerateReminder(ctx context.Context, userID, invoiceID, customMessage string) (*ai.ReminderEmail, *models.Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, nil, validationError("Invoice ID is required")
	}
	inv, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID)
	if err != nil {
		if KindOf(err) == KindForbidden {
			return nil, nil, forbiddenError("Unauthorized access to invoice")
		}
		return nil, nil, err
	}
	if s.assistant == nil {
		return nil, nil, unavailableError("AI service is not configured")
	}

	email, err := s.assistant.DraftReminder(ctx, inv, customMessage)
	if err != nil {
		return nil, nil, s.upstream("reminder email", err)
	}
	return email, inv, nil
}

func (s *AIService) DashboardSummary(ctx context.Context, userID string) (*DashboardSummary, error) {
	invoices, err := s.store.ListInvoices(ctx, userID, models.InvoiceListOpts{})
	if err != nil {
		return nil, internalError("Failed to fetch invoices", err)
	}

	stats := models.Tally(invoices)
	if stats.TotalInvoices == 0 {
		return &DashboardSummary{Statistics: stats, Insights: []string{NoInvoicesInsight}}, nil
	}
	if s.assistant == nil {
		return nil, unavailableError("AI service is not configured")
	}

	insights, err := s.assistant.Insights(ctx, stats)
	if err != nil {
		return nil, s.upstream("dashboard summary", err)
	}
	return &DashboardSummary{Statistics: stats, Insights: insights}, nil
}

func (s *AIService) upstream(op string, err error) error {
	var ue *ai.UpstreamError
	if errors.As(err, &ue) {
		s.log.Error().Err(ue.Err).Str("op", op).Str("kind", ue.Kind.String()).Msg("AI request failed")
		return &Error{Kind: KindUpstream, Message: ue.Hint, Err: ue}
	}
	s.log.Error().Err(err).Str("op", op).Msg("AI request failed")
	return internalError("Internal server error", err)
}
