package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

// CreateInvoiceInput is the body of POST /api/invoices. Item totals and
// aggregates are always computed server side.
type CreateInvoiceInput struct {
	InvoiceNumber string            `json:"invoiceNumber"`
	InvoiceDate   string            `json:"invoiceDate"`
	DueDate       string            `json:"dueDate"`
	BillFrom      models.BillFrom   `json:"billFrom"`
	BillTo        models.BillTo     `json:"billTo"`
	Items         []models.LineItem `json:"items" binding:"required"`
	Notes         string            `json:"notes"`
	PaymentTerms  string            `json:"paymentTerms"`
}

// UpdateInvoiceInput is a partial update: nil fields keep the stored value,
// non-nil fields (including empty strings) overwrite it.
type UpdateInvoiceInput struct {
	InvoiceNumber *string               `json:"invoiceNumber"`
	InvoiceDate   *string               `json:"invoiceDate"`
	DueDate       *string               `json:"dueDate"`
	BillFrom      *models.BillFrom      `json:"billFrom"`
	BillTo        *models.BillTo        `json:"billTo"`
	Items         *[]models.LineItem    `json:"items"`
	Notes         *string               `json:"notes"`
	PaymentTerms  *string               `json:"paymentTerms"`
	Status        *models.InvoiceStatus `json:"status"`
}

type InvoiceService struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewInvoiceService(s store.Store) *InvoiceService {
	return &InvoiceService{
		store: s,
		log:   logger.WithComponent("invoices"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *InvoiceService) Create(ctx context.Context, userID string, in CreateInvoiceInput) (*models.Invoice, error) {
	if in.Items == nil {
		return nil, validationError("Items are required")
	}
	if err := ValidateItems(in.Items); err != nil {
		return nil, err
	}

	now := s.now()
	invoiceDate := now
	if in.InvoiceDate != "" {
		d, err := utils.ParseDate(in.InvoiceDate)
		if err != nil {
			return nil, validationError("Invalid invoiceDate: use YYYY-MM-DD")
		}
		invoiceDate = d
	}
	dueDate := invoiceDate.AddDate(0, 0, 30)
	if in.DueDate != "" {
		d, err := utils.ParseDate(in.DueDate)
		if err != nil {
			return nil, validationError("Invalid dueDate: use YYYY-MM-DD")
		}
		dueDate = d
	}

	inv := &models.Invoice{
		ID:            uuid.NewString(),
		UserID:        userID,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		BillFrom:      in.BillFrom,
		BillTo:        in.BillTo,
		Items:         append([]models.LineItem{}, in.Items...),
		Notes:         in.Notes,
		PaymentTerms:  in.PaymentTerms,
		Status:        models.StatusUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = GenerateInvoiceNumber(now)
	}
	if inv.PaymentTerms == "" {
		inv.PaymentTerms = models.DefaultPaymentTerms
	}
	if err := ApplyTotals(inv); err != nil {
		return nil, err
	}

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("create invoice failed")
		return nil, internalError("Failed to create invoice", err)
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, userID string, opts models.InvoiceListOpts) ([]*models.Invoice, error) {
	if opts.Status != "" && !opts.Status.IsValid() {
		return nil, validationError("Invalid status. Must be one of: " + models.StatusList())
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, validationError("limit and offset must not be negative")
	}
	invoices, err := s.store.ListInvoices(ctx, userID, opts)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list invoices failed")
		return nil, internalError("Failed to fetch invoices", err)
	}
	return invoices, nil
}

func (s *InvoiceService) Get(ctx context.Context, userID, invoiceID string) (*models.Invoice, error) {
	return loadOwnedInvoice(ctx, s.store, userID, invoiceID)
}

func (s *InvoiceService) Update(ctx context.Context, userID, invoiceID string, in UpdateInvoiceInput) (*models.Invoice, error) {
	inv, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if in == (UpdateInvoiceInput{}) {
		return inv, nil
	}

	if in.InvoiceNumber != nil {
		inv.InvoiceNumber = *in.InvoiceNumber
	}
	if in.InvoiceDate != nil {
		d, err := utils.ParseDate(*in.InvoiceDate)
		if err != nil {
			return nil, validationError("Invalid invoiceDate: use YYYY-MM-DD")
		}
		inv.InvoiceDate = d
	}
	if in.DueDate != nil {
		d, err := utils.ParseDate(*in.DueDate)
		if err != nil {
			return nil, validationError("Invalid dueDate: use YYYY-MM-DD")
		}
		inv.DueDate = d
	}
	if in.BillFrom != nil {
		inv.BillFrom = *in.BillFrom
	}
	if in.BillTo != nil {
		inv.BillTo = *in.BillTo
	}
	if in.Items != nil {
		if err := ValidateItems(*in.Items); err != nil {
			return nil, err
		}
		inv.Items = append([]models.LineItem{}, (*in.Items)...)
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	if in.PaymentTerms != nil {
		inv.PaymentTerms = *in.PaymentTerms
	}
	if in.Status != nil {
		if !in.Status.IsValid() {
			return nil, validationError("Invalid status. Must be one of: " + models.StatusList())
		}
		inv.Status = *in.Status
	}

	if err := ApplyTotals(inv); err != nil {
		return nil, err
	}
	inv.UpdatedAt = s.now()

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("Invoice not found")
		}
		s.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("update invoice failed")
		return nil, internalError("Failed to update invoice", err)
	}
	return inv, nil
}

// UpdateStatus validates status before touching the store, so a rejected
// value never changes the stored invoice.
func (s *InvoiceService) UpdateStatus(ctx context.Context, userID, invoiceID string, status models.InvoiceStatus) (*models.Invoice, error) {
	if !status.IsValid() {
		return nil, validationError("Invalid status. Must be one of: " + models.StatusList())
	}
	inv, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateInvoiceStatus(ctx, invoiceID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("Invoice not found")
		}
		s.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("update status failed")
		return nil, internalError("Failed to update invoice status", err)
	}

	updated, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		inv.Status = status
		return inv, nil
	}
	return updated, nil
}

func (s *InvoiceService) Delete(ctx context.Context, userID, invoiceID string) error {
	if _, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID); err != nil {
		return err
	}
	if err := s.store.DeleteInvoice(ctx, invoiceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFoundError("Invoice not found")
		}
		s.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("delete invoice failed")
		return internalError("Failed to delete invoice", err)
	}
	return nil
}

// loadOwnedInvoice fetches an invoice and checks it belongs to userID.
func loadOwnedInvoice(ctx context.Context, s store.Store, userID, invoiceID string) (*models.Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, validationError("Invoice ID is required")
	}
	inv, err := s.GetInvoice(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundError("Invoice not found")
		}
		return nil, internalError("Failed to fetch invoice", err)
	}
	if inv.UserID != userID {
		return nil, forbiddenError("Not authorized to access this invoice")
	}
	return inv, nil
}

// GenerateInvoiceNumber returns INV-YYYYMMDD-XXXXXX.
func GenerateInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "INV-" + now.Format("20060102") + "-" + suffix
}
