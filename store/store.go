package store

import (
	"context"
	"errors"

	"invoicegen-backend/models"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store persists users, invoices and message logs. Every method that
// mutates an invoice writes a single document (or a single transaction for
// relational backends).
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error

	// Invoices
	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error)
	ListInvoices(ctx context.Context, userID string, opts models.InvoiceListOpts) ([]*models.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, invoiceID string) error

	// Message logs
	CreateMessageLog(ctx context.Context, l *models.MessageLog) error
	ListMessageLogs(ctx context.Context, invoiceID string) ([]*models.MessageLog, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
