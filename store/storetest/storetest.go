// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"invoicegen-backend/models"
	"invoicegen-backend/store"
)

// Factory returns an empty, migrated store.
type Factory func(t *testing.T) store.Store

// Run exercises s against the store.Store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("InvoiceCRUD", func(t *testing.T) { testInvoiceCRUD(t, newStore(t)) })
	t.Run("InvoiceListing", func(t *testing.T) { testInvoiceListing(t, newStore(t)) })
	t.Run("InvoiceStatus", func(t *testing.T) { testInvoiceStatus(t, newStore(t)) })
	t.Run("MessageLogs", func(t *testing.T) { testMessageLogs(t, newStore(t)) })
}

// Times are truncated to milliseconds because document stores keep no more.
func ts(offset time.Duration) time.Time {
	return time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC).Add(offset).Truncate(time.Millisecond)
}

func NewUser(email string) *models.User {
	return &models.User{
		ID:        uuid.NewString(),
		Name:      "Jane Doe",
		Email:     email,
		Password:  "$2a$04$hash",
		CreatedAt: ts(0),
		UpdatedAt: ts(0),
	}
}

func NewInvoice(userID string, created time.Time) *models.Invoice {
	return &models.Invoice{
		ID:            uuid.NewString(),
		UserID:        userID,
		InvoiceNumber: "INV-" + uuid.NewString()[:6],
		InvoiceDate:   created,
		DueDate:       created.Add(30 * 24 * time.Hour),
		BillFrom:      models.BillFrom{BusinessName: "Acme", Email: "billing@acme.test"},
		BillTo:        models.BillTo{ClientName: "Bob", PhoneNumber: "+15551234567"},
		Items: []models.LineItem{
			{Name: "Design", Quantity: 2, Price: 50, Tax: 10, Total: 110},
			{Name: "Hosting", Quantity: 1, Price: 100, Tax: 0, Total: 100},
		},
		PaymentTerms: models.DefaultPaymentTerms,
		Status:       models.StatusUnpaid,
		Subtotal:     200,
		TaxTotal:     10,
		Total:        210,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()

	u := NewUser("jane@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	dup := NewUser("jane@example.com")
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != u.Email || got.Password != u.Password {
		t.Errorf("GetUser: got %+v", got)
	}

	byEmail, err := s.GetUserByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetUserByEmail: got id %s, want %s", byEmail.ID, u.ID)
	}

	if _, err := s.GetUser(ctx, uuid.NewString()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser missing: got %v, want ErrNotFound", err)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByEmail missing: got %v, want ErrNotFound", err)
	}

	got.BusinessName = "Jane Co"
	got.UpdatedAt = ts(time.Hour)
	if err := s.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	again, _ := s.GetUser(ctx, u.ID)
	if again.BusinessName != "Jane Co" {
		t.Errorf("UpdateUser: business name = %q", again.BusinessName)
	}

	if err := s.UpdateUser(ctx, NewUser("ghost@example.com")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateUser missing: got %v, want ErrNotFound", err)
	}
}

func testInvoiceCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser("owner@example.com")
	if err := s.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	inv := NewInvoice(owner.ID, ts(0))
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	got, err := s.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.UserID != owner.ID || got.Total != 210 || got.BillTo.ClientName != "Bob" {
		t.Errorf("GetInvoice: got %+v", got)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "Design" || got.Items[1].Name != "Hosting" {
		t.Fatalf("GetInvoice items: got %+v", got.Items)
	}
	if !got.DueDate.Equal(inv.DueDate) {
		t.Errorf("DueDate: got %v, want %v", got.DueDate, inv.DueDate)
	}

	got.Items = []models.LineItem{{Name: "Audit", Quantity: 1, Price: 40, Tax: 0, Total: 40}}
	got.Subtotal, got.TaxTotal, got.Total = 40, 0, 40
	got.Notes = "revised"
	got.UpdatedAt = ts(time.Hour)
	if err := s.UpdateInvoice(ctx, got); err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	updated, _ := s.GetInvoice(ctx, inv.ID)
	if len(updated.Items) != 1 || updated.Items[0].Name != "Audit" {
		t.Errorf("UpdateInvoice items: got %+v", updated.Items)
	}
	if updated.Total != 40 || updated.Notes != "revised" {
		t.Errorf("UpdateInvoice: got total %v notes %q", updated.Total, updated.Notes)
	}

	if err := s.UpdateInvoice(ctx, NewInvoice(owner.ID, ts(0))); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateInvoice missing: got %v, want ErrNotFound", err)
	}

	if err := s.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("DeleteInvoice: %v", err)
	}
	if _, err := s.GetInvoice(ctx, inv.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetInvoice after delete: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteInvoice(ctx, inv.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteInvoice twice: got %v, want ErrNotFound", err)
	}
}

func testInvoiceListing(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser("alice@example.com")
	bob := NewUser("bob@example.com")
	for _, u := range []*models.User{alice, bob} {
		if err := s.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	var ids []string
	for i := 0; i < 3; i++ {
		inv := NewInvoice(alice.ID, ts(time.Duration(i)*time.Hour))
		if i == 1 {
			inv.Status = models.StatusPaid
		}
		if err := s.CreateInvoice(ctx, inv); err != nil {
			t.Fatalf("CreateInvoice: %v", err)
		}
		ids = append(ids, inv.ID)
	}
	if err := s.CreateInvoice(ctx, NewInvoice(bob.ID, ts(0))); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	all, err := s.ListInvoices(ctx, alice.ID, models.InvoiceListOpts{})
	if err != nil {
		t.Fatalf("ListInvoices: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListInvoices: got %d, want 3", len(all))
	}
	want := []string{ids[2], ids[1], ids[0]}
	for i, inv := range all {
		if inv.ID != want[i] {
			t.Errorf("ListInvoices[%d]: got %s, want %s", i, inv.ID, want[i])
		}
		if len(inv.Items) != 2 {
			t.Errorf("ListInvoices[%d]: got %d items, want 2", i, len(inv.Items))
		}
	}

	paid, _ := s.ListInvoices(ctx, alice.ID, models.InvoiceListOpts{Status: models.StatusPaid})
	if len(paid) != 1 || paid[0].ID != ids[1] {
		t.Errorf("ListInvoices status filter: got %d invoices", len(paid))
	}

	page, _ := s.ListInvoices(ctx, alice.ID, models.InvoiceListOpts{Limit: 1, Offset: 1})
	if len(page) != 1 || page[0].ID != ids[1] {
		t.Errorf("ListInvoices page: got %d invoices", len(page))
	}

	none, err := s.ListInvoices(ctx, uuid.NewString(), models.InvoiceListOpts{})
	if err != nil {
		t.Fatalf("ListInvoices unknown user: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListInvoices unknown user: got %d, want 0", len(none))
	}

	unpaid, err := s.ListInvoicesByStatus(ctx, models.StatusUnpaid)
	if err != nil {
		t.Fatalf("ListInvoicesByStatus: %v", err)
	}
	if len(unpaid) != 3 {
		t.Errorf("ListInvoicesByStatus: got %d, want 3", len(unpaid))
	}
}

func testInvoiceStatus(t *testing.T, s store.Store) {
	ctx := context.Background()
	owner := NewUser("status@example.com")
	if err := s.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	inv := NewInvoice(owner.ID, ts(0))
	if err := s.CreateInvoice(ctx, inv); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if err := s.UpdateInvoiceStatus(ctx, inv.ID, models.StatusOverdue); err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	got, _ := s.GetInvoice(ctx, inv.ID)
	if got.Status != models.StatusOverdue {
		t.Errorf("Status: got %s, want overdue", got.Status)
	}
	if len(got.Items) != 2 || got.Total != 210 {
		t.Errorf("status update touched other fields: %+v", got)
	}
	if !got.UpdatedAt.After(inv.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v", got.UpdatedAt)
	}

	if err := s.UpdateInvoiceStatus(ctx, uuid.NewString(), models.StatusPaid); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateInvoiceStatus missing: got %v, want ErrNotFound", err)
	}
}

func testMessageLogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	invoiceID := uuid.NewString()

	older := &models.MessageLog{
		ID: uuid.NewString(), UserID: "u1", InvoiceID: invoiceID,
		Type: models.MessageReminder, Channel: "sms", To: "+15551234567",
		Body: "first", Status: models.MessageSent, SentAt: ts(0),
	}
	newer := &models.MessageLog{
		ID: uuid.NewString(), UserID: "u1", InvoiceID: invoiceID,
		Type: models.MessageFollowUp, Channel: "sms", To: "+15551234567",
		Body: "second", Status: models.MessageFailed, ErrorMessage: "boom", SentAt: ts(time.Minute),
	}
	other := &models.MessageLog{
		ID: uuid.NewString(), UserID: "u1", InvoiceID: uuid.NewString(),
		Type: models.MessageThankYou, Channel: "sms", Status: models.MessageSent, SentAt: ts(0),
	}
	for _, l := range []*models.MessageLog{older, newer, other} {
		if err := s.CreateMessageLog(ctx, l); err != nil {
			t.Fatalf("CreateMessageLog: %v", err)
		}
	}

	logs, err := s.ListMessageLogs(ctx, invoiceID)
	if err != nil {
		t.Fatalf("ListMessageLogs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("ListMessageLogs: got %d, want 2", len(logs))
	}
	if logs[0].Body != "second" || logs[1].Body != "first" {
		t.Errorf("ListMessageLogs order: got %q, %q", logs[0].Body, logs[1].Body)
	}
	if logs[0].ErrorMessage != "boom" || logs[0].To != "+15551234567" {
		t.Errorf("ListMessageLogs fields: got %+v", logs[0])
	}
}
