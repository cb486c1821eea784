package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicegen-backend/models"
	"invoicegen-backend/store/memory"
)

func fixedNow() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }

func newTestInvoiceService(t *testing.T) (*InvoiceService, *memory.Store) {
	t.Helper()
	st := memory.New()
	svc := NewInvoiceService(st)
	svc.now = fixedNow
	return svc, st
}

func sampleInput() CreateInvoiceInput {
	return CreateInvoiceInput{
		BillFrom: models.BillFrom{BusinessName: "Acme"},
		BillTo:   models.BillTo{ClientName: "Bob", PhoneNumber: "+15551234567"},
		Items: []models.LineItem{
			{Name: "Design", Quantity: 2, Price: 50, Tax: 10},
			{Name: "Hosting", Quantity: 1, Price: 100, Tax: 0},
		},
		Notes: "Thanks",
	}
}

func mustCreate(t *testing.T, svc *InvoiceService, userID string) *models.Invoice {
	t.Helper()
	inv, err := svc.Create(context.Background(), userID, sampleInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return inv
}

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *services.Error of kind %d, got %v", want, err)
	}
	if se.Kind != want {
		t.Fatalf("kind: got %d (%s), want %d", se.Kind, se.Message, want)
	}
}

func ptr[T any](v T) *T { return &v }
