package models

import (
	"strings"
	"time"
)

// InvoiceStatus is the payment lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusUnpaid  InvoiceStatus = "unpaid"
	StatusPaid    InvoiceStatus = "paid"
	StatusPartial InvoiceStatus = "partial"
	StatusOverdue InvoiceStatus = "overdue"
)

// Statuses lists every accepted status in display order.
var Statuses = []InvoiceStatus{StatusPaid, StatusUnpaid, StatusPartial, StatusOverdue}

func (s InvoiceStatus) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// StatusList renders the allowed set as "paid, unpaid, partial, overdue".
func StatusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

const DefaultPaymentTerms = "Net 15"

type BillFrom struct {
	BusinessName string `json:"businessName" bson:"businessName"`
	Email        string `json:"email" bson:"email"`
	PhoneNumber  string `json:"phoneNumber" bson:"phoneNumber"`
	Address      string `json:"address" bson:"address"`
}

type BillTo struct {
	ClientName  string `json:"clientName" bson:"clientName"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Address     string `json:"address" bson:"address"`
}

type LineItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
	Tax      float64 `json:"tax" bson:"tax"` // percentage
	Total    float64 `json:"total" bson:"total"`
}

type Invoice struct {
	ID     string `json:"_id" bson:"_id"`
	UserID string `json:"user" bson:"user"`

	InvoiceNumber string    `json:"invoiceNumber" bson:"invoiceNumber"`
	InvoiceDate   time.Time `json:"invoiceDate" bson:"invoiceDate"`
	DueDate       time.Time `json:"dueDate" bson:"dueDate"`

	BillFrom BillFrom   `json:"billFrom" bson:"billFrom"`
	BillTo   BillTo     `json:"billTo" bson:"billTo"`
	Items    []LineItem `json:"items" bson:"items"`

	Notes        string        `json:"notes" bson:"notes"`
	PaymentTerms string        `json:"paymentTerms" bson:"paymentTerms"`
	Status       InvoiceStatus `json:"status" bson:"status"`

	Subtotal float64 `json:"subtotal" bson:"subtotal"`
	TaxTotal float64 `json:"taxTotal" bson:"taxTotal"`
	Total    float64 `json:"total" bson:"total"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clone returns a copy that shares no slices with the receiver.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return &out
}

// InvoiceListOpts narrows an owner's invoice listing. Zero values mean no filter.
type InvoiceListOpts struct {
	Status InvoiceStatus
	Limit  int
	Offset int
}
