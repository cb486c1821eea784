package ai

import (
	"strings"
	"testing"

	"invoicegen-backend/models"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding space", "  \n```json{\"a\":1}```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDataSummary(t *testing.T) {
	stats := models.InvoiceStatistics{
		TotalInvoices:   4,
		TotalRevenue:    1234.5,
		PaidInvoices:    1,
		UnpaidInvoices:  1,
		OverdueInvoices: 1,
		PartialInvoices: 1,
	}
	want := "Total Invoices: 4, Total Revenue: $1234.50, Paid: 1, Unpaid: 1, Overdue: 1, Partial: 1"
	if got := DataSummary(stats); got != want {
		t.Errorf("DataSummary:\n got %s\nwant %s", got, want)
	}
	if !strings.Contains(RenderDashboardPrompt(stats), "Data summary: "+want) {
		t.Error("dashboard prompt does not embed the data summary")
	}
}

func TestReminderPromptDefaults(t *testing.T) {
	prompt := RenderReminderPrompt(&models.Invoice{InvoiceNumber: "INV-1", Total: 5}, "")
	if !strings.Contains(prompt, "- Client Name: Valued Customer") {
		t.Error("missing client name should fall back to Valued Customer")
	}
	if strings.Contains(prompt, "Additional Note") {
		t.Error("empty custom message should not add a note line")
	}
}

func TestParsePromptIsDeterministic(t *testing.T) {
	a := RenderParsePrompt("invoice text", "2025-01-01")
	b := RenderParsePrompt("invoice text", "2025-01-01")
	if a != b {
		t.Error("same inputs rendered different prompts")
	}
	if !strings.Contains(a, "(default: "+models.DefaultPaymentTerms+")") {
		t.Error("prompt should name the default payment terms")
	}
}
