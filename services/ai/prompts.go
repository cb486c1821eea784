package ai

import (
	"fmt"
	"strings"

	"invoicegen-backend/models"
	"invoicegen-backend/utils"
)

const parseInvoiceTemplate = `You are an expert invoice data extractor AI. Analyze the following text and extract the relevant information to create an invoice. The output should be in JSON format with the following structure:
{
    "invoiceNumber": "string (generate one if not found, format: INV-YYYYMMDD-XXX)",
    "invoiceDate": "YYYY-MM-DD (use today if not specified)",
    "dueDate": "YYYY-MM-DD (use 30 days from invoice date if not specified)",
    "billFrom": {
        "businessName": "string",
        "email": "string",
        "phoneNumber": "string",
        "address": "string"
    },
    "billTo": {
        "clientName": "string",
        "email": "string",
        "phoneNumber": "string",
        "address": "string"
    },
    "items": [
        {
            "name": "string",
            "quantity": number,
            "price": number,
            "tax": number (percentage, default 0),
            "total": number (quantity * price)
        }
    ],
    "subtotal": number,
    "taxTotal": number,
    "total": number,
    "notes": "string (optional)",
    "paymentTerms": "string (default: %s)"
}

Important:
- If billFrom information is not in the text, leave those fields empty strings
- Generate a unique invoice number if not provided
- Calculate all totals accurately
- Use today's date (%s) if invoice date is not specified
- Set due date to 30 days from invoice date if not specified

Here is the text to parse:
---
%s
---

Extract the data and provide ONLY the JSON object, no additional text.`

// RenderParsePrompt embeds the caller's free text in the extraction prompt.
// today is the YYYY-MM-DD date the model should assume.
func RenderParsePrompt(text, today string) string {
	return fmt.Sprintf(parseInvoiceTemplate, models.DefaultPaymentTerms, today, text)
}

// RenderReminderPrompt asks for a reminder email about inv.
func RenderReminderPrompt(inv *models.Invoice, customMessage string) string {
	clientName := strings.TrimSpace(inv.BillTo.ClientName)
	if clientName == "" {
		clientName = "Valued Customer"
	}

	var b strings.Builder
	b.WriteString("You are a professional and polite accounting assistant. Write a friendly reminder email to the client about an overdue or upcoming invoice payment.\n\n")
	b.WriteString("Use the following details to personalize the email:\n")
	fmt.Fprintf(&b, "- Invoice Number: %s\n", inv.InvoiceNumber)
	fmt.Fprintf(&b, "- Due Date: %s\n", inv.DueDate.Format("January 2, 2006"))
	fmt.Fprintf(&b, "- Total Amount: $%s\n", utils.FormatMoney(inv.Total))
	fmt.Fprintf(&b, "- Client Name: %s\n", clientName)
	if msg := strings.TrimSpace(customMessage); msg != "" {
		fmt.Fprintf(&b, "- Additional Note: %s\n", msg)
	}
	b.WriteString(`
The tone should be friendly but clear. Keep it concise and professional.

Format the response as JSON:
{
    "subject": "subject line here",
    "body": "email body here"
}`)
	return b.String()
}

// DataSummary renders the statistics line handed to the model.
func DataSummary(stats models.InvoiceStatistics) string {
	return fmt.Sprintf("Total Invoices: %d, Total Revenue: $%s, Paid: %d, Unpaid: %d, Overdue: %d, Partial: %d",
		stats.TotalInvoices,
		utils.FormatMoney(stats.TotalRevenue),
		stats.PaidInvoices,
		stats.UnpaidInvoices,
		stats.OverdueInvoices,
		stats.PartialInvoices,
	)
}

// RenderDashboardPrompt asks for two or three insights over stats.
func RenderDashboardPrompt(stats models.InvoiceStatistics) string {
	return `You are a friendly and insightful financial analyst for a small business owner. Based on the following summary of their invoice data, provide 2-3 concise and actionable insights. Each insight should be a short sentence in a JSON array.

The insights should be encouraging and helpful. Do not just repeat the data.

For example, if there is a high outstanding amount, suggest sending reminders. If revenue is high, be encouraging.

Data summary: ` + DataSummary(stats) + `

Return your response as a valid JSON object with a single key "insights" which is an array of strings.

Example format: { "insights": ["Your revenue is looking strong this month!", "You have 5 overdue invoices. Consider sending reminders to get paid faster."] }`
}
