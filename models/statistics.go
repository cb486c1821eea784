package models

// InvoiceStatistics summarises one owner's invoices for the dashboard.
type InvoiceStatistics struct {
	TotalInvoices   int     `json:"totalInvoices"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PaidInvoices    int     `json:"paidInvoices"`
	UnpaidInvoices  int     `json:"unpaidInvoices"`
	OverdueInvoices int     `json:"overdueInvoices"`
	PartialInvoices int     `json:"partialInvoices"`
}

// Tally counts invoices per status and sums their totals.
func Tally(invoices []*Invoice) InvoiceStatistics {
	stats := InvoiceStatistics{TotalInvoices: len(invoices)}
	for _, inv := range invoices {
		stats.TotalRevenue += inv.Total
		switch inv.Status {
		case StatusPaid:
			stats.PaidInvoices++
		case StatusUnpaid:
			stats.UnpaidInvoices++
		case StatusOverdue:
			stats.OverdueInvoices++
		case StatusPartial:
			stats.PartialInvoices++
		}
	}
	return stats
}
