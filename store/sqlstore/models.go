package sqlstore

import (
	"time"

	"invoicegen-backend/models"
)

type userRow struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string `gorm:"not null"`
	BusinessName string
	Address      string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type invoiceRow struct {
	ID     string `gorm:"type:varchar(36);primaryKey"`
	UserID string `gorm:"type:varchar(36);index:idx_invoices_user_created,priority:1;not null"`

	InvoiceNumber string    `gorm:"not null"`
	InvoiceDate   time.Time `gorm:"not null"`
	DueDate       time.Time `gorm:"not null"`

	BillFromBusinessName string
	BillFromEmail        string
	BillFromPhoneNumber  string
	BillFromAddress      string

	BillToClientName  string
	BillToEmail       string
	BillToPhoneNumber string
	BillToAddress     string

	Notes        string `gorm:"type:text"`
	PaymentTerms string
	Status       string `gorm:"type:varchar(20);index;not null;default:'unpaid'"`

	Subtotal float64 `gorm:"not null"`
	TaxTotal float64 `gorm:"not null"`
	Total    float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"index:idx_invoices_user_created,priority:2"`
	UpdatedAt time.Time

	Items []invoiceItemRow `gorm:"foreignKey:InvoiceID"`
}

func (invoiceRow) TableName() string { return "invoices" }

type invoiceItemRow struct {
	ID        uint   `gorm:"primaryKey"`
	InvoiceID string `gorm:"type:varchar(36);index;not null"`
	Position  int    `gorm:"not null"`
	Name      string `gorm:"not null"`
	Quantity  float64
	Price     float64
	Tax       float64
	Total     float64
}

func (invoiceItemRow) TableName() string { return "invoice_items" }

type messageLogRow struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	UserID       string `gorm:"type:varchar(36);index;not null"`
	InvoiceID    string `gorm:"type:varchar(36);index;not null"`
	Type         string `gorm:"type:varchar(20)"`
	Channel      string `gorm:"type:varchar(20)"`
	To           string `gorm:"column:recipient"`
	Body         string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20)"`
	ProviderID   string
	ErrorMessage string `gorm:"type:text"`
	SentAt       time.Time
}

func (messageLogRow) TableName() string { return "message_logs" }

func toUserRow(u *models.User) *userRow {
	return &userRow{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Password:     u.Password,
		BusinessName: u.BusinessName,
		Address:      u.Address,
		PhoneNumber:  u.PhoneNumber,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserRow(r *userRow) *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Password:     r.Password,
		BusinessName: r.BusinessName,
		Address:      r.Address,
		PhoneNumber:  r.PhoneNumber,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toInvoiceRow(inv *models.Invoice) *invoiceRow {
	r := &invoiceRow{
		ID:                   inv.ID,
		UserID:               inv.UserID,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceDate:          inv.InvoiceDate,
		DueDate:              inv.DueDate,
		BillFromBusinessName: inv.BillFrom.BusinessName,
		BillFromEmail:        inv.BillFrom.Email,
		BillFromPhoneNumber:  inv.BillFrom.PhoneNumber,
		BillFromAddress:      inv.BillFrom.Address,
		BillToClientName:     inv.BillTo.ClientName,
		BillToEmail:          inv.BillTo.Email,
		BillToPhoneNumber:    inv.BillTo.PhoneNumber,
		BillToAddress:        inv.BillTo.Address,
		Notes:                inv.Notes,
		PaymentTerms:         inv.PaymentTerms,
		Status:               string(inv.Status),
		Subtotal:             inv.Subtotal,
		TaxTotal:             inv.TaxTotal,
		Total:                inv.Total,
		CreatedAt:            inv.CreatedAt,
		UpdatedAt:            inv.UpdatedAt,
	}
	r.Items = toItemRows(inv.ID, inv.Items)
	return r
}

func toItemRows(invoiceID string, items []models.LineItem) []invoiceItemRow {
	rows := make([]invoiceItemRow, len(items))
	for i, it := range items {
		rows[i] = invoiceItemRow{
			InvoiceID: invoiceID,
			Position:  i,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Tax:       it.Tax,
			Total:     it.Total,
		}
	}
	return rows
}

func fromInvoiceRow(r *invoiceRow) *models.Invoice {
	items := make([]models.LineItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = models.LineItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Tax:      it.Tax,
			Total:    it.Total,
		}
	}
	return &models.Invoice{
		ID:            r.ID,
		UserID:        r.UserID,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		DueDate:       r.DueDate,
		BillFrom: models.BillFrom{
			BusinessName: r.BillFromBusinessName,
			Email:        r.BillFromEmail,
			PhoneNumber:  r.BillFromPhoneNumber,
			Address:      r.BillFromAddress,
		},
		BillTo: models.BillTo{
			ClientName:  r.BillToClientName,
			Email:       r.BillToEmail,
			PhoneNumber: r.BillToPhoneNumber,
			Address:     r.BillToAddress,
		},
		Items:        items,
		Notes:        r.Notes,
		PaymentTerms: r.PaymentTerms,
		Status:       models.InvoiceStatus(r.Status),
		Subtotal:     r.Subtotal,
		TaxTotal:     r.TaxTotal,
		Total:        r.Total,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toMessageLogRow(l *models.MessageLog) *messageLogRow {
	return &messageLogRow{
		ID:           l.ID,
		UserID:       l.UserID,
		InvoiceID:    l.InvoiceID,
		Type:         string(l.Type),
		Channel:      l.Channel,
		To:           l.To,
		Body:         l.Body,
		Status:       l.Status,
		ProviderID:   l.ProviderID,
		ErrorMessage: l.ErrorMessage,
		SentAt:       l.SentAt,
	}
}

func fromMessageLogRow(r *messageLogRow) *models.MessageLog {
	return &models.MessageLog{
		ID:           r.ID,
		UserID:       r.UserID,
		InvoiceID:    r.InvoiceID,
		Type:         models.MessageType(r.Type),
		Channel:      r.Channel,
		To:           r.To,
		Body:         r.Body,
		Status:       r.Status,
		ProviderID:   r.ProviderID,
		ErrorMessage: r.ErrorMessage,
		SentAt:       r.SentAt,
	}
}
