package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

const ChannelSMS = "sms"

// SMSSender delivers a text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

// RenderMessage fills the stock template for msgType. now dates the
// follow-up's overdue count.
func RenderMessage(msgType models.MessageType, inv *models.Invoice, now time.Time) string {
	client := strings.TrimSpace(inv.BillTo.ClientName)
	if client == "" {
		client = "Customer"
	}
	amount := "$" + utils.FormatMoney(inv.Total)

	switch msgType {
	case models.MessageThankYou:
		return fmt.Sprintf("Dear %s,\n\nThank you for your payment of %s for invoice #%s.\n\nWe appreciate your business and look forward to working with you again.\n\nBest regards",
			client, amount, inv.InvoiceNumber)
	case models.MessageFollowUp:
		overdue := "now overdue"
		switch days := utils.DaysPastDue(inv.DueDate, now); {
		case days == 1:
			overdue = "now 1 day overdue"
		case days > 1:
			overdue = fmt.Sprintf("now %d days overdue", days)
		}
		return fmt.Sprintf("Dear %s,\n\nWe noticed that invoice #%s for %s is %s.\n\nPlease contact us if you have any questions or concerns regarding this invoice.\n\nBest regards",
			client, inv.InvoiceNumber, amount, overdue)
	default:
		return fmt.Sprintf("Dear %s,\n\nThis is a friendly reminder that invoice #%s for %s is due on %s.\n\nPlease process the payment at your earliest convenience.\n\nBest regards",
			client, inv.InvoiceNumber, amount, utils.FormatDate(inv.DueDate))
	}
}

type SendMessageInput struct {
	MessageType   models.MessageType `json:"messageType" binding:"omitempty,oneof=reminder thankYou followUp"`
	CustomMessage string             `json:"customMessage"`
}

// MessageService sends invoice messages to clients. A nil sender means SMS
// is not configured.
type MessageService struct {
	store  store.Store
	sender SMSSender
	log    zerolog.Logger
	now    func() time.Time
}

func NewMessageService(s store.Store, sender SMSSender) *MessageService {
	return &MessageService{
		store:  s,
		sender: sender,
		log:    logger.WithComponent("messages"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MessageService) Enabled() bool { return s.sender != nil }

func (s *MessageService) Send(ctx context.Context, userID, invoiceID string, in SendMessageInput) (*models.MessageLog, error) {
	if in.MessageType == "" {
		in.MessageType = models.MessageReminder
	}
	if !in.MessageType.IsValid() {
		return nil, validationError("Invalid message type. Must be one of: reminder, thankYou, followUp")
	}
	inv, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if s.sender == nil {
		return nil, unavailableError("SMS delivery is not configured")
	}
	if !utils.ValidatePhone(inv.BillTo.PhoneNumber) {
		return nil, validationError("Client phone number is missing or invalid")
	}

	body := strings.TrimSpace(in.CustomMessage)
	if body == "" {
		body = RenderMessage(in.MessageType, inv, s.now())
	}

	entry, err := s.deliver(ctx, inv, in.MessageType, body)
	if err != nil {
		return nil, internalError("Failed to record message", err)
	}
	if entry.Status == models.MessageFailed {
		return entry, &Error{Kind: KindUpstream, Message: "Failed to send message", Err: errors.New(entry.ErrorMessage)}
	}
	return entry, nil
}

func (s *MessageService) List(ctx context.Context, userID, invoiceID string) ([]*models.MessageLog, error) {
	if _, err := loadOwnedInvoice(ctx, s.store, userID, invoiceID); err != nil {
		return nil, err
	}
	logs, err := s.store.ListMessageLogs(ctx, invoiceID)
	if err != nil {
		return nil, internalError("Failed to fetch messages", err)
	}
	return logs, nil
}

// deliver sends body to the invoice's client and records the attempt. The
// returned error only reports a failure to store the log entry.
func (s *MessageService) deliver(ctx context.Context, inv *models.Invoice, msgType models.MessageType, body string) (*models.MessageLog, error) {
	to := utils.NormalizePhone(inv.BillTo.PhoneNumber)
	entry := &models.MessageLog{
		ID:        uuid.NewString(),
		UserID:    inv.UserID,
		InvoiceID: inv.ID,
		Type:      msgType,
		Channel:   ChannelSMS,
		To:        to,
		Body:      body,
		Status:    models.MessageSent,
	}

	sid, err := s.sender.Send(ctx, to, body)
	entry.SentAt = s.now()
	if err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID).Str("type", string(msgType)).Msg("failed to send message")
		entry.Status = models.MessageFailed
		entry.ErrorMessage = err.Error()
	} else {
		entry.ProviderID = sid
		s.log.Info().Str("invoice_id", inv.ID).Str("sid", sid).Str("type", string(msgType)).Msg("message sent")
	}

	if err := s.store.CreateMessageLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("failed to log message")
		return entry, err
	}
	return entry, nil
}
