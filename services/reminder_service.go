// services/reminder_service.go
package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"invoicegen-backend/logger"
	"invoicegen-backend/models"
	"invoicegen-backend/store"
	"invoicegen-backend/utils"
)

// ReminderService periodically sends the follow-up message to clients of
// overdue invoices. It never changes an invoice's status.
type ReminderService struct {
	store    store.Store
	messages *MessageService
	cron     *cron.Cron
	log      zerolog.Logger
}

func NewReminderService(s store.Store, messages *MessageService) *ReminderService {
	return &ReminderService{
		store:    s,
		messages: messages,
		cron:     cron.New(),
		log:      logger.WithComponent("reminders"),
	}
}

// StartScheduler registers the job under spec (standard five-field cron)
// and starts the scheduler.
func (s *ReminderService) StartScheduler(spec string) error {
	if !s.messages.Enabled() {
		return fmt.Errorf("reminder scheduler requires SMS delivery")
	}
	if _, err := s.cron.AddFunc(spec, func() {
		s.SendOverdueReminders(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid REMINDER_CRON %q: %w", spec, err)
	}

	s.cron.Start()
	s.log.Info().Str("schedule", spec).Msg("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// ReminderRun counts the outcome of one pass.
type ReminderRun struct {
	Sent    int
	Failed  int
	Skipped int
}

func (s *ReminderService) SendOverdueReminders(ctx context.Context) ReminderRun {
	var run ReminderRun
	s.log.Info().Msg("Starting overdue reminder processing...")

	invoices, err := s.store.ListInvoicesByStatus(ctx, models.StatusOverdue)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to fetch overdue invoices")
		return run
	}

	for _, inv := range invoices {
		if !utils.ValidatePhone(inv.BillTo.PhoneNumber) {
			run.Skipped++
			continue
		}

		entry, err := s.messages.deliver(ctx, inv, models.MessageFollowUp, RenderMessage(models.MessageFollowUp, inv, s.messages.now()))
		switch {
		case err != nil:
			run.Failed++
		case entry.Status == models.MessageFailed:
			run.Failed++
		default:
			run.Sent++
		}
	}

	s.log.Info().
		Int("sent", run.Sent).
		Int("failed", run.Failed).
		Int("skipped", run.Skipped).
		Msg("Overdue reminder processing completed")
	return run
}
