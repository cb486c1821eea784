package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"invoicegen-backend/models"
)

type fakeSender struct {
	fail bool
	sent []string
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	if f.fail {
		return "", errors.New("twilio: unreachable")
	}
	f.sent = append(f.sent, to+"|"+body)
	return "SM123", nil
}

func TestRenderMessage(t *testing.T) {
	inv := &models.Invoice{
		InvoiceNumber: "INV-9",
		Total:         210,
		DueDate:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BillTo:        models.BillTo{ClientName: "Bob"},
	}

	tests := []struct {
		msgType models.MessageType
		want    []string
	}{
		{models.MessageReminder, []string{"Dear Bob", "invoice #INV-9 for $210.00 is due on 2025-04-01"}},
		{models.MessageThankYou, []string{"Thank you for your payment of $210.00 for invoice #INV-9"}},
		{models.MessageFollowUp, []string{"invoice #INV-9 for $210.00 is now overdue."}},
	}
	for _, tt := range tests {
		t.Run(string(tt.msgType), func(t *testing.T) {
			got := RenderMessage(tt.msgType, inv, inv.DueDate)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("message %q missing %q", got, w)
				}
			}
		})
	}

	late := RenderMessage(models.MessageFollowUp, inv, inv.DueDate.AddDate(0, 0, 12).Add(5*time.Hour))
	if !strings.Contains(late, "is now 12 days overdue.") {
		t.Errorf("follow-up overdue count: got %q", late)
	}
	oneDay := RenderMessage(models.MessageFollowUp, inv, inv.DueDate.AddDate(0, 0, 1))
	if !strings.Contains(oneDay, "is now 1 day overdue.") {
		t.Errorf("follow-up single day: got %q", oneDay)
	}

	anon := RenderMessage(models.MessageReminder, &models.Invoice{InvoiceNumber: "INV-1"}, time.Time{})
	if !strings.HasPrefix(anon, "Dear Customer,") {
		t.Errorf("anonymous greeting: got %q", anon)
	}
}

func TestSendMessage(t *testing.T) {
	invoices, st := newTestInvoiceService(t)
	sender := &fakeSender{}
	svc := NewMessageService(st, sender)
	ctx := context.Background()
	inv := mustCreate(t, invoices, "owner")

	entry, err := svc.Send(ctx, "owner", inv.ID, SendMessageInput{MessageType: models.MessageThankYou})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if entry.Status != models.MessageSent || entry.ProviderID != "SM123" || entry.To != "+15551234567" {
		t.Errorf("log entry: %+v", entry)
	}

	if _, err := svc.Send(ctx, "owner", inv.ID, SendMessageInput{MessageType: models.MessageReminder, CustomMessage: "Pay soon"}); err != nil {
		t.Fatalf("Send custom: %v", err)
	}
	if !strings.HasSuffix(sender.sent[1], "|Pay soon") {
		t.Errorf("custom message not used: %q", sender.sent[1])
	}

	logs, err := svc.List(ctx, "owner", inv.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("logs: got %d, want 2", len(logs))
	}

	_, err = svc.Send(ctx, "owner", inv.ID, SendMessageInput{MessageType: "sms-blast"})
	assertKind(t, err, KindValidation)

	_, err = svc.Send(ctx, "intruder", inv.ID, SendMessageInput{})
	assertKind(t, err, KindForbidden)

	_, err = svc.List(ctx, "intruder", inv.ID)
	assertKind(t, err, KindForbidden)
}

func TestSendMessageFailures(t *testing.T) {
	invoices, st := newTestInvoiceService(t)
	ctx := context.Background()
	inv := mustCreate(t, invoices, "owner")

	_, err := NewMessageService(st, nil).Send(ctx, "owner", inv.ID, SendMessageInput{})
	assertKind(t, err, KindUnavailable)

	failing := NewMessageService(st, &fakeSender{fail: true})
	entry, err := failing.Send(ctx, "owner", inv.ID, SendMessageInput{})
	assertKind(t, err, KindUpstream)
	if entry == nil || entry.Status != models.MessageFailed || entry.ErrorMessage == "" {
		t.Errorf("failed attempt not recorded: %+v", entry)
	}

	in := sampleInput()
	in.BillTo.PhoneNumber = ""
	noPhone, _ := invoices.Create(ctx, "owner", in)
	_, err = NewMessageService(st, &fakeSender{}).Send(ctx, "owner", noPhone.ID, SendMessageInput{})
	assertKind(t, err, KindValidation)
}

func TestSendOverdueReminders(t *testing.T) {
	invoices, st := newTestInvoiceService(t)
	sender := &fakeSender{}
	messages := NewMessageService(st, sender)
	messages.now = func() time.Time { return fixedNow().AddDate(0, 0, 40) }
	reminders := NewReminderService(st, messages)
	ctx := context.Background()

	overdue := mustCreate(t, invoices, "owner")
	if _, err := invoices.UpdateStatus(ctx, "owner", overdue.ID, models.StatusOverdue); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	mustCreate(t, invoices, "owner")

	in := sampleInput()
	in.BillTo.PhoneNumber = "n/a"
	noPhone, _ := invoices.Create(ctx, "owner", in)
	if _, err := invoices.UpdateStatus(ctx, "owner", noPhone.ID, models.StatusOverdue); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	run := reminders.SendOverdueReminders(ctx)
	if run.Sent != 1 || run.Skipped != 1 || run.Failed != 0 {
		t.Errorf("run: got %+v", run)
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0], "is now 10 days overdue") {
		t.Errorf("sent: %v", sender.sent)
	}

	after, _ := invoices.Get(ctx, "owner", overdue.ID)
	if after.Status != models.StatusOverdue {
		t.Errorf("status changed by reminder job: %s", after.Status)
	}
	logs, _ := st.ListMessageLogs(ctx, overdue.ID)
	if len(logs) != 1 || logs[0].Type != models.MessageFollowUp {
		t.Errorf("logs: %+v", logs)
	}
}

func TestStartSchedulerRequiresSMS(t *testing.T) {
	_, st := newTestInvoiceService(t)
	if err := NewReminderService(st, NewMessageService(st, nil)).StartScheduler("0 9 * * *"); err == nil {
		t.Error("expected error when SMS is not configured")
	}

	r := NewReminderService(st, NewMessageService(st, &fakeSender{}))
	if err := r.StartScheduler("not a cron spec"); err == nil {
		t.Error("expected error for invalid spec")
	}
	if err := r.StartScheduler("0 9 * * *"); err != nil {
		t.Fatalf("StartScheduler: %v", err)
	}
	r.Stop()
}
