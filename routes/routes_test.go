package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"invoicegen-backend/models"
	"invoicegen-backend/services"
	"invoicegen-backend/services/ai"
	"invoicegen-backend/store/memory"
	"invoicegen-backend/utils"
)

type stubModel struct {
	reply string
	err   error
}

func (m *stubModel) Name() string { return "stub" }

func (m *stubModel) Generate(context.Context, string) (string, error) {
	return m.reply, m.err
}

type recordingSender struct {
	to, body string
}

func (s *recordingSender) Send(_ context.Context, to, body string) (string, error) {
	s.to, s.body = to, body
	return "SM123", nil
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

type serverOpts struct {
	model  ai.Model
	sender services.SMSSender
}

func newTestServer(t *testing.T, opts serverOpts) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memory.New()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	auth := services.NewAuthService(s, tokens, bcrypt.MinCost)

	var assistant *ai.Assistant
	if opts.model != nil {
		assistant = ai.NewAssistant(opts.model, time.Second, 0)
	}

	r := SetupRouter(Dependencies{
		Store:       s,
		Tokens:      tokens,
		Auth:        auth,
		Invoices:    services.NewInvoiceService(s),
		Messages:    services.NewMessageService(s, opts.sender),
		AI:          services.NewAIService(s, assistant),
		CORSOrigins: []string{"*"},
	})
	return &testServer{t: t, router: r, store: s}
}

func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			ts.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) register(name, email string) string {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if rec.Code != http.StatusCreated {
		ts.t.Fatalf("register: status %d body %s", rec.Code, rec.Body)
	}
	body := decode[map[string]any](ts.t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		ts.t.Fatalf("register: no token in %s", rec.Body)
	}
	return token
}

func (ts *testServer) createInvoice(token string) models.Invoice {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/invoices", token, gin.H{
		"invoiceDate": "2025-03-01",
		"dueDate":     "2025-03-31",
		"billFrom":    gin.H{"businessName": "Acme"},
		"billTo":      gin.H{"clientName": "Bob", "phoneNumber": "+15551234567"},
		"items": []gin.H{
			{"name": "Design", "quantity": 2, "price": 50, "tax": 10},
			{"name": "Hosting", "quantity": 1, "price": 100, "tax": 0},
		},
	})
	if rec.Code != http.StatusCreated {
		ts.t.Fatalf("create invoice: status %d body %s", rec.Code, rec.Body)
	}
	return decode[models.Invoice](ts.t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, status, rec.Body)
	}
	body := decode[map[string]any](t, rec)
	if body["message"] != message {
		t.Errorf("message: got %v, want %q", body["message"], message)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, serverOpts{})

	rec := ts.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body := decode[map[string]any](t, rec); body["status"] != "ok" {
		t.Errorf("body: %v", body)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, serverOpts{})
	token := ts.register("Alice", "Alice@Example.com")

	t.Run("duplicate register", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/register", "", gin.H{
			"name": "Alice", "email": "alice@example.com", "password": "x",
		})
		assertMessage(t, rec, http.StatusBadRequest, "User already exists")
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "b@example.com"})
		assertMessage(t, rec, http.StatusBadRequest, "Please add all fields")
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "alice@example.com", "password": "nope",
		})
		assertMessage(t, rec, http.StatusBadRequest, "Invalid credentials")
	})

	t.Run("login", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "alice@example.com", "password": "secret123",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		body := decode[map[string]any](t, rec)
		if body["token"] == "" || body["email"] != "alice@example.com" {
			t.Errorf("body: %v", body)
		}
		if _, ok := body["password"]; ok {
			t.Error("password leaked in login response")
		}
	})

	t.Run("me requires token", func(t *testing.T) {
		assertMessage(t, ts.do(http.MethodGet, "/api/auth/me", "", nil),
			http.StatusUnauthorized, "No token provided")
		assertMessage(t, ts.do(http.MethodGet, "/api/auth/me", "garbage", nil),
			http.StatusUnauthorized, "Unauthorized - Invalid token")
	})

	t.Run("update profile", func(t *testing.T) {
		rec := ts.do(http.MethodPut, "/api/auth/update-profile", token, gin.H{
			"businessName": "Alice Design",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		rec = ts.do(http.MethodGet, "/api/auth/me", token, nil)
		body := decode[map[string]any](t, rec)
		if body["businessName"] != "Alice Design" || body["name"] != "Alice" {
			t.Errorf("profile: %v", body)
		}
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	ts := newTestServer(t, serverOpts{})
	token := ts.register("Alice", "alice@example.com")

	inv := ts.createInvoice(token)
	if inv.Subtotal != 200 || inv.TaxTotal != 10 || inv.Total != 210 {
		t.Fatalf("totals: got %v/%v/%v, want 200/10/210", inv.Subtotal, inv.TaxTotal, inv.Total)
	}
	if inv.Status != models.StatusUnpaid {
		t.Errorf("status: got %q", inv.Status)
	}
	if inv.PaymentTerms != models.DefaultPaymentTerms {
		t.Errorf("payment terms: got %q", inv.PaymentTerms)
	}

	path := "/api/invoices/" + inv.ID

	rec := ts.do(http.MethodGet, "/api/invoices", token, nil)
	if list := decode[[]models.Invoice](t, rec); len(list) != 1 || list[0].ID != inv.ID {
		t.Fatalf("list: %s", rec.Body)
	}

	rec = ts.do(http.MethodPatch, path+"/status", token, gin.H{"status": "paid"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status update: %d %s", rec.Code, rec.Body)
	}
	if got := decode[models.Invoice](t, rec); got.Status != models.StatusPaid {
		t.Errorf("status: got %q", got.Status)
	}

	rec = ts.do(http.MethodPatch, path+"/status", token, gin.H{"status": "cancelled"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid status: got %d", rec.Code)
	}
	rec = ts.do(http.MethodGet, path, token, nil)
	if got := decode[models.Invoice](t, rec); got.Status != models.StatusPaid {
		t.Errorf("status after rejected update: got %q", got.Status)
	}

	rec = ts.do(http.MethodGet, "/api/invoices?status=unpaid", token, nil)
	if list := decode[[]models.Invoice](t, rec); len(list) != 0 {
		t.Errorf("unpaid filter: got %d invoices", len(list))
	}
	rec = ts.do(http.MethodGet, "/api/invoices?limit=abc", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit: got %d", rec.Code)
	}

	rec = ts.do(http.MethodPut, path, token, gin.H{
		"items": []gin.H{{"name": "Audit", "quantity": 1, "price": 300, "tax": 0}},
		"notes": "revised",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}
	updated := decode[models.Invoice](t, rec)
	if updated.Total != 300 || updated.Notes != "revised" || updated.BillTo.ClientName != "Bob" {
		t.Errorf("update: %+v", updated)
	}

	assertMessage(t, ts.do(http.MethodDelete, path, token, nil), http.StatusOK, "Invoice deleted")
	assertMessage(t, ts.do(http.MethodDelete, path, token, nil), http.StatusNotFound, "Invoice not found")
}

func TestInvoiceValidation(t *testing.T) {
	ts := newTestServer(t, serverOpts{})
	token := ts.register("Alice", "alice@example.com")

	rec := ts.do(http.MethodPost, "/api/invoices", token, gin.H{"billTo": gin.H{"clientName": "Bob"}})
	assertMessage(t, rec, http.StatusBadRequest, "Items are required")

	rec = ts.do(http.MethodPost, "/api/invoices", token, gin.H{"items": "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: got %d", rec.Code)
	}
}

func TestOverflowingInvoiceKeepsListReadable(t *testing.T) {
	ts := newTestServer(t, serverOpts{})
	token := ts.register("Alice", "alice@example.com")
	ts.createInvoice(token)

	rec := ts.do(http.MethodPost, "/api/invoices", token, gin.H{
		"items": []gin.H{{"name": "Galaxy", "quantity": 1e200, "price": 1e200}},
	})
	assertMessage(t, rec, http.StatusBadRequest, "Item 1: amount is too large")

	rec = ts.do(http.MethodGet, "/api/invoices", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	if list := decode[[]models.Invoice](t, rec); len(list) != 1 || list[0].Total != 210 {
		t.Errorf("list: %s", rec.Body)
	}
}

func TestRequestBindingRules(t *testing.T) {
	ts := newTestServer(t, serverOpts{model: &stubModel{reply: "{}"}, sender: &recordingSender{}})
	token := ts.register("Alice", "alice@example.com")
	inv := ts.createInvoice(token)

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		body    any
		message string
	}{
		{"login without password", http.MethodPost, "/api/auth/login", "",
			gin.H{"email": "alice@example.com"}, "Please add all fields"},
		{"status missing", http.MethodPatch, "/api/invoices/" + inv.ID + "/status", token,
			gin.H{}, "Invalid status. Must be one of: " + models.StatusList()},
		{"unknown message type", http.MethodPost, "/api/invoices/" + inv.ID + "/send-message", token,
			gin.H{"messageType": "spam"}, "Invalid message type. Must be one of: reminder, thankYou, followUp"},
		{"parse without text", http.MethodPost, "/api/ai/parse-invoice", token,
			gin.H{}, "Text is required"},
		{"reminder without invoice", http.MethodPost, "/api/ai/generate-reminder", token,
			gin.H{"customMessage": "hi"}, "Invoice ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMessage(t, ts.do(tt.method, tt.path, tt.token, tt.body), http.StatusBadRequest, tt.message)
		})
	}
}

func TestInvoiceOwnership(t *testing.T) {
	ts := newTestServer(t, serverOpts{})
	alice := ts.register("Alice", "alice@example.com")
	bob := ts.register("Bob", "bob@example.com")

	inv := ts.createInvoice(alice)
	path := "/api/invoices/" + inv.ID

	assertMessage(t, ts.do(http.MethodGet, path, bob, nil),
		http.StatusForbidden, "Not authorized to access this invoice")
	assertMessage(t, ts.do(http.MethodDelete, path, bob, nil),
		http.StatusForbidden, "Not authorized to access this invoice")

	rec := ts.do(http.MethodGet, "/api/invoices", bob, nil)
	if list := decode[[]models.Invoice](t, rec); len(list) != 0 {
		t.Errorf("bob sees %d invoices", len(list))
	}
}

func TestSendMessage(t *testing.T) {
	t.Run("sms configured", func(t *testing.T) {
		sender := &recordingSender{}
		ts := newTestServer(t, serverOpts{sender: sender})
		token := ts.register("Alice", "alice@example.com")
		inv := ts.createInvoice(token)

		rec := ts.do(http.MethodPost, "/api/invoices/"+inv.ID+"/send-message", token, gin.H{
			"messageType": "thankYou",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("send: %d %s", rec.Code, rec.Body)
		}
		if sender.to != "+15551234567" || sender.body == "" {
			t.Errorf("sender got to=%q body=%q", sender.to, sender.body)
		}

		rec = ts.do(http.MethodGet, "/api/invoices/"+inv.ID+"/messages", token, nil)
		logs := decode[[]models.MessageLog](t, rec)
		if len(logs) != 1 || logs[0].Type != models.MessageThankYou {
			t.Errorf("logs: %s", rec.Body)
		}
	})

	t.Run("sms not configured", func(t *testing.T) {
		ts := newTestServer(t, serverOpts{})
		token := ts.register("Alice", "alice@example.com")
		inv := ts.createInvoice(token)

		rec := ts.do(http.MethodPost, "/api/invoices/"+inv.ID+"/send-message", token, gin.H{})
		assertMessage(t, rec, http.StatusServiceUnavailable, "SMS delivery is not configured")
	})
}

func TestAIEndpoints(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		ts := newTestServer(t, serverOpts{})
		token := ts.register("Alice", "alice@example.com")

		rec := ts.do(http.MethodPost, "/api/ai/parse-invoice", token, gin.H{"text": "x"})
		assertMessage(t, rec, http.StatusServiceUnavailable, "AI service is not configured")
	})

	t.Run("parse invoice", func(t *testing.T) {
		model := &stubModel{reply: "```json\n" +
			`{"billTo": {"clientName": "Bob"}, "items": [{"name": "Design", "quantity": 2, "price": 50, "tax": 10}]}` +
			"\n```"}
		ts := newTestServer(t, serverOpts{model: model})
		token := ts.register("Alice", "alice@example.com")

		rec := ts.do(http.MethodPost, "/api/ai/parse-invoice", token, gin.H{"text": "2 hours design for Bob"})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		body := decode[struct {
			Success    bool            `json:"success"`
			ParsedData ai.InvoiceDraft `json:"parsedData"`
		}](t, rec)
		if !body.Success || body.ParsedData.Total != 110 || body.ParsedData.BillTo.ClientName != "Bob" {
			t.Errorf("body: %+v", body)
		}

		rec = ts.do(http.MethodPost, "/api/ai/parse-invoice", token, gin.H{"text": "  "})
		assertMessage(t, rec, http.StatusBadRequest, "Text is required")
	})

	t.Run("upstream failure", func(t *testing.T) {
		model := &stubModel{err: errors.New("boom")}
		ts := newTestServer(t, serverOpts{model: model})
		token := ts.register("Alice", "alice@example.com")

		rec := ts.do(http.MethodPost, "/api/ai/parse-invoice", token, gin.H{"text": "x"})
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		if body := decode[map[string]any](t, rec); body["error"] != "boom" {
			t.Errorf("error field: %v", body["error"])
		}
	})

	t.Run("generate reminder", func(t *testing.T) {
		model := &stubModel{reply: `{"subject": "Friendly reminder", "body": "Please pay."}`}
		ts := newTestServer(t, serverOpts{model: model})
		alice := ts.register("Alice", "alice@example.com")
		bob := ts.register("Bob", "bob@example.com")
		inv := ts.createInvoice(alice)

		rec := ts.do(http.MethodPost, "/api/ai/generate-reminder", alice, gin.H{"invoiceId": inv.ID})
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		body := decode[map[string]any](t, rec)
		if body["invoiceNumber"] != inv.InvoiceNumber {
			t.Errorf("invoiceNumber: %v", body["invoiceNumber"])
		}
		if email, _ := body["email"].(map[string]any); email["subject"] != "Friendly reminder" {
			t.Errorf("email: %v", body["email"])
		}

		rec = ts.do(http.MethodPost, "/api/ai/generate-reminder", bob, gin.H{"invoiceId": inv.ID})
		assertMessage(t, rec, http.StatusForbidden, "Unauthorized access to invoice")
	})

	t.Run("dashboard summary without invoices", func(t *testing.T) {
		model := &stubModel{err: errors.New("must not be called")}
		ts := newTestServer(t, serverOpts{model: model})
		token := ts.register("Alice", "alice@example.com")

		rec := ts.do(http.MethodPost, "/api/ai/dashboard-summary", token, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d body %s", rec.Code, rec.Body)
		}
		body := decode[struct {
			Statistics models.InvoiceStatistics `json:"statistics"`
			Insights   []string                 `json:"insights"`
		}](t, rec)
		if body.Statistics.TotalInvoices != 0 || len(body.Insights) != 1 || body.Insights[0] != services.NoInvoicesInsight {
			t.Errorf("body: %+v", body)
		}
	})

	t.Run("dashboard summary", func(t *testing.T) {
		model := &stubModel{reply: `{"insights": ["Revenue is steady."]}`}
		ts := newTestServer(t, serverOpts{model: model})
		token := ts.register("Alice", "alice@example.com")
		ts.createInvoice(token)

		rec := ts.do(http.MethodPost, "/api/ai/dashboard-summary", token, nil)
		body := decode[struct {
			Statistics models.InvoiceStatistics `json:"statistics"`
			Insights   []string                 `json:"insights"`
		}](t, rec)
		if body.Statistics.TotalInvoices != 1 || body.Statistics.TotalRevenue != 210 || body.Statistics.UnpaidInvoices != 1 {
			t.Errorf("statistics: %+v", body.Statistics)
		}
		if len(body.Insights) != 1 || body.Insights[0] != "Revenue is steady." {
			t.Errorf("insights: %v", body.Insights)
		}
	})
}
