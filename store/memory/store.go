package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"invoicegen-backend/models"
	"invoicegen-backend/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	users    map[string]*models.User
	invoices map[string]*models.Invoice
	messages []*models.MessageLog
}

func New() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		invoices: make(map[string]*models.Invoice),
	}
}

// User Store implementation
func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; exists {
		return store.ErrAlreadyExists
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrAlreadyExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	for _, existing := range s.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return store.ErrAlreadyExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

// Invoice Store implementation
func (s *Store) CreateInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID]; exists {
		return store.ErrAlreadyExists
	}
	s.invoices[inv.ID] = inv.Clone()
	return nil
}

func (s *Store) GetInvoice(_ context.Context, invoiceID string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[invoiceID]; ok {
		return inv.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListInvoices(_ context.Context, userID string, opts models.InvoiceListOpts) ([]*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.UserID != userID {
			continue
		}
		if opts.Status != "" && inv.Status != opts.Status {
			continue
		}
		result = append(result, inv.Clone())
	}
	sortNewestFirst(result)

	if opts.Offset > 0 {
		if opts.Offset >= len(result) {
			return []*models.Invoice{}, nil
		}
		result = result[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(result) {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (s *Store) ListInvoicesByStatus(_ context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Invoice, 0)
	for _, inv := range s.invoices {
		if inv.Status == status {
			result = append(result, inv.Clone())
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[inv.ID]; !ok {
		return store.ErrNotFound
	}
	s.invoices[inv.ID] = inv.Clone()
	return nil
}

func (s *Store) UpdateInvoiceStatus(_ context.Context, invoiceID string, status models.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return store.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) DeleteInvoice(_ context.Context, invoiceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[invoiceID]; !ok {
		return store.ErrNotFound
	}
	delete(s.invoices, invoiceID)
	return nil
}

// Message log implementation
func (s *Store) CreateMessageLog(_ context.Context, l *models.MessageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *l
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *Store) ListMessageLogs(_ context.Context, invoiceID string) ([]*models.MessageLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.MessageLog, 0)
	for _, l := range s.messages {
		if l.InvoiceID == invoiceID {
			cp := *l
			result = append(result, &cp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	return result, nil
}

func (s *Store) Migrate(_ context.Context) error { return nil }
func (s *Store) Ping(_ context.Context) error    { return nil }
func (s *Store) Close() error                    { return nil }

func sortNewestFirst(invoices []*models.Invoice) {
	sort.SliceStable(invoices, func(i, j int) bool {
		if invoices[i].CreatedAt.Equal(invoices[j].CreatedAt) {
			return invoices[i].ID > invoices[j].ID
		}
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
}
