package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"invoicegen-backend/models"
	"invoicegen-backend/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store with gorm on Postgres or SQLite.
type Store struct {
	db *gorm.DB
}

// Open picks the dialector from driver ("postgres" or "sqlite") and dsn.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "invoices.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("store/sql: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store/sql: open %s: %w", driver, err)
	}
	return New(db), nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&userRow{},
		&invoiceRow{},
		&invoiceItemRow{},
		&messageLogRow{},
	); err != nil {
		return fmt.Errorf("store/sql: migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ==================== Users ====================

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(toUserRow(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/sql: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var r userRow
	if err := s.db.WithContext(ctx).First(&r, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("store/sql: get user: %w", err)
	}
	return fromUserRow(&r), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var r userRow
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("store/sql: get user by email: %w", err)
	}
	return fromUserRow(&r), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res := s.db.WithContext(ctx).Model(&userRow{}).
		Where("id = ?", u.ID).
		Select("*").Omit("id", "created_at").
		Updates(toUserRow(u))
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/sql: update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ==================== Invoices ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := s.db.WithContext(ctx).Create(toInvoiceRow(inv)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/sql: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	var r invoiceRow
	if err := s.withItems(s.db.WithContext(ctx)).
		Where("id = ?", invoiceID).
		First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("store/sql: get invoice: %w", err)
	}
	return fromInvoiceRow(&r), nil
}

func (s *Store) ListInvoices(ctx context.Context, userID string, opts models.InvoiceListOpts) ([]*models.Invoice, error) {
	q := s.withItems(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC")
	if opts.Status != "" {
		q = q.Where("status = ?", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	return s.findInvoices(q, "list invoices")
}

func (s *Store) ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	q := s.withItems(s.db.WithContext(ctx)).
		Where("status = ?", string(status)).
		Order("created_at DESC")
	return s.findInvoices(q, "list invoices by status")
}

func (s *Store) findInvoices(q *gorm.DB, op string) ([]*models.Invoice, error) {
	var rows []invoiceRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store/sql: %s: %w", op, err)
	}
	result := make([]*models.Invoice, len(rows))
	for i := range rows {
		result[i] = fromInvoiceRow(&rows[i])
	}
	return result, nil
}

// UpdateInvoice overwrites the invoice row and replaces its items in one
// transaction.
func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	row := toInvoiceRow(inv)

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var count int64
	if err := tx.Model(&invoiceRow{}).Where("id = ?", inv.ID).Count(&count).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("store/sql: update invoice: %w", err)
	}
	if count == 0 {
		tx.Rollback()
		return store.ErrNotFound
	}

	if err := tx.Where("invoice_id = ?", inv.ID).Delete(&invoiceItemRow{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("store/sql: clear invoice items: %w", err)
	}

	if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("store/sql: update invoice: %w", err)
	}

	if len(row.Items) > 0 {
		if err := tx.Create(&row.Items).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("store/sql: create invoice items: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("store/sql: update invoice: %w", err)
	}
	return nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error {
	res := s.db.WithContext(ctx).Model(&invoiceRow{}).
		Where("id = ?", invoiceID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("store/sql: update invoice status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&invoiceItemRow{}).Error; err != nil {
			return fmt.Errorf("store/sql: delete invoice items: %w", err)
		}
		res := tx.Where("id = ?", invoiceID).Delete(&invoiceRow{})
		if res.Error != nil {
			return fmt.Errorf("store/sql: delete invoice: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ==================== Message logs ====================

func (s *Store) CreateMessageLog(ctx context.Context, l *models.MessageLog) error {
	if err := s.db.WithContext(ctx).Create(toMessageLogRow(l)).Error; err != nil {
		return fmt.Errorf("store/sql: create message log: %w", err)
	}
	return nil
}

func (s *Store) ListMessageLogs(ctx context.Context, invoiceID string) ([]*models.MessageLog, error) {
	var rows []messageLogRow
	if err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("sent_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store/sql: list message logs: %w", err)
	}
	result := make([]*models.MessageLog, len(rows))
	for i := range rows {
		result[i] = fromMessageLogRow(&rows[i])
	}
	return result, nil
}

func (s *Store) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}
