package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"invoicegen-backend/models"
	"invoicegen-backend/store"
)

// Collection name constants.
const (
	colUsers    = "users"
	colInvoices = "invoices"
	colMessages = "message_logs"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store on MongoDB. Invoices are single documents
// with their line items embedded.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and returns a store bound to database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("store/mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store/mongo: ping: %w", err)
	}
	return New(client, database), nil
}

func New(client *mongo.Client, database string) *Store {
	return &Store{
		client: client,
		db:     client.Database(database),
	}
}

// Migrate creates the indexes every query relies on.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colInvoices: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		colMessages: {
			{Keys: bson.D{{Key: "invoice", Value: 1}, {Key: "sentAt", Value: -1}}},
		},
	}
	for col, idx := range indexes {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("store/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// ==================== Users ====================

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := s.db.Collection(colUsers).InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/mongo: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": userID}, "get user")
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email}, "get user by email")
}

func (s *Store) findUser(ctx context.Context, filter bson.M, op string) (*models.User, error) {
	var u models.User
	if err := s.db.Collection(colUsers).FindOne(ctx, filter).Decode(&u); err != nil {
		if isNoDocuments(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("store/mongo: %s: %w", op, err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.Collection(colUsers).ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/mongo: update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ==================== Invoices ====================

func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if _, err := s.db.Collection(colInvoices).InsertOne(ctx, inv); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("store/mongo: create invoice: %w", err)
	}
	return nil
}

func (s *Store) GetInvoice(ctx context.Context, invoiceID string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Collection(colInvoices).FindOne(ctx, bson.M{"_id": invoiceID}).Decode(&inv)
	if err != nil {
		if isNoDocuments(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("store/mongo: get invoice: %w", err)
	}
	return &inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, userID string, opts models.InvoiceListOpts) ([]*models.Invoice, error) {
	filter := bson.M{"user": userID}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	return s.findInvoices(ctx, filter, findOpts, "list invoices")
}

func (s *Store) ListInvoicesByStatus(ctx context.Context, status models.InvoiceStatus) ([]*models.Invoice, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.findInvoices(ctx, bson.M{"status": string(status)}, findOpts, "list invoices by status")
}

func (s *Store) findInvoices(ctx context.Context, filter bson.M, findOpts *options.FindOptionsBuilder, op string) ([]*models.Invoice, error) {
	cur, err := s.db.Collection(colInvoices).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("store/mongo: %s: %w", op, err)
	}
	result := make([]*models.Invoice, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("store/mongo: %s: %w", op, err)
	}
	return result, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	res, err := s.db.Collection(colInvoices).ReplaceOne(ctx, bson.M{"_id": inv.ID}, inv)
	if err != nil {
		return fmt.Errorf("store/mongo: update invoice: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status models.InvoiceStatus) error {
	res, err := s.db.Collection(colInvoices).UpdateOne(ctx,
		bson.M{"_id": invoiceID},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": now()}},
	)
	if err != nil {
		return fmt.Errorf("store/mongo: update invoice status: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, invoiceID string) error {
	res, err := s.db.Collection(colInvoices).DeleteOne(ctx, bson.M{"_id": invoiceID})
	if err != nil {
		return fmt.Errorf("store/mongo: delete invoice: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ==================== Message logs ====================

func (s *Store) CreateMessageLog(ctx context.Context, l *models.MessageLog) error {
	if _, err := s.db.Collection(colMessages).InsertOne(ctx, l); err != nil {
		return fmt.Errorf("store/mongo: create message log: %w", err)
	}
	return nil
}

func (s *Store) ListMessageLogs(ctx context.Context, invoiceID string) ([]*models.MessageLog, error) {
	cur, err := s.db.Collection(colMessages).Find(ctx,
		bson.M{"invoice": invoiceID},
		options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("store/mongo: list message logs: %w", err)
	}
	result := make([]*models.MessageLog, 0)
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("store/mongo: list message logs: %w", err)
	}
	return result, nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func now() time.Time {
	return time.Now().UTC()
}
