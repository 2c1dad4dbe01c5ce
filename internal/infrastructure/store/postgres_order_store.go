package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Schema creates the orders table. Timestamps are produced by the database
// clock (now()) on every write.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tracking_id        TEXT NOT NULL UNIQUE,
	customer_name      TEXT NOT NULL,
	customer_email     TEXT NOT NULL,
	items              JSONB NOT NULL,
	delivery_info      JSONB NOT NULL,
	payment_method     TEXT NOT NULL,
	total_amount       NUMERIC(12, 2) NOT NULL,
	status             TEXT NOT NULL,
	status_history     JSONB NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL,
	estimated_delivery TIMESTAMPTZ NOT NULL
)`

const orderColumns = `id, tracking_id, customer_name, customer_email, items, delivery_info,
	payment_method, total_amount, status, status_history, created_at, updated_at, estimated_delivery`

// PostgresOrderStore stores orders in PostgreSQL
type PostgresOrderStore struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresOrderStore(db *sql.DB, timeout time.Duration) *PostgresOrderStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PostgresOrderStore{db: db, timeout: timeout}
}

// Migrate creates the schema if it does not exist yet.
func (s *PostgresOrderStore) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return persistenceError("migrate", err)
	}
	return nil
}

func (s *PostgresOrderStore) Create(ctx context.Context, o *order.Order) (string, error) {
	if err := o.ValidateNew(); err != nil {
		return "", err
	}

	items, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("failed to marshal items: %w", err)
	}
	delivery, err := json.Marshal(o.DeliveryInfo)
	if err != nil {
		return "", fmt.Errorf("failed to marshal delivery info: %w", err)
	}
	first := o.StatusHistory[0]

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (tracking_id, customer_name, customer_email, items, delivery_info,
			payment_method, total_amount, status, status_history, created_at, updated_at, estimated_delivery)
		VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, $8,
			jsonb_build_array(jsonb_build_object('status', $8::text, 'timestamp', now(), 'estimated_days', $9::int)),
			now(), now(), now() + make_interval(days => $10::int))
		RETURNING `+orderColumns,
		o.TrackingID,
		o.CustomerName,
		o.CustomerEmail,
		string(items),
		string(delivery),
		string(o.PaymentMethod),
		o.TotalAmount,
		first.Status.String(),
		first.EstimatedDays,
		int(order.DeliveryLeadTime/(24*time.Hour)),
	)

	stored, err := scanOrder(row)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: %s", order.ErrDuplicateTrackingID, o.TrackingID)
		}
		return "", err
	}

	*o = *stored
	return stored.TrackingID, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (s *PostgresOrderStore) FindByTrackingID(ctx context.Context, trackingID string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE tracking_id = $1`,
		trackingID,
	)
	return scanOrder(row)
}

func (s *PostgresOrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.findByID(ctx, id)
}

func (s *PostgresOrderStore) findByID(ctx context.Context, id string) (*order.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, order.ErrOrderNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	)
	return scanOrder(row)
}

func (s *PostgresOrderStore) AppendStatus(ctx context.Context, id string, ev order.StatusEvent) (*order.Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return appendStatus(ctx, id, ev, s.findByID, s.swap)
}

// swap appends ev only while the row still holds the status that was validated.
// GREATEST keeps the history chronological if the database clock steps back.
func (s *PostgresOrderStore) swap(ctx context.Context, current *order.Order, ev order.StatusEvent) (*order.Order, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2,
			status_history = status_history || jsonb_build_array(jsonb_build_object(
				'status', $2::text, 'timestamp', GREATEST(now(), updated_at), 'estimated_days', $4::int)),
			updated_at = GREATEST(now(), updated_at)
		WHERE id = $1 AND status = $3
		RETURNING `+orderColumns,
		current.ID,
		ev.Status.String(),
		current.Status.String(),
		ev.EstimatedDays,
	)

	updated, err := scanOrder(row)
	if errors.Is(err, order.ErrOrderNotFound) {
		return nil, errStaleStatus
	}
	return updated, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrder converts a row into the domain type. JSONB columns are decoded
// into their Go types; timestamps come back as time.Time from the driver.
func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		o        order.Order
		items    []byte
		delivery []byte
		history  []byte
		method   string
		status   string
		total    decimal.Decimal
	)

	err := row.Scan(
		&o.ID,
		&o.TrackingID,
		&o.CustomerName,
		&o.CustomerEmail,
		&items,
		&delivery,
		&method,
		&total,
		&status,
		&history,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.EstimatedDelivery,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, err
		}
		return nil, persistenceError("scan order", err)
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, persistenceError("decode items", err)
	}
	if err := json.Unmarshal(delivery, &o.DeliveryInfo); err != nil {
		return nil, persistenceError("decode delivery info", err)
	}
	if err := json.Unmarshal(history, &o.StatusHistory); err != nil {
		return nil, persistenceError("decode status history", err)
	}
	for i := range o.StatusHistory {
		o.StatusHistory[i].Timestamp = o.StatusHistory[i].Timestamp.UTC()
	}

	parsed, err := order.ParseStatus(status)
	if err != nil {
		return nil, persistenceError("decode status", err)
	}
	o.Status = parsed
	o.PaymentMethod = order.PaymentMethod(method)
	o.TotalAmount = total
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	o.EstimatedDelivery = o.EstimatedDelivery.UTC()

	return &o, nil
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
