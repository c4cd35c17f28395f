package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/milan9527/agentticket-sub002/internal/domain"
	"github.com/milan9527/agentticket-sub002/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS upgrade_orders (
		order_id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		ticket_id TEXT NOT NULL,
		upgrade_tier TEXT NOT NULL,
		travel_date TEXT,
		total_amount REAL NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_customer ON upgrade_orders(customer_id, created_at);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_open_ticket_tier
		ON upgrade_orders(ticket_id, upgrade_tier)
		WHERE status NOT IN ('completed', 'failed', 'cancelled', 'refunded');
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateOrder persists a new upgrade order. The partial unique index over
// open statuses rejects a second order for the same ticket and tier until
// the first one reaches a terminal status.
func (s *SQLiteStore) CreateOrder(ctx context.Context, order *domain.UpgradeOrder) error {
	query := `
		INSERT INTO upgrade_orders
			(order_id, customer_id, ticket_id, upgrade_tier, travel_date,
			 total_amount, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		order.OrderID, order.CustomerID, order.TicketID, order.UpgradeTier,
		order.TravelDate, order.TotalAmount, string(order.Status),
		order.CreatedAt.Unix(), order.UpdatedAt.Unix(),
	)
	if err != nil {
		if shared.IsSQLiteUniqueViolation(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by its ID.
func (s *SQLiteStore) GetOrder(ctx context.Context, orderID string) (*domain.UpgradeOrder, error) {
	query := `
		SELECT order_id, customer_id, ticket_id, upgrade_tier, travel_date,
		       total_amount, status, created_at, updated_at
		FROM upgrade_orders WHERE order_id = ?`

	row := s.db.QueryRowContext(ctx, query, orderID)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan order row: %w", err)
	}
	return order, nil
}

// ListOrdersForCustomer returns all orders for a customer, newest first.
func (s *SQLiteStore) ListOrdersForCustomer(ctx context.Context, customerID string) ([]*domain.UpgradeOrder, error) {
	query := `
		SELECT order_id, customer_id, ticket_id, upgrade_tier, travel_date,
		       total_amount, status, created_at, updated_at
		FROM upgrade_orders WHERE customer_id = ?
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.UpgradeOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus transitions an order to a new status.
func (s *SQLiteStore) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	query := `UPDATE upgrade_orders SET status = ?, updated_at = ? WHERE order_id = ?`
	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().Unix(), orderID)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("order not found: %s", orderID)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.UpgradeOrder, error) {
	var order domain.UpgradeOrder
	var travelDate sql.NullString
	var status string
	var createdAt, updatedAt int64

	err := row.Scan(
		&order.OrderID, &order.CustomerID, &order.TicketID, &order.UpgradeTier,
		&travelDate, &order.TotalAmount, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.TravelDate = travelDate.String
	order.Status = domain.OrderStatus(status)
	order.CreatedAt = time.Unix(createdAt, 0)
	order.UpdatedAt = time.Unix(updatedAt, 0)
	return &order, nil
}
