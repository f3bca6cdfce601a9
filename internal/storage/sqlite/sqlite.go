// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/smartsplit/smartsplit/internal/models"
	"github.com/smartsplit/smartsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateReceipt persists a normalized receipt and its items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	header, err := json.Marshal(receipt.Header)
	if err != nil {
		return fmt.Errorf("failed to encode header: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, header, subtotal, total, additional_fees, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		receipt.ID, string(header), receipt.Subtotal, receipt.Total, receipt.AdditionalFees, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO receipt_items (id, receipt_id, position, name, quantity, unit_price, line_total) VALUES (?, ?, ?, ?, ?, ?, ?)",
			item.ID, receipt.ID, i, item.Name, item.Quantity, item.UnitPrice, item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by ID, items in extraction order.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	var header string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, header, subtotal, total, additional_fees, created_at FROM receipts WHERE id = ?",
		receiptID,
	).Scan(&receipt.ID, &header, &receipt.Subtotal, &receipt.Total, &receipt.AdditionalFees, &receipt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if err := json.Unmarshal([]byte(header), &receipt.Header); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, quantity, unit_price, line_total FROM receipt_items WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return receipt, nil
}

// SaveSplit persists a computed split, replacing any previous split of
// the same receipt.
func (s *SQLiteStore) SaveSplit(ctx context.Context, split *models.Split) error {
	if split.ReceiptID == "" {
		return fmt.Errorf("split has no receipt id")
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace semantics: one latest split per receipt.
	if _, err := tx.ExecContext(ctx, "DELETE FROM splits WHERE receipt_id = ?", split.ReceiptID); err != nil {
		return fmt.Errorf("failed to clear previous split: %w", err)
	}

	verified := 0
	if split.Verification.Match {
		verified = 1
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO splits (receipt_id, strategy, calculated_total, original_total, verified, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		split.ReceiptID, string(split.Strategy), split.Verification.CalculatedTotal, split.Verification.OriginalTotal, verified, split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i, name := range split.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_participants (receipt_id, position, name) VALUES (?, ?, ?)",
			split.ReceiptID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for name, amount := range split.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO split_shares (receipt_id, participant, amount) VALUES (?, ?, ?)",
			split.ReceiptID, name, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	for i, a := range split.Assignments {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO item_assignments (receipt_id, position, item_name, participant, amount) VALUES (?, ?, ?, ?, ?)",
			split.ReceiptID, i, a.ItemName, a.Participant, a.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSplit retrieves the latest split for a receipt.
func (s *SQLiteStore) GetSplit(ctx context.Context, receiptID string) (*models.Split, error) {
	split := &models.Split{ReceiptID: receiptID}
	var verified int
	err := s.db.QueryRowContext(ctx,
		"SELECT strategy, calculated_total, original_total, verified, created_at FROM splits WHERE receipt_id = ?",
		receiptID,
	).Scan(&split.Strategy, &split.Verification.CalculatedTotal, &split.Verification.OriginalTotal, &verified, &split.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("split for receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	split.Verification.Match = verified != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM split_participants WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		split.Participants = append(split.Participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	shareRows, err := s.db.QueryContext(ctx,
		"SELECT participant, amount FROM split_shares WHERE receipt_id = ?",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer shareRows.Close()

	split.Shares = make(map[string]float64)
	for shareRows.Next() {
		var (
			name   string
			amount float64
		)
		if err := shareRows.Scan(&name, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		split.Shares[name] = amount
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	assignRows, err := s.db.QueryContext(ctx,
		"SELECT item_name, participant, amount FROM item_assignments WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer assignRows.Close()

	for assignRows.Next() {
		var a models.Assignment
		if err := assignRows.Scan(&a.ItemName, &a.Participant, &a.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		split.Assignments = append(split.Assignments, a)
	}
	if err := assignRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return split, nil
}
