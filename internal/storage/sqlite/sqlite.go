// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	moderncsqlite "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/homeledger/internal/models"
	"github.com/mmynk/homeledger/internal/storage"
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
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if _, err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Foreign keys are a per-connection setting, so ask for them in the DSN
	// rather than with a one-off PRAGMA on whichever connection the pool hands out.
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateHouse persists a new house and its initial members in one transaction.
func (s *SQLiteStore) CreateHouse(ctx context.Context, house *models.House, members []models.Member) error {
	if house.ID == "" {
		house.ID = uuid.New().String()
	}
	if house.CreatedAt == 0 {
		house.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO houses (id, name, created_at) VALUES (?, ?, ?)",
		house.ID, house.Name, house.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert house: %w", err)
	}

	for i := range members {
		members[i].HouseID = house.ID
		if err := insertMember(ctx, tx, &members[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetHouse retrieves a house by ID.
func (s *SQLiteStore) GetHouse(ctx context.Context, houseID string) (*models.House, error) {
	house := &models.House{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM houses WHERE id = ?",
		houseID,
	).Scan(&house.ID, &house.Name, &house.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("house %s: %w", houseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get house: %w", err)
	}
	return house, nil
}

// AddMember inserts a member into an existing house.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.Member) error {
	if _, err := s.GetHouse(ctx, member.HouseID); err != nil {
		return err
	}

	return insertMember(ctx, s.db, member)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertMember(ctx context.Context, db execer, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO members (id, house_id, display_name, joined_at) VALUES (?, ?, ?, ?)",
		member.ID, member.HouseID, member.DisplayName, member.JoinedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("member %q in house %s: %w", member.DisplayName, member.HouseID, storage.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *moderncsqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// ListMembers returns the members of a house in the order they joined.
func (s *SQLiteStore) ListMembers(ctx context.Context, houseID string) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, house_id, display_name, joined_at
		 FROM members WHERE house_id = ? ORDER BY joined_at, rowid`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.HouseID, &m.DisplayName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// RemoveMember deletes a member from a house.
func (s *SQLiteStore) RemoveMember(ctx context.Context, houseID, memberID string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM members WHERE id = ? AND house_id = ?",
		memberID, houseID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted member: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %s in house %s: %w", memberID, houseID, storage.ErrNotFound)
	}
	return nil
}
