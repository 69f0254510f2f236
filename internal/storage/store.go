// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/homeledger/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned (wrapped) when a write would break a
	// uniqueness rule, such as two members of a house sharing a display name.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines the interface for house, member and expense storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateHouse persists a new house and its initial roster atomically:
	// either the house and every member are stored, or nothing is.
	// The house.ID and house.CreatedAt fields are populated by the store, as
	// are each member's ID, HouseID and JoinedAt.
	CreateHouse(ctx context.Context, house *models.House, members []models.Member) error

	// GetHouse retrieves a house by its ID.
	GetHouse(ctx context.Context, houseID string) (*models.House, error)

	// AddMember adds a member to an existing house.
	// The member.ID and member.JoinedAt fields are populated by the store.
	// A display name already used in the house (ignoring case) returns
	// ErrAlreadyExists.
	AddMember(ctx context.Context, member *models.Member) error

	// ListMembers returns the roster of a house in joining order.
	ListMembers(ctx context.Context, houseID string) ([]models.Member, error)

	// RemoveMember removes a member from a house. Their historical expenses
	// and splits are kept.
	RemoveMember(ctx context.Context, houseID, memberID string) error

	// CreateExpense persists a new expense with its splits.
	// The expense.ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID, including splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense and its whole split list.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByHouse returns every expense of a house, oldest first.
	ListExpensesByHouse(ctx context.Context, houseID string) ([]models.Expense, error)

	// Close releases any resources held by the store.
	Close() error
}
