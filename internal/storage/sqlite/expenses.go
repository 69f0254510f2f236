package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/homeledger/internal/models"
	"github.com/mmynk/homeledger/internal/storage"
)

const expenseColumns = `id, house_id, description, amount, category, payer_id, expense_date, created_at, updated_at`

// CreateExpense persists a new expense with its splits and recipients.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	now := time.Now()
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.Date.IsZero() {
		expense.Date = now
	}
	// expense_date has second precision; hand back what a read will return.
	expense.Date = expense.Date.UTC().Truncate(time.Second)
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now.Unix()
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.HouseID, expense.Description, expense.Amount, string(expense.Category),
		expense.PayerID, expense.Date.Unix(), expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertChildren(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense rewrites an expense row and recreates its split list.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}
	expense.Date = expense.Date.UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount = ?, category = ?, payer_id = ?, expense_date = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, string(expense.Category), expense.PayerID,
		expense.Date.Unix(), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated expense: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	// Delete and recreate splits and recipients
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_paid_to WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete recipients: %w", err)
	}
	if err := insertChildren(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, split := range expense.Splits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, member_id, percentage, position) VALUES (?, ?, ?, ?)",
			expense.ID, split.MemberID, split.Percentage, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	for _, memberID := range expense.PaidTo {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_paid_to (expense_id, member_id) VALUES (?, ?)",
			expense.ID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recipient: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including splits and recipients.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, member_id, percentage FROM expense_splits WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	if err := collectSplits(rows, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		"SELECT expense_id, member_id FROM expense_paid_to WHERE expense_id = ?",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipients: %w", err)
	}
	if err := collectPaidTo(rows, map[string]*models.Expense{expense.ID: expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByHouse retrieves every expense of a house ordered by date.
// Splits and recipients are loaded with one query each rather than per expense.
func (s *SQLiteStore) ListExpensesByHouse(ctx context.Context, houseID string) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE house_id = ? ORDER BY expense_date, created_at, id`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, s.percentage
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.house_id = ? ORDER BY s.expense_id, s.position`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	if err := collectSplits(splitRows, byID); err != nil {
		return nil, err
	}

	paidRows, err := s.db.QueryContext(ctx,
		`SELECT p.expense_id, p.member_id
		 FROM expense_paid_to p JOIN expenses e ON e.id = p.expense_id
		 WHERE e.house_id = ?`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipients: %w", err)
	}
	if err := collectPaidTo(paidRows, byID); err != nil {
		return nil, err
	}

	result := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		result[i] = *e
	}
	return result, nil
}

// DeleteExpense removes an expense by ID. Splits go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	// Check if expense exists
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", expenseID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var category string
	var date int64
	err := row.Scan(
		&expense.ID,
		&expense.HouseID,
		&expense.Description,
		&expense.Amount,
		&category,
		&expense.PayerID,
		&date,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	expense.Category = models.Category(category)
	expense.Date = time.Unix(date, 0).UTC()
	return expense, nil
}

// collectSplits attaches split rows (expense_id, member_id, percentage) to
// their expenses and closes rows.
func collectSplits(rows *sql.Rows, byID map[string]*models.Expense) error {
	defer rows.Close()
	for rows.Next() {
		var expenseID string
		var split models.ExpenseSplit
		if err := rows.Scan(&expenseID, &split.MemberID, &split.Percentage); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.Splits = append(e.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// collectPaidTo attaches recipient rows (expense_id, member_id) to their
// expenses and closes rows.
func collectPaidTo(rows *sql.Rows, byID map[string]*models.Expense) error {
	defer rows.Close()
	for rows.Next() {
		var expenseID, memberID string
		if err := rows.Scan(&expenseID, &memberID); err != nil {
			return fmt.Errorf("failed to scan recipient: %w", err)
		}
		if e, ok := byID[expenseID]; ok {
			e.PaidTo = append(e.PaidTo, memberID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate recipients: %w", err)
	}
	return nil
}
