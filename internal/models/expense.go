package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies an expense.
type Category string

const (
	CategoryGroceries     Category = "GROCERIES"
	CategoryUtilities     Category = "UTILITIES"
	CategoryRent          Category = "RENT"
	CategoryHousehold     Category = "HOUSEHOLD"
	CategoryFood          Category = "FOOD"
	CategoryTransport     Category = "TRANSPORT"
	CategoryEntertainment Category = "ENTERTAINMENT"
	CategoryOther         Category = "OTHER"

	// CategorySettlement marks a direct payoff between two members.
	// Settlements move balances but never count as spending.
	CategorySettlement Category = "SETTLEMENT"
)

// Categories lists every valid category, settlement included.
var Categories = []Category{
	CategoryGroceries,
	CategoryUtilities,
	CategoryRent,
	CategoryHousehold,
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryOther,
	CategorySettlement,
}

// ParseCategory converts a case-insensitive name into a Category.
func ParseCategory(s string) (Category, error) {
	name := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, c := range Categories {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Expense represents money one member spent for the house.
// Fields are only changed through an explicit update; nothing on an
// expense is derived.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// HouseID is the house that owns this expense.
	HouseID string

	// Description is a free-form label (e.g., "Weekly shop").
	Description string

	// Amount is the total spent. Always positive.
	Amount decimal.Decimal

	// Category classifies the expense.
	Category Category

	// PayerID is the member who fronted the money. For a settlement this is
	// the member paying off their debt.
	PayerID string

	// Date is when the expense happened. Defaults to creation time.
	Date time.Time

	// Splits are the members sharing this expense and their percentages.
	// Empty for settlements.
	Splits []ExpenseSplit

	// PaidTo holds the recipient of a settlement as its only entry.
	// Empty for regular expenses.
	PaidTo []string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last explicit update.
	UpdatedAt int64
}

// ExpenseSplit is one member's share of an expense.
type ExpenseSplit struct {
	// MemberID is the member carrying this share.
	MemberID string

	// Percentage is the share of the expense amount, between 0 and 100.
	Percentage float64
}

// IsSettlement reports whether the expense records a payoff between members.
func (e Expense) IsSettlement() bool {
	return e.Category == CategorySettlement
}

// Recipient returns the member receiving a settlement, or "" when none is set.
func (e Expense) Recipient() string {
	if len(e.PaidTo) == 0 {
		return ""
	}
	return e.PaidTo[0]
}

// NewSettlement builds the expense that records from paying amount to to.
func NewSettlement(houseID, from, to string, amount decimal.Decimal, date time.Time) Expense {
	return Expense{
		HouseID:  houseID,
		Amount:   amount,
		Category: CategorySettlement,
		PayerID:  from,
		PaidTo:   []string{to},
		Date:     date,
	}
}
