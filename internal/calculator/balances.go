package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/homeledger/internal/models"
)

var hundred = decimal.NewFromInt(100)

// MemberBalance represents the balance information for one house member.
type MemberBalance struct {
	MemberID    string
	DisplayName string
	Balance     decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid   decimal.Decimal // Expenses fronted plus settlements paid
	TotalOwed   decimal.Decimal // Split shares plus settlements received
}

// Rounded returns a copy with every amount rounded to cents for display.
func (b MemberBalance) Rounded() MemberBalance {
	b.Balance = b.Balance.Round(2)
	b.TotalPaid = b.TotalPaid.Round(2)
	b.TotalOwed = b.TotalOwed.Round(2)
	return b
}

// ComputeBalances computes each member's net position across expenses.
//
// Algorithm:
//   - Every member starts at zero, so inactive members still appear
//   - Regular expense: payer is credited the full amount, each split member
//     is debited amount × percentage / 100
//   - Settlement: payer is credited, the recipient is debited
//   - net = total_paid - total_owed, unrounded
//
// Payers, recipients and split members missing from members are skipped.
// That keeps stale history (e.g. a member who left the house) from failing
// the whole computation, at the cost of the result no longer summing to
// zero for that history. See StaleReferences.
func ComputeBalances(expenses []models.Expense, members []models.Member) []MemberBalance {
	order := make([]string, 0, len(members))
	balances := make(map[string]*MemberBalance, len(members))
	for _, m := range members {
		if _, exists := balances[m.ID]; exists {
			continue
		}
		balances[m.ID] = &MemberBalance{MemberID: m.ID, DisplayName: m.DisplayName}
		order = append(order, m.ID)
	}

	for _, e := range expenses {
		if e.IsSettlement() {
			if from, ok := balances[e.PayerID]; ok {
				from.TotalPaid = from.TotalPaid.Add(e.Amount)
			}
			if to, ok := balances[e.Recipient()]; ok {
				to.TotalOwed = to.TotalOwed.Add(e.Amount)
			}
			continue
		}

		if payer, ok := balances[e.PayerID]; ok {
			payer.TotalPaid = payer.TotalPaid.Add(e.Amount)
		}
		for _, s := range e.Splits {
			bal, ok := balances[s.MemberID]
			if !ok {
				continue
			}
			bal.TotalOwed = bal.TotalOwed.Add(share(e.Amount, s.Percentage))
		}
	}

	result := make([]MemberBalance, 0, len(order))
	for _, id := range order {
		bal := balances[id]
		bal.Balance = bal.TotalPaid.Sub(bal.TotalOwed)
		result = append(result, *bal)
	}
	return result
}

// share returns percentage% of amount.
func share(amount decimal.Decimal, percentage float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(percentage)).Div(hundred)
}

// StaleReferences returns member IDs that expenses point at but that are not
// in members, in first-seen order. ComputeBalances ignores these references.
func StaleReferences(expenses []models.Expense, members []models.Member) []string {
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}

	var stale []string
	seen := make(map[string]bool)
	note := func(id string) {
		if id == "" || known[id] || seen[id] {
			return
		}
		seen[id] = true
		stale = append(stale, id)
	}

	for _, e := range expenses {
		note(e.PayerID)
		if e.IsSettlement() {
			note(e.Recipient())
			continue
		}
		for _, s := range e.Splits {
			note(s.MemberID)
		}
	}
	return stale
}
