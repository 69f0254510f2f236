package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

var epsilon = decimal.NewFromFloat(Epsilon)

// SettlementSuggestion is one payment that moves two balances toward zero.
type SettlementSuggestion struct {
	From     string // Member who owes
	FromName string
	To       string // Member who is owed
	ToName   string
	Amount   decimal.Decimal // Rounded to cents
}

// Planner turns balances into payments that settle them.
type Planner interface {
	Plan(balances []MemberBalance) []SettlementSuggestion
}

// GreedyPlanner is the default Planner. See PlanSettlements.
type GreedyPlanner struct{}

// Plan implements Planner.
func (GreedyPlanner) Plan(balances []MemberBalance) []SettlementSuggestion {
	return PlanSettlements(balances)
}

type position struct {
	id        string
	name      string
	remaining decimal.Decimal // always positive: amount still owed or owed to
}

// PlanSettlements matches debtors with creditors using a greedy two-pointer
// walk: largest debt against largest credit, paying the smaller of the two,
// then moving on from whichever side reached zero.
//
// Members within Epsilon of zero are left out. The walk emits at most
// debtors+creditors-1 payments and is deterministic (ties are ordered by
// member ID), but it does not always find the fewest possible payments.
// The input slice is never modified.
func PlanSettlements(balances []MemberBalance) []SettlementSuggestion {
	var debtors, creditors []position
	for _, b := range balances {
		switch {
		case b.Balance.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{id: b.MemberID, name: b.DisplayName, remaining: b.Balance.Neg()})
		case b.Balance.GreaterThan(epsilon):
			creditors = append(creditors, position{id: b.MemberID, name: b.DisplayName, remaining: b.Balance})
		}
	}

	largestFirst := func(p []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !p[i].remaining.Equal(p[j].remaining) {
				return p[i].remaining.GreaterThan(p[j].remaining)
			}
			return p[i].id < p[j].id
		}
	}
	sort.SliceStable(debtors, largestFirst(debtors))
	sort.SliceStable(creditors, largestFirst(creditors))

	suggestions := []SettlementSuggestion{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		suggestions = append(suggestions, SettlementSuggestion{
			From:     debtor.id,
			FromName: debtor.name,
			To:       creditor.id,
			ToName:   creditor.name,
			Amount:   amount.Round(2),
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThanOrEqual(epsilon) {
			i++
		}
		if creditor.remaining.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return suggestions
}

// ApplySettlements returns a copy of balances as they would stand after every
// suggestion is paid: the payer's balance rises and the receiver's falls.
func ApplySettlements(balances []MemberBalance, suggestions []SettlementSuggestion) []MemberBalance {
	result := make([]MemberBalance, len(balances))
	copy(result, balances)

	index := make(map[string]int, len(result))
	for i, b := range result {
		index[b.MemberID] = i
	}

	for _, s := range suggestions {
		if i, ok := index[s.From]; ok {
			result[i].Balance = result[i].Balance.Add(s.Amount)
			result[i].TotalPaid = result[i].TotalPaid.Add(s.Amount)
		}
		if i, ok := index[s.To]; ok {
			result[i].Balance = result[i].Balance.Sub(s.Amount)
			result[i].TotalOwed = result[i].TotalOwed.Add(s.Amount)
		}
	}
	return result
}

// TotalAmount sums the amounts of suggestions.
func TotalAmount(suggestions []SettlementSuggestion) decimal.Decimal {
	total := decimal.Zero
	for _, s := range suggestions {
		total = total.Add(s.Amount)
	}
	return total
}
