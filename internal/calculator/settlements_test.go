package calculator

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func balancesFrom(pairs ...any) []MemberBalance {
	var result []MemberBalance
	for i := 0; i < len(pairs); i += 2 {
		id := pairs[i].(string)
		result = append(result, MemberBalance{
			MemberID:    id,
			DisplayName: "Name " + id,
			Balance:     decimal.RequireFromString(pairs[i+1].(string)),
		})
	}
	return result
}

func TestPlanSettlements(t *testing.T) {
	tests := []struct {
		name      string
		balances  []MemberBalance
		want      []SettlementSuggestion
		wantTotal string
	}{
		{
			name:     "two creditors two debtors",
			balances: balancesFrom("A", "250", "B", "50", "C", "-150", "D", "-150"),
			want: []SettlementSuggestion{
				{From: "C", To: "A", Amount: decimal.NewFromInt(150)},
				{From: "D", To: "A", Amount: decimal.NewFromInt(100)},
				{From: "D", To: "B", Amount: decimal.NewFromInt(50)},
			},
			wantTotal: "300",
		},
		{
			name:      "single debt",
			balances:  balancesFrom("Alice", "25.50", "Bob", "-25.50"),
			want:      []SettlementSuggestion{{From: "Bob", To: "Alice", Amount: decimal.RequireFromString("25.50")}},
			wantTotal: "25.50",
		},
		{
			name:      "balances within epsilon are ignored",
			balances:  balancesFrom("A", "0.005", "B", "-0.01", "C", "0"),
			want:      []SettlementSuggestion{},
			wantTotal: "0",
		},
		{
			name:     "largest debtor pays largest creditor first",
			balances: balancesFrom("A", "-10", "B", "-90", "C", "60", "D", "40"),
			want: []SettlementSuggestion{
				{From: "B", To: "C", Amount: decimal.NewFromInt(60)},
				{From: "B", To: "D", Amount: decimal.NewFromInt(30)},
				{From: "A", To: "D", Amount: decimal.NewFromInt(10)},
			},
			wantTotal: "100",
		},
		{
			name:     "unrounded balances produce rounded payments",
			balances: balancesFrom("A", "66.666666666", "B", "-33.333333333", "C", "-33.333333333"),
			want: []SettlementSuggestion{
				{From: "B", To: "A", Amount: decimal.RequireFromString("33.33")},
				{From: "C", To: "A", Amount: decimal.RequireFromString("33.33")},
			},
			wantTotal: "66.66",
		},
		{
			name:      "empty balances",
			balances:  nil,
			want:      []SettlementSuggestion{},
			wantTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanSettlements(tt.balances)
			if got == nil {
				t.Fatal("PlanSettlements() returned nil, want empty slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d settlements %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i].From != tt.want[i].From || got[i].To != tt.want[i].To || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("settlement %d = %s->%s %s, want %s->%s %s", i,
						got[i].From, got[i].To, got[i].Amount,
						tt.want[i].From, tt.want[i].To, tt.want[i].Amount)
				}
			}
			if total := TotalAmount(got); !total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", total, tt.wantTotal)
			}
		})
	}
}

func TestPlanSettlements_CarriesDisplayNames(t *testing.T) {
	got := PlanSettlements(balancesFrom("A", "10", "B", "-10"))
	if got[0].FromName != "Name B" || got[0].ToName != "Name A" {
		t.Errorf("names = %q -> %q", got[0].FromName, got[0].ToName)
	}
}

func TestPlanSettlements_ResolvesEveryBalance(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for iter := 0; iter < 500; iter++ {
		// Balances in steps of 5 cents that sum to zero, so a payment never
		// leaves a sub-epsilon remainder behind
		n := 2 + r.Intn(10)
		balances := make([]MemberBalance, n)
		sum := int64(0)
		for i := 0; i < n-1; i++ {
			cents := int64(r.Intn(40001)-20000) * 5
			balances[i] = MemberBalance{MemberID: string(rune('a' + i)), Balance: decimal.New(cents, -2)}
			sum += cents
		}
		balances[n-1] = MemberBalance{MemberID: string(rune('a' + n - 1)), Balance: decimal.New(-sum, -2)}

		suggestions := PlanSettlements(balances)
		if len(suggestions) > n-1 {
			t.Errorf("iteration %d: %d payments for %d members", iter, len(suggestions), n)
		}
		for _, s := range suggestions {
			if !s.Amount.IsPositive() {
				t.Errorf("iteration %d: non-positive payment %v", iter, s)
			}
		}

		settled := ApplySettlements(balances, suggestions)
		for _, b := range settled {
			if b.Balance.Abs().GreaterThan(epsilon) {
				t.Fatalf("iteration %d: %s left at %s after %v", iter, b.MemberID, b.Balance, suggestions)
			}
		}
	}
}

func TestPlanSettlements_CentRoundingResidue(t *testing.T) {
	balances := balancesFrom("a", "40.016", "b", "-10.004", "c", "-10.004", "d", "-10.004", "e", "-10.004")

	suggestions := PlanSettlements(balances)
	if len(suggestions) != 4 {
		t.Fatalf("expected 4 payments, got %v", suggestions)
	}
	for _, s := range suggestions {
		if !s.Amount.Equal(decimal.RequireFromString("10")) {
			t.Errorf("expected 10.00 payments, got %s", s.Amount)
		}
	}

	settled := ApplySettlements(balances, suggestions)
	if !settled[0].Balance.Equal(decimal.RequireFromString("0.016")) {
		t.Errorf("creditor left at %s, want 0.016", settled[0].Balance)
	}
	for _, b := range settled[1:] {
		if !b.Balance.Equal(decimal.RequireFromString("-0.004")) {
			t.Errorf("%s left at %s, want -0.004", b.MemberID, b.Balance)
		}
	}
}

func TestPlanSettlements_UnalignedBalancesStayWithinRounding(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	halfCent := decimal.RequireFromString("0.005")

	for iter := 0; iter < 500; iter++ {
		// Balances in tenths of a cent, as uneven splits produce
		n := 2 + r.Intn(10)
		balances := make([]MemberBalance, n)
		sum := int64(0)
		for i := 0; i < n-1; i++ {
			mills := int64(r.Intn(400001) - 200000)
			balances[i] = MemberBalance{MemberID: string(rune('a' + i)), Balance: decimal.New(mills, -3)}
			sum += mills
		}
		balances[n-1] = MemberBalance{MemberID: string(rune('a' + n - 1)), Balance: decimal.New(-sum, -3)}

		suggestions := PlanSettlements(balances)
		touches := make(map[string]int)
		for _, s := range suggestions {
			touches[s.From]++
			touches[s.To]++
		}

		settled := ApplySettlements(balances, suggestions)
		for _, b := range settled {
			// Sub-epsilon remainders the walk skips can pool on the last member.
			bound := epsilon.Mul(decimal.NewFromInt(int64(n))).
				Add(halfCent.Mul(decimal.NewFromInt(int64(touches[b.MemberID]))))
			if b.Balance.Abs().GreaterThan(bound) {
				t.Fatalf("iteration %d: %s left at %s, bound %s", iter, b.MemberID, b.Balance, bound)
			}
		}
	}
}

func TestPlanSettlements_DoesNotMutateInput(t *testing.T) {
	balances := balancesFrom("A", "250", "B", "50", "C", "-150", "D", "-150")
	before, _ := json.Marshal(balances)

	first := PlanSettlements(balances)
	second := PlanSettlements(balances)

	after, _ := json.Marshal(balances)
	if string(before) != string(after) {
		t.Errorf("input changed:\n%s\n%s", before, after)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("repeated call differs:\n%s\n%s", a, b)
	}
}

func TestApplySettlements(t *testing.T) {
	balances := balancesFrom("A", "30", "B", "-30")
	settled := ApplySettlements(balances, []SettlementSuggestion{{From: "B", To: "A", Amount: decimal.NewFromInt(30)}})

	if !settled[0].Balance.IsZero() || !settled[1].Balance.IsZero() {
		t.Errorf("settled balances = %v, want zeros", settled)
	}
	if !balances[0].Balance.Equal(decimal.NewFromInt(30)) {
		t.Errorf("ApplySettlements modified its input: %v", balances)
	}
}

func TestGreedyPlanner(t *testing.T) {
	var p Planner = GreedyPlanner{}
	got := p.Plan(balancesFrom("A", "5", "B", "-5"))
	if len(got) != 1 || got[0].From != "B" {
		t.Errorf("Plan() = %v", got)
	}
}
