package tools

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatMembers(resp *ledgerrpc.GetHouseResponse) string {
	if len(resp.Members) == 0 {
		return fmt.Sprintf("%s has no members.", resp.House.Name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Members of %s (%d):\n\n", resp.House.Name, len(resp.Members))
	for _, m := range resp.Members {
		fmt.Fprintf(&sb, "  %-20s %s\n", m.DisplayName, m.ID)
	}
	return sb.String()
}

func formatBalances(resp *ledgerrpc.GetBalancesResponse) string {
	if len(resp.Balances) == 0 {
		return "No members in this house."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "  %-20s %12s %12s %12s\n", "Member", "Paid", "Owed", "Balance")
	fmt.Fprintf(&sb, "  %s\n", strings.Repeat("-", 59))
	for _, b := range resp.Balances {
		fmt.Fprintf(&sb, "  %-20s %12s %12s %12s\n",
			b.DisplayName, money(b.TotalPaid), money(b.TotalOwed), money(b.Balance))
	}
	return sb.String()
}

func formatPlan(resp *ledgerrpc.GetSettlementPlanResponse) string {
	if len(resp.Settlements) == 0 {
		return "Everyone is settled up."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d payments settle the house:\n\n", len(resp.Settlements))
	for _, s := range resp.Settlements {
		fmt.Fprintf(&sb, "  %s pays %s %s\n", s.FromName, s.ToName, money(s.Amount))
	}
	fmt.Fprintf(&sb, "\n  Total transferred: %s\n", money(resp.TotalAmount))
	return sb.String()
}

func formatCategories(resp *ledgerrpc.GetCategoryBreakdownResponse) string {
	if len(resp.Categories) == 0 {
		return "No spending recorded."
	}

	var sb strings.Builder
	sb.WriteString("Spending by category:\n\n")
	for _, c := range resp.Categories {
		fmt.Fprintf(&sb, "  %-15s %10s  %5.1f%%  (%d expenses, avg %s)\n",
			c.Category, money(c.Total), c.PercentageOfTotal, c.Count, money(c.Average))
	}
	fmt.Fprintf(&sb, "\n  %-15s %10s\n", "TOTAL", money(resp.TotalSpending))
	return sb.String()
}

func formatSpending(resp *ledgerrpc.GetSpendingOverTimeResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Spending per %s since %s:\n\n", resp.Period, resp.WindowStart.Format("2006-01-02"))

	total := decimal.Zero
	for _, b := range resp.Buckets {
		fmt.Fprintf(&sb, "  %-12s %10s  (%d)\n", b.Key, money(b.Total), b.Count)
		total = total.Add(b.Total)
	}
	fmt.Fprintf(&sb, "\n  %-12s %10s\n", "TOTAL", money(total))
	return sb.String()
}
