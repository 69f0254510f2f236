package service

import (
	"github.com/mmynk/homeledger/internal/calculator"
	"github.com/mmynk/homeledger/internal/models"
	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

func houseToRPC(h *models.House) ledgerrpc.House {
	return ledgerrpc.House{ID: h.ID, Name: h.Name, CreatedAt: h.CreatedAt}
}

func memberToRPC(m models.Member) ledgerrpc.Member {
	return ledgerrpc.Member{ID: m.ID, HouseID: m.HouseID, DisplayName: m.DisplayName, JoinedAt: m.JoinedAt}
}

func membersToRPC(members []models.Member) []ledgerrpc.Member {
	result := make([]ledgerrpc.Member, len(members))
	for i, m := range members {
		result[i] = memberToRPC(m)
	}
	return result
}

func expenseToRPC(e *models.Expense) ledgerrpc.Expense {
	out := ledgerrpc.Expense{
		ID:          e.ID,
		HouseID:     e.HouseID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    string(e.Category),
		PayerID:     e.PayerID,
		Date:        e.Date.UTC(),
		PaidTo:      e.Recipient(),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	for _, s := range e.Splits {
		out.Splits = append(out.Splits, ledgerrpc.Split{MemberID: s.MemberID, Percentage: s.Percentage})
	}
	return out
}

func splitsFromRPC(splits []ledgerrpc.Split) []calculator.SplitInput {
	if len(splits) == 0 {
		return nil
	}
	result := make([]calculator.SplitInput, len(splits))
	for i, s := range splits {
		result[i] = calculator.SplitInput{MemberID: s.MemberID, Percentage: s.Percentage}
	}
	return result
}

func balancesToRPC(balances []calculator.MemberBalance) []ledgerrpc.Balance {
	result := make([]ledgerrpc.Balance, len(balances))
	for i, b := range balances {
		b = b.Rounded()
		result[i] = ledgerrpc.Balance{
			MemberID:    b.MemberID,
			DisplayName: b.DisplayName,
			Balance:     b.Balance,
			TotalPaid:   b.TotalPaid,
			TotalOwed:   b.TotalOwed,
		}
	}
	return result
}

func settlementsToRPC(suggestions []calculator.SettlementSuggestion) []ledgerrpc.Settlement {
	result := make([]ledgerrpc.Settlement, len(suggestions))
	for i, s := range suggestions {
		result[i] = ledgerrpc.Settlement{
			From:     s.From,
			FromName: s.FromName,
			To:       s.To,
			ToName:   s.ToName,
			Amount:   s.Amount,
		}
	}
	return result
}

func categoriesToRPC(totals []calculator.CategoryTotal) []ledgerrpc.CategoryTotal {
	result := make([]ledgerrpc.CategoryTotal, len(totals))
	for i, c := range totals {
		result[i] = ledgerrpc.CategoryTotal{
			Category:          string(c.Category),
			Total:             c.Total.Round(2),
			Count:             c.Count,
			PercentageOfTotal: c.PercentageOfTotal,
			Average:           c.Average.Round(2),
		}
	}
	return result
}

func bucketsToRPC(buckets []calculator.Bucket) []ledgerrpc.Bucket {
	result := make([]ledgerrpc.Bucket, len(buckets))
	for i, b := range buckets {
		result[i] = ledgerrpc.Bucket{Key: b.Key, Total: b.Total.Round(2), Count: b.Count}
	}
	return result
}
