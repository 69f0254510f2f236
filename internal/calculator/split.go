package calculator

import (
	"math"

	"github.com/mmynk/homeledger/internal/models"
)

// Epsilon is the tolerance for every percentage and balance comparison.
const Epsilon = 0.01

// SplitInput is an explicit percentage requested for one member.
type SplitInput struct {
	MemberID   string
	Percentage float64
}

// ValidateSplits turns participants and optional explicit percentages into
// the split list stored on an expense.
//
// Without explicit splits every participant gets 100/len(participants),
// unrounded. With explicit splits the members must be exactly the
// participants and the percentages must sum to 100 within Epsilon.
func ValidateSplits(participants []string, explicit []SplitInput) ([]models.ExpenseSplit, error) {
	if len(participants) == 0 {
		return nil, &ValidationError{Err: ErrNoParticipants}
	}

	isParticipant := make(map[string]bool, len(participants))
	for _, p := range participants {
		if isParticipant[p] {
			return nil, invalid(ErrDuplicateMember, "participant %q", p)
		}
		isParticipant[p] = true
	}

	// Equal split
	if len(explicit) == 0 {
		share := 100 / float64(len(participants))
		splits := make([]models.ExpenseSplit, len(participants))
		for i, p := range participants {
			splits[i] = models.ExpenseSplit{MemberID: p, Percentage: share}
		}
		return splits, nil
	}

	if len(explicit) != len(participants) {
		return nil, invalid(ErrSplitMismatch, "got %d splits for %d participants", len(explicit), len(participants))
	}

	seen := make(map[string]bool, len(explicit))
	splits := make([]models.ExpenseSplit, len(explicit))
	var sum float64
	for i, s := range explicit {
		if !isParticipant[s.MemberID] {
			return nil, invalid(ErrSplitMismatch, "%q is not a participant", s.MemberID)
		}
		if seen[s.MemberID] {
			return nil, invalid(ErrDuplicateMember, "split for %q", s.MemberID)
		}
		seen[s.MemberID] = true

		if math.IsNaN(s.Percentage) || s.Percentage < 0 || s.Percentage > 100 {
			return nil, invalid(ErrPercentageRange, "%q has %v", s.MemberID, s.Percentage)
		}
		sum += s.Percentage
		splits[i] = models.ExpenseSplit{MemberID: s.MemberID, Percentage: s.Percentage}
	}

	if math.Abs(sum-100) > Epsilon {
		return nil, invalid(ErrPercentageSum, "got %.2f", sum)
	}

	return splits, nil
}
