package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/homeledger/internal/models"
)

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name         string
		participants []string
		explicit     []SplitInput
		wantErr      error
		validateFunc func(t *testing.T, splits []models.ExpenseSplit)
	}{
		{
			name:         "no explicit splits - three people share equally",
			participants: []string{"A", "B", "C"},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				if len(splits) != 3 {
					t.Fatalf("got %d splits, want 3", len(splits))
				}
				for i, want := range []string{"A", "B", "C"} {
					if splits[i].MemberID != want {
						t.Errorf("split %d member = %s, want %s", i, splits[i].MemberID, want)
					}
					// Full precision, no rounding to 33.33
					if splits[i].Percentage != 100.0/3 {
						t.Errorf("split %d percentage = %v, want %v", i, splits[i].Percentage, 100.0/3)
					}
				}
			},
		},
		{
			name:         "single participant gets 100",
			participants: []string{"Alice"},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				if len(splits) != 1 || splits[0].Percentage != 100 {
					t.Errorf("got %+v, want one split at 100", splits)
				}
			},
		},
		{
			name:         "explicit splits summing to 100",
			participants: []string{"Alice", "Bob"},
			explicit: []SplitInput{
				{MemberID: "Alice", Percentage: 70},
				{MemberID: "Bob", Percentage: 30},
			},
			validateFunc: func(t *testing.T, splits []models.ExpenseSplit) {
				if splits[0].Percentage != 70 || splits[1].Percentage != 30 {
					t.Errorf("got %+v, want 70/30", splits)
				}
			},
		},
		{
			name:         "explicit splits within epsilon of 100",
			participants: []string{"A", "B", "C"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 33.33},
				{MemberID: "B", Percentage: 33.33},
				{MemberID: "C", Percentage: 33.34},
			},
		},
		{
			name:         "explicit splits in different order than participants",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "B", Percentage: 40},
				{MemberID: "A", Percentage: 60},
			},
		},
		{
			name:    "no participants should error",
			wantErr: ErrNoParticipants,
		},
		{
			name:         "duplicate participant should error",
			participants: []string{"A", "A"},
			wantErr:      ErrDuplicateMember,
		},
		{
			name:         "missing member in explicit splits",
			participants: []string{"A", "B", "C"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 50},
				{MemberID: "B", Percentage: 50},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:         "extra member in explicit splits",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 50},
				{MemberID: "B", Percentage: 25},
				{MemberID: "C", Percentage: 25},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:         "same size but different member",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 50},
				{MemberID: "Z", Percentage: 50},
			},
			wantErr: ErrSplitMismatch,
		},
		{
			name:         "member split twice",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 50},
				{MemberID: "A", Percentage: 50},
			},
			wantErr: ErrDuplicateMember,
		},
		{
			name:         "percentages not summing to 100",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 60},
				{MemberID: "B", Percentage: 30},
			},
			wantErr: ErrPercentageSum,
		},
		{
			name:         "percentages just outside epsilon",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 50},
				{MemberID: "B", Percentage: 50.02},
			},
			wantErr: ErrPercentageSum,
		},
		{
			name:         "negative percentage",
			participants: []string{"A", "B"},
			explicit: []SplitInput{
				{MemberID: "A", Percentage: 120},
				{MemberID: "B", Percentage: -20},
			},
			wantErr: ErrPercentageRange,
		},
		{
			name:         "single participant with explicit partial share",
			participants: []string{"A"},
			explicit:     []SplitInput{{MemberID: "A", Percentage: 50}},
			wantErr:      ErrPercentageSum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ValidateSplits(tt.participants, tt.explicit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ValidateSplits() error = %v, want %v", err, tt.wantErr)
				}
				if !IsValidation(err) {
					t.Errorf("expected a validation error, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateSplits() unexpected error: %v", err)
			}

			var sum float64
			for _, s := range splits {
				sum += s.Percentage
			}
			if math.Abs(sum-100) > Epsilon {
				t.Errorf("percentages sum to %v, want 100", sum)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

func TestValidateSplits_DoesNotAliasInput(t *testing.T) {
	explicit := []SplitInput{
		{MemberID: "A", Percentage: 25},
		{MemberID: "B", Percentage: 75},
	}
	splits, err := ValidateSplits([]string{"A", "B"}, explicit)
	if err != nil {
		t.Fatalf("ValidateSplits() unexpected error: %v", err)
	}
	explicit[0].Percentage = 99
	if splits[0].Percentage != 25 {
		t.Errorf("split changed with caller input: got %v, want 25", splits[0].Percentage)
	}
}

func TestValidationError_Message(t *testing.T) {
	_, err := ValidateSplits([]string{"A", "B"}, []SplitInput{
		{MemberID: "A", Percentage: 10},
		{MemberID: "B", Percentage: 10},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	want := "percentages must sum to 100: got 20.00"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
