package calculator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/homeledger/internal/models"
)

// Period is the width of a spending bucket.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// MaxBuckets is the longest spending series callers should request.
const MaxBuckets = 366

// ParsePeriod converts "day", "week" or "month" (any case) into a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q: must be day, week or month", s)
}

// CategoryTotal is the spending of one category.
type CategoryTotal struct {
	Category          models.Category
	Total             decimal.Decimal
	Count             int
	PercentageOfTotal float64
	Average           decimal.Decimal
}

// CategorySummary is the result of CategoryBreakdown.
type CategorySummary struct {
	Categories    []CategoryTotal
	TotalSpending decimal.Decimal
}

// CategoryBreakdown groups spending by category, largest total first.
// Settlements are not spending and are left out.
func CategoryBreakdown(expenses []models.Expense) CategorySummary {
	totals := make(map[models.Category]*CategoryTotal)
	totalSpending := decimal.Zero

	for _, e := range expenses {
		if e.IsSettlement() {
			continue
		}
		ct, ok := totals[e.Category]
		if !ok {
			ct = &CategoryTotal{Category: e.Category}
			totals[e.Category] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
		totalSpending = totalSpending.Add(e.Amount)
	}

	categories := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		ct.Average = ct.Total.Div(decimal.NewFromInt(int64(ct.Count)))
		if totalSpending.IsPositive() {
			ct.PercentageOfTotal = ct.Total.Div(totalSpending).Mul(hundred).InexactFloat64()
		}
		categories = append(categories, *ct)
	}

	sort.Slice(categories, func(i, j int) bool {
		if !categories[i].Total.Equal(categories[j].Total) {
			return categories[i].Total.GreaterThan(categories[j].Total)
		}
		return categories[i].Category < categories[j].Category
	})

	return CategorySummary{Categories: categories, TotalSpending: totalSpending}
}

// Bucket is the spending that falls inside one day, week or month.
type Bucket struct {
	Key   string // YYYY-MM-DD for days and weeks (the Monday), YYYY-MM for months
	Total decimal.Decimal
	Count int
}

// BucketKey returns the key of the bucket containing t, computed in UTC.
func BucketKey(t time.Time, period Period) string {
	start := bucketStart(t, period)
	if period == PeriodMonth {
		return start.Format(monthLayout)
	}
	return start.Format(dayLayout)
}

// bucketStart truncates t to the first instant of its bucket in UTC.
// Weeks start on Monday.
func bucketStart(t time.Time, period Period) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeek:
		back := int(day.Weekday()) - 1
		if day.Weekday() == time.Sunday {
			back = 6
		}
		return day.AddDate(0, 0, -back)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// advance moves a bucket start forward by n buckets (backward when n < 0).
func advance(start time.Time, period Period, n int) time.Time {
	switch period {
	case PeriodWeek:
		return start.AddDate(0, 0, 7*n)
	case PeriodMonth:
		return start.AddDate(0, n, 0)
	default:
		return start.AddDate(0, 0, n)
	}
}

// TrailingWindowStart returns the window start that makes SpendingOverTimeAt
// emit exactly n buckets, the last one containing now.
func TrailingWindowStart(now time.Time, period Period, n int) time.Time {
	if n < 1 {
		n = 1
	}
	return advance(bucketStart(now, period), period, -(n - 1))
}

// BucketCount returns how many dense buckets SpendingOverTimeAt emits from
// the bucket containing windowStart through the bucket containing now.
// It is 0 when windowStart falls after now's bucket.
func BucketCount(windowStart, now time.Time, period Period) int {
	first := bucketStart(windowStart, period)
	last := bucketStart(now, period)
	if first.After(last) {
		return 0
	}
	if period == PeriodMonth {
		return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
	}
	var days int
	if years := last.Year() - first.Year(); years > 200 {
		// time.Duration saturates past ~292 years, so estimate.
		days = years * 365
	} else {
		days = int(last.Sub(first).Hours()) / 24
	}
	if period == PeriodWeek {
		return days/7 + 1
	}
	return days + 1
}

// SpendingOverTime buckets spending since windowStart up to the current time.
// See SpendingOverTimeAt.
func SpendingOverTime(expenses []models.Expense, windowStart time.Time, period Period) []Bucket {
	return SpendingOverTimeAt(expenses, windowStart, period, time.Now())
}

// SpendingOverTimeAt buckets every non-settlement expense dated at or after
// windowStart. The series is dense: every bucket from the one containing
// windowStart through the one containing now is present, with zero totals
// where nothing was spent. Buckets are sorted by key.
//
// An unknown period buckets by day.
func SpendingOverTimeAt(expenses []models.Expense, windowStart time.Time, period Period, now time.Time) []Bucket {
	buckets := make(map[string]*Bucket)

	for _, e := range expenses {
		if e.IsSettlement() || e.Date.Before(windowStart) {
			continue
		}
		key := BucketKey(e.Date, period)
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Key: key}
			buckets[key] = b
		}
		b.Total = b.Total.Add(e.Amount)
		b.Count++
	}

	// Fill the gaps so charts have no holes
	last := bucketStart(now, period)
	for cur := bucketStart(windowStart, period); !cur.After(last); cur = advance(cur, period, 1) {
		key := BucketKey(cur, period)
		if _, ok := buckets[key]; !ok {
			buckets[key] = &Bucket{Key: key, Total: decimal.Zero}
		}
	}

	result := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}
