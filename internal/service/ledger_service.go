package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/homeledger/internal/calculator"
	"github.com/mmynk/homeledger/internal/metrics"
	"github.com/mmynk/homeledger/internal/models"
	"github.com/mmynk/homeledger/internal/storage"
	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

// LedgerService implements the Connect LedgerService: expense writes go
// through the split validator, reads recompute balances, settlement plans
// and spending aggregates from the stored history on every call.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
	planner calculator.Planner
	now     func() time.Time

	trendPeriod  calculator.Period
	trendBuckets int
}

var _ ledgerrpc.LedgerServiceHandler = (*LedgerService)(nil)

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithMetrics records ledger activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithPlanner replaces the greedy settlement planner.
func WithPlanner(p calculator.Planner) Option {
	return func(s *LedgerService) { s.planner = p }
}

// WithClock sets the time source used for default expense dates and for the
// end of spending series.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithTrendDefaults sets the period and bucket count GetSpendingOverTime
// uses when a request leaves them out.
func WithTrendDefaults(period calculator.Period, buckets int) Option {
	return func(s *LedgerService) {
		s.trendPeriod = period
		s.trendBuckets = buckets
	}
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:        store,
		planner:      calculator.GreedyPlanner{},
		now:          time.Now,
		trendPeriod:  calculator.PeriodDay,
		trendBuckets: 30,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ledger is everything the calculator needs for one house.
type ledger struct {
	house    *models.House
	members  []models.Member
	expenses []models.Expense
}

// loadLedger fetches a house, its roster and its expenses concurrently.
func (s *LedgerService) loadLedger(ctx context.Context, houseID string) (*ledger, error) {
	if houseID == "" {
		return nil, invalidf("house_id required")
	}

	var l ledger
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		house, err := s.store.GetHouse(gctx, houseID)
		l.house = house
		return err
	})
	g.Go(func() error {
		members, err := s.store.ListMembers(gctx, houseID)
		l.members = members
		return err
	})
	g.Go(func() error {
		expenses, err := s.store.ListExpensesByHouse(gctx, houseID)
		l.expenses = expenses
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if stale := calculator.StaleReferences(l.expenses, l.members); len(stale) > 0 {
		slog.Debug("Ledger references members no longer in the house",
			"house_id", houseID,
			"member_ids", stale,
		)
	}
	return &l, nil
}

func (l *ledger) member(id string) (models.Member, bool) {
	for _, m := range l.members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}

func (l *ledger) isMember(id string) bool {
	_, ok := l.member(id)
	return ok
}

// expenseInput is the part of a create or update request that gets validated.
type expenseInput struct {
	amount       decimal.Decimal
	category     string
	payerID      string
	participants []string
	splits       []ledgerrpc.Split
}

// buildSplits validates an expense against the house roster and returns its
// category and split list.
func buildSplits(l *ledger, in expenseInput) (models.Category, []models.ExpenseSplit, error) {
	if !in.amount.IsPositive() {
		return "", nil, invalidf("amount must be positive, got %s", in.amount)
	}

	category := models.CategoryOther
	if in.category != "" {
		c, err := models.ParseCategory(in.category)
		if err != nil {
			return "", nil, invalidf("%v", err)
		}
		category = c
	}
	if category == models.CategorySettlement {
		return "", nil, invalidf("settlements are recorded with RecordSettlement")
	}

	if !l.isMember(in.payerID) {
		return "", nil, invalidf("payer %q is not a member of this house", in.payerID)
	}

	participants := in.participants
	if len(participants) == 0 {
		if len(in.splits) > 0 {
			for _, sp := range in.splits {
				participants = append(participants, sp.MemberID)
			}
		} else {
			for _, m := range l.members {
				participants = append(participants, m.ID)
			}
		}
	}
	for _, p := range participants {
		if !l.isMember(p) {
			return "", nil, invalidf("participant %q is not a member of this house", p)
		}
	}

	splits, err := calculator.ValidateSplits(participants, splitsFromRPC(in.splits))
	if err != nil {
		return "", nil, err
	}
	return category, splits, nil
}

// CreateExpense validates and records a new expense.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[ledgerrpc.CreateExpenseRequest]) (*connect.Response[ledgerrpc.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"house_id", req.Msg.HouseID,
		"amount", req.Msg.Amount,
		"category", req.Msg.Category,
		"splits_count", len(req.Msg.Splits),
	)

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("CreateExpense failed to load house", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	category, splits, err := buildSplits(l, expenseInput{
		amount:       req.Msg.Amount,
		category:     req.Msg.Category,
		payerID:      req.Msg.PayerID,
		participants: req.Msg.ParticipantIDs,
		splits:       req.Msg.Splits,
	})
	if err != nil {
		slog.Warn("CreateExpense validation failed", "house_id", req.Msg.HouseID, "error", err)
		s.metrics.ValidationFailed("create_expense")
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		HouseID:     l.house.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    category,
		PayerID:     req.Msg.PayerID,
		Date:        s.now().UTC(),
		Splits:      splits,
	}
	if req.Msg.Date != nil {
		expense.Date = req.Msg.Date.UTC()
	}

	// Save to storage (generates ID and timestamps)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ExpenseRecorded(string(category))

	slog.Info("Expense created", "house_id", expense.HouseID, "expense_id", expense.ID)

	return connect.NewResponse(&ledgerrpc.CreateExpenseResponse{Expense: expenseToRPC(expense)}), nil
}

// UpdateExpense replaces the editable fields of an expense and its split
// list. Settlements cannot be edited; delete and record them again.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[ledgerrpc.UpdateExpenseRequest]) (*connect.Response[ledgerrpc.UpdateExpenseResponse], error) {
	slog.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID)

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("UpdateExpense: failed to get existing expense", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	if existing.IsSettlement() {
		s.metrics.ValidationFailed("update_expense")
		return nil, toConnectError(invalidf("settlement %s cannot be edited", existing.ID))
	}

	l, err := s.loadLedger(ctx, existing.HouseID)
	if err != nil {
		slog.Error("UpdateExpense failed to load house", "house_id", existing.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	category, splits, err := buildSplits(l, expenseInput{
		amount:       req.Msg.Amount,
		category:     req.Msg.Category,
		payerID:      req.Msg.PayerID,
		participants: req.Msg.ParticipantIDs,
		splits:       req.Msg.Splits,
	})
	if err != nil {
		slog.Warn("UpdateExpense validation failed", "expense_id", existing.ID, "error", err)
		s.metrics.ValidationFailed("update_expense")
		return nil, toConnectError(err)
	}

	expense := &models.Expense{
		ID:          existing.ID,
		HouseID:     existing.HouseID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Category:    category,
		PayerID:     req.Msg.PayerID,
		Date:        existing.Date,
		Splits:      splits,
		CreatedAt:   existing.CreatedAt,
	}
	if req.Msg.Date != nil {
		expense.Date = req.Msg.Date.UTC()
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)

	return connect.NewResponse(&ledgerrpc.UpdateExpenseResponse{Expense: expenseToRPC(expense)}), nil
}

// DeleteExpense removes an expense or a recorded settlement.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[ledgerrpc.DeleteExpenseRequest]) (*connect.Response[ledgerrpc.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&ledgerrpc.DeleteExpenseResponse{}), nil
}

// ListExpenses returns a house's expenses and settlements, oldest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ledgerrpc.ListExpensesRequest]) (*connect.Response[ledgerrpc.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "house_id", req.Msg.HouseID)

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("ListExpenses failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	expenses := make([]ledgerrpc.Expense, len(l.expenses))
	for i := range l.expenses {
		expenses[i] = expenseToRPC(&l.expenses[i])
	}

	slog.Info("ListExpenses successful", "house_id", req.Msg.HouseID, "count", len(expenses))

	return connect.NewResponse(&ledgerrpc.ListExpensesResponse{Expenses: expenses}), nil
}

// RecordSettlement records that one member paid another back.
func (s *LedgerService) RecordSettlement(ctx context.Context, req *connect.Request[ledgerrpc.RecordSettlementRequest]) (*connect.Response[ledgerrpc.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"house_id", req.Msg.HouseID,
		"from", req.Msg.FromMemberID,
		"to", req.Msg.ToMemberID,
		"amount", req.Msg.Amount,
	)

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("RecordSettlement failed to load house", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	if err := validateSettlement(l, req.Msg); err != nil {
		slog.Warn("RecordSettlement validation failed", "house_id", req.Msg.HouseID, "error", err)
		s.metrics.ValidationFailed("record_settlement")
		return nil, toConnectError(err)
	}

	date := s.now().UTC()
	if req.Msg.Date != nil {
		date = req.Msg.Date.UTC()
	}
	settlement := models.NewSettlement(l.house.ID, req.Msg.FromMemberID, req.Msg.ToMemberID, req.Msg.Amount, date)
	from, _ := l.member(req.Msg.FromMemberID)
	to, _ := l.member(req.Msg.ToMemberID)
	settlement.Description = fmt.Sprintf("%s paid %s", from.DisplayName, to.DisplayName)

	if err := s.store.CreateExpense(ctx, &settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.SettlementRecorded()

	slog.Info("Settlement recorded", "house_id", settlement.HouseID, "expense_id", settlement.ID)

	return connect.NewResponse(&ledgerrpc.RecordSettlementResponse{Expense: expenseToRPC(&settlement)}), nil
}

func validateSettlement(l *ledger, req *ledgerrpc.RecordSettlementRequest) error {
	if !req.Amount.IsPositive() {
		return invalidf("amount must be positive, got %s", req.Amount)
	}
	if req.FromMemberID == req.ToMemberID {
		return invalidf("a member cannot settle with themselves")
	}
	if !l.isMember(req.FromMemberID) {
		return invalidf("payer %q is not a member of this house", req.FromMemberID)
	}
	if !l.isMember(req.ToMemberID) {
		return invalidf("recipient %q is not a member of this house", req.ToMemberID)
	}
	return nil
}

// GetBalances returns every member's net position, rounded to cents.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[ledgerrpc.GetBalancesRequest]) (*connect.Response[ledgerrpc.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "house_id", req.Msg.HouseID)
	defer s.metrics.ObserveQuery("balances", time.Now())

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("GetBalances failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	balances := calculator.ComputeBalances(l.expenses, l.members)

	slog.Info("GetBalances successful",
		"house_id", req.Msg.HouseID,
		"expenses_count", len(l.expenses),
		"members_count", len(balances),
	)

	return connect.NewResponse(&ledgerrpc.GetBalancesResponse{Balances: balancesToRPC(balances)}), nil
}

// GetSettlementPlan suggests payments that bring every balance to zero.
func (s *LedgerService) GetSettlementPlan(ctx context.Context, req *connect.Request[ledgerrpc.GetSettlementPlanRequest]) (*connect.Response[ledgerrpc.GetSettlementPlanResponse], error) {
	slog.Info("GetSettlementPlan request received", "house_id", req.Msg.HouseID)
	defer s.metrics.ObserveQuery("settlement_plan", time.Now())

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("GetSettlementPlan failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	balances := calculator.ComputeBalances(l.expenses, l.members)
	plan := s.planner.Plan(balances)
	s.metrics.PlanSize(len(plan))

	slog.Info("GetSettlementPlan successful",
		"house_id", req.Msg.HouseID,
		"payments_count", len(plan),
	)

	return connect.NewResponse(&ledgerrpc.GetSettlementPlanResponse{
		Settlements: settlementsToRPC(plan),
		TotalAmount: calculator.TotalAmount(plan),
	}), nil
}

// GetCategoryBreakdown totals spending per category, settlements excluded.
func (s *LedgerService) GetCategoryBreakdown(ctx context.Context, req *connect.Request[ledgerrpc.GetCategoryBreakdownRequest]) (*connect.Response[ledgerrpc.GetCategoryBreakdownResponse], error) {
	slog.Info("GetCategoryBreakdown request received", "house_id", req.Msg.HouseID)
	defer s.metrics.ObserveQuery("category_breakdown", time.Now())

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("GetCategoryBreakdown failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	summary := calculator.CategoryBreakdown(l.expenses)

	slog.Info("GetCategoryBreakdown successful",
		"house_id", req.Msg.HouseID,
		"categories_count", len(summary.Categories),
	)

	return connect.NewResponse(&ledgerrpc.GetCategoryBreakdownResponse{
		Categories:    categoriesToRPC(summary.Categories),
		TotalSpending: summary.TotalSpending.Round(2),
	}), nil
}

// GetSpendingOverTime returns a dense day, week or month spending series.
// Without an explicit window start the series covers the trailing
// req.Buckets periods (or the configured default) ending now.
func (s *LedgerService) GetSpendingOverTime(ctx context.Context, req *connect.Request[ledgerrpc.GetSpendingOverTimeRequest]) (*connect.Response[ledgerrpc.GetSpendingOverTimeResponse], error) {
	slog.Info("GetSpendingOverTime request received",
		"house_id", req.Msg.HouseID,
		"period", req.Msg.Period,
		"buckets", req.Msg.Buckets,
	)
	defer s.metrics.ObserveQuery("spending_over_time", time.Now())

	period := s.trendPeriod
	if req.Msg.Period != "" {
		p, err := calculator.ParsePeriod(req.Msg.Period)
		if err != nil {
			return nil, toConnectError(invalidf("%v", err))
		}
		period = p
	}
	if req.Msg.Buckets < 0 || req.Msg.Buckets > calculator.MaxBuckets {
		s.metrics.ValidationFailed("spending_over_time")
		return nil, toConnectError(invalidf("buckets must be between 0 and %d, got %d", calculator.MaxBuckets, req.Msg.Buckets))
	}

	l, err := s.loadLedger(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("GetSpendingOverTime failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	now := s.now()
	var windowStart time.Time
	switch {
	case req.Msg.WindowStart != nil:
		windowStart = req.Msg.WindowStart.UTC()
	case req.Msg.Buckets > 0:
		windowStart = calculator.TrailingWindowStart(now, period, req.Msg.Buckets)
	default:
		windowStart = calculator.TrailingWindowStart(now, period, s.trendBuckets)
	}
	if n := calculator.BucketCount(windowStart, now, period); n > calculator.MaxBuckets {
		s.metrics.ValidationFailed("spending_over_time")
		return nil, toConnectError(invalidf("window_start %s spans %d %s buckets, at most %d allowed",
			windowStart.Format(time.DateOnly), n, period, calculator.MaxBuckets))
	}

	buckets := calculator.SpendingOverTimeAt(l.expenses, windowStart, period, now)

	slog.Info("GetSpendingOverTime successful",
		"house_id", req.Msg.HouseID,
		"period", period,
		"buckets_count", len(buckets),
	)

	return connect.NewResponse(&ledgerrpc.GetSpendingOverTimeResponse{
		Period:      string(period),
		WindowStart: windowStart,
		Buckets:     bucketsToRPC(buckets),
	}), nil
}
