package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

type fakeHouses struct {
	ledgerrpc.HouseServiceHandler
	house *ledgerrpc.GetHouseResponse
}

func (f *fakeHouses) GetHouse(_ context.Context, req *connect.Request[ledgerrpc.GetHouseRequest]) (*connect.Response[ledgerrpc.GetHouseResponse], error) {
	if req.Msg.HouseID != f.house.House.ID {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("house not found"))
	}
	return connect.NewResponse(f.house), nil
}

type fakeLedger struct {
	ledgerrpc.LedgerServiceHandler
	plan        *ledgerrpc.GetSettlementPlanResponse
	lastTrend   *ledgerrpc.GetSpendingOverTimeRequest
	trendResult *ledgerrpc.GetSpendingOverTimeResponse
}

func (f *fakeLedger) GetSettlementPlan(_ context.Context, _ *connect.Request[ledgerrpc.GetSettlementPlanRequest]) (*connect.Response[ledgerrpc.GetSettlementPlanResponse], error) {
	return connect.NewResponse(f.plan), nil
}

func (f *fakeLedger) GetSpendingOverTime(_ context.Context, req *connect.Request[ledgerrpc.GetSpendingOverTimeRequest]) (*connect.Response[ledgerrpc.GetSpendingOverTimeResponse], error) {
	f.lastTrend = req.Msg
	return connect.NewResponse(f.trendResult), nil
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestListMembersHandler(t *testing.T) {
	backend := Backend{Houses: &fakeHouses{house: &ledgerrpc.GetHouseResponse{
		House: ledgerrpc.House{ID: "h1", Name: "Elm Street"},
		Members: []ledgerrpc.Member{
			{ID: "m1", DisplayName: "Alice"},
			{ID: "m2", DisplayName: "Bob"},
		},
	}}}
	handler := listMembersHandler(backend)

	t.Run("lists members", func(t *testing.T) {
		res, err := handler(context.Background(), callRequest(map[string]any{"house_id": "h1"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, res))
		}
		text := resultText(t, res)
		if !strings.Contains(text, "Members of Elm Street (2)") {
			t.Errorf("missing header in %q", text)
		}
		if strings.Index(text, "Alice") > strings.Index(text, "Bob") {
			t.Errorf("expected joining order, got %q", text)
		}
	})

	t.Run("missing house_id", func(t *testing.T) {
		res, err := handler(context.Background(), callRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !res.IsError {
			t.Error("expected tool error")
		}
	})

	t.Run("unknown house", func(t *testing.T) {
		res, err := handler(context.Background(), callRequest(map[string]any{"house_id": "nope"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !res.IsError {
			t.Fatal("expected tool error")
		}
		if text := resultText(t, res); text != "house not found" {
			t.Errorf("expected bare message, got %q", text)
		}
	})
}

func TestSettleUpHandler(t *testing.T) {
	ledger := &fakeLedger{plan: &ledgerrpc.GetSettlementPlanResponse{
		Settlements: []ledgerrpc.Settlement{
			{FromName: "Cara", ToName: "Alice", Amount: decimal.RequireFromString("150")},
			{FromName: "Dan", ToName: "Alice", Amount: decimal.RequireFromString("100")},
		},
		TotalAmount: decimal.RequireFromString("250"),
	}}
	handler := settleUpHandler(Backend{Ledger: ledger})

	res, err := handler(context.Background(), callRequest(map[string]any{"house_id": "h1"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	text := resultText(t, res)
	for _, want := range []string{"2 payments", "Cara pays Alice 150.00", "Dan pays Alice 100.00", "Total transferred: 250.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
}

func TestSpendingOverTimeHandler(t *testing.T) {
	ledger := &fakeLedger{trendResult: &ledgerrpc.GetSpendingOverTimeResponse{
		Period:      "week",
		WindowStart: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		Buckets: []ledgerrpc.Bucket{
			{Key: "2025-04-07", Total: decimal.RequireFromString("40"), Count: 2},
			{Key: "2025-04-14", Total: decimal.Zero},
		},
	}}
	handler := spendingOverTimeHandler(Backend{Ledger: ledger})

	t.Run("passes arguments through", func(t *testing.T) {
		res, err := handler(context.Background(), callRequest(map[string]any{
			"house_id": "h1",
			"period":   "week",
			"buckets":  float64(2),
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if ledger.lastTrend.Period != "week" || ledger.lastTrend.Buckets != 2 || ledger.lastTrend.WindowStart != nil {
			t.Errorf("unexpected request: %+v", ledger.lastTrend)
		}
		text := resultText(t, res)
		if !strings.Contains(text, "Spending per week since 2025-04-07") {
			t.Errorf("missing header in %q", text)
		}
		if !strings.Contains(text, "2025-04-14") || !strings.Contains(text, "0.00") {
			t.Errorf("expected empty bucket in %q", text)
		}
	})

	t.Run("since sets the window start", func(t *testing.T) {
		_, err := handler(context.Background(), callRequest(map[string]any{
			"house_id": "h1",
			"since":    "2025-01-01",
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if ledger.lastTrend.WindowStart == nil || !ledger.lastTrend.WindowStart.Equal(want) {
			t.Errorf("WindowStart = %v, want %v", ledger.lastTrend.WindowStart, want)
		}
	})

	t.Run("bad since", func(t *testing.T) {
		res, err := handler(context.Background(), callRequest(map[string]any{
			"house_id": "h1",
			"since":    "last tuesday",
		}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !res.IsError {
			t.Error("expected tool error")
		}
	})
}

func TestFormatBalances(t *testing.T) {
	text := formatBalances(&ledgerrpc.GetBalancesResponse{Balances: []ledgerrpc.Balance{
		{
			DisplayName: "Alice",
			TotalPaid:   decimal.RequireFromString("90"),
			TotalOwed:   decimal.RequireFromString("30"),
			Balance:     decimal.RequireFromString("60"),
		},
		{
			DisplayName: "Bob",
			TotalOwed:   decimal.RequireFromString("30"),
			Balance:     decimal.RequireFromString("-30"),
		},
	}})

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows, got %d lines:\n%s", len(lines), text)
	}
	if !strings.Contains(lines[2], "90.00") || !strings.HasSuffix(lines[2], "60.00") {
		t.Errorf("unexpected Alice row %q", lines[2])
	}
	if !strings.HasSuffix(lines[3], "-30.00") {
		t.Errorf("unexpected Bob row %q", lines[3])
	}

	if got := formatBalances(&ledgerrpc.GetBalancesResponse{}); got != "No members in this house." {
		t.Errorf("empty balances = %q", got)
	}
}

func TestFormatPlan_Settled(t *testing.T) {
	if got := formatPlan(&ledgerrpc.GetSettlementPlanResponse{}); got != "Everyone is settled up." {
		t.Errorf("formatPlan() = %q", got)
	}
}

func TestFormatCategories(t *testing.T) {
	text := formatCategories(&ledgerrpc.GetCategoryBreakdownResponse{
		Categories: []ledgerrpc.CategoryTotal{
			{Category: "UTILITIES", Total: decimal.RequireFromString("60"), Count: 1, PercentageOfTotal: 60, Average: decimal.RequireFromString("60")},
			{Category: "FOOD", Total: decimal.RequireFromString("40"), Count: 2, PercentageOfTotal: 40, Average: decimal.RequireFromString("20")},
		},
		TotalSpending: decimal.RequireFromString("100"),
	})

	for _, want := range []string{"UTILITIES", "60.0%", "(2 expenses, avg 20.00)", "100.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
	if strings.Index(text, "UTILITIES") > strings.Index(text, "FOOD") {
		t.Errorf("expected response order kept, got %q", text)
	}

	if got := formatCategories(&ledgerrpc.GetCategoryBreakdownResponse{}); got != "No spending recorded." {
		t.Errorf("empty breakdown = %q", got)
	}
}
