// Package tools exposes read-only ledger queries as MCP tools.
package tools

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

// Backend is what the tools query. The in-process services and the
// remote Connect clients both satisfy it.
type Backend struct {
	Houses ledgerrpc.HouseServiceHandler
	Ledger ledgerrpc.LedgerServiceHandler
}

// RegisterTools adds all ledger MCP tools to the server.
func RegisterTools(s *server.MCPServer, b Backend) {
	s.AddTool(listMembersTool(), listMembersHandler(b))
	s.AddTool(houseBalancesTool(), houseBalancesHandler(b))
	s.AddTool(settleUpTool(), settleUpHandler(b))
	s.AddTool(categoryBreakdownTool(), categoryBreakdownHandler(b))
	s.AddTool(spendingOverTimeTool(), spendingOverTimeHandler(b))
}

func houseIDOption() mcp.ToolOption {
	return mcp.WithString("house_id",
		mcp.Required(),
		mcp.Description("ID of the house"),
	)
}

func listMembersTool() mcp.Tool {
	return mcp.NewTool("list_members",
		mcp.WithDescription("List the members of a house in the order they joined, with their IDs."),
		houseIDOption(),
	)
}

func listMembersHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		houseID, err := request.RequireString("house_id")
		if err != nil {
			return mcp.NewToolResultError("house_id is required"), nil
		}
		resp, err := b.Houses.GetHouse(ctx, connect.NewRequest(&ledgerrpc.GetHouseRequest{HouseID: houseID}))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatMembers(resp.Msg)), nil
	}
}

func houseBalancesTool() mcp.Tool {
	return mcp.NewTool("house_balances",
		mcp.WithDescription("Show each member's net balance: what they paid, what they owe, and the difference. Positive means the house owes them."),
		houseIDOption(),
	)
}

func houseBalancesHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		houseID, err := request.RequireString("house_id")
		if err != nil {
			return mcp.NewToolResultError("house_id is required"), nil
		}
		resp, err := b.Ledger.GetBalances(ctx, connect.NewRequest(&ledgerrpc.GetBalancesRequest{HouseID: houseID}))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatBalances(resp.Msg)), nil
	}
}

func settleUpTool() mcp.Tool {
	return mcp.NewTool("settle_up",
		mcp.WithDescription("Suggest the payments that bring every member's balance to zero."),
		houseIDOption(),
	)
}

func settleUpHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		houseID, err := request.RequireString("house_id")
		if err != nil {
			return mcp.NewToolResultError("house_id is required"), nil
		}
		resp, err := b.Ledger.GetSettlementPlan(ctx, connect.NewRequest(&ledgerrpc.GetSettlementPlanRequest{HouseID: houseID}))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatPlan(resp.Msg)), nil
	}
}

func categoryBreakdownTool() mcp.Tool {
	return mcp.NewTool("category_breakdown",
		mcp.WithDescription("Total spending per category with its share of all spending. Settlements are excluded."),
		houseIDOption(),
	)
}

func categoryBreakdownHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		houseID, err := request.RequireString("house_id")
		if err != nil {
			return mcp.NewToolResultError("house_id is required"), nil
		}
		resp, err := b.Ledger.GetCategoryBreakdown(ctx, connect.NewRequest(&ledgerrpc.GetCategoryBreakdownRequest{HouseID: houseID}))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatCategories(resp.Msg)), nil
	}
}

func spendingOverTimeTool() mcp.Tool {
	return mcp.NewTool("spending_over_time",
		mcp.WithDescription("Spending totals per day, week or month over a trailing window. Empty periods are included with a zero total."),
		houseIDOption(),
		mcp.WithString("period",
			mcp.Description("Bucket size: day, week or month. Defaults to the server setting."),
			mcp.Enum("day", "week", "month"),
		),
		mcp.WithNumber("buckets",
			mcp.Description("Number of trailing periods to include, ending with the current one."),
		),
		mcp.WithString("since",
			mcp.Description("Window start date (YYYY-MM-DD). Overrides buckets."),
		),
	)
}

func spendingOverTimeHandler(b Backend) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		houseID, err := request.RequireString("house_id")
		if err != nil {
			return mcp.NewToolResultError("house_id is required"), nil
		}
		req := &ledgerrpc.GetSpendingOverTimeRequest{
			HouseID: houseID,
			Period:  mcp.ParseString(request, "period", ""),
			Buckets: mcp.ParseInt(request, "buckets", 0),
		}
		if since := mcp.ParseString(request, "since", ""); since != "" {
			start, err := time.Parse("2006-01-02", since)
			if err != nil {
				return mcp.NewToolResultError("since must be a date in YYYY-MM-DD format"), nil
			}
			req.WindowStart = &start
		}
		resp, err := b.Ledger.GetSpendingOverTime(ctx, connect.NewRequest(req))
		if err != nil {
			return toolError(err), nil
		}
		return mcp.NewToolResultText(formatSpending(resp.Msg)), nil
	}
}

// toolError reports the RPC message without the Connect code prefix.
func toolError(err error) *mcp.CallToolResult {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return mcp.NewToolResultError(connectErr.Message())
	}
	return mcp.NewToolResultError(err.Error())
}
