// Package ledgerrpc contains the Connect bindings for the homeledger.v1
// HouseService and LedgerService. Messages are plain Go structs carried
// with a JSON codec, so both the Connect protocol and a hand-written
// curl request work against the same handlers:
//
//	curl -H 'Content-Type: application/json' \
//	     -d '{"house_id":"..."}' \
//	     http://localhost:8080/homeledger.v1.LedgerService/GetBalances
package ledgerrpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// HouseServiceName is the fully-qualified name of the HouseService service.
	HouseServiceName = "homeledger.v1.HouseService"
	// LedgerServiceName is the fully-qualified name of the LedgerService service.
	LedgerServiceName = "homeledger.v1.LedgerService"
)

// Procedure names, in the /package.Service/Method form Connect routes on.
const (
	HouseServiceCreateHouseProcedure  = "/" + HouseServiceName + "/CreateHouse"
	HouseServiceGetHouseProcedure     = "/" + HouseServiceName + "/GetHouse"
	HouseServiceAddMemberProcedure    = "/" + HouseServiceName + "/AddMember"
	HouseServiceListMembersProcedure  = "/" + HouseServiceName + "/ListMembers"
	HouseServiceRemoveMemberProcedure = "/" + HouseServiceName + "/RemoveMember"

	LedgerServiceCreateExpenseProcedure        = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceUpdateExpenseProcedure        = "/" + LedgerServiceName + "/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure        = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerServiceListExpensesProcedure         = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceRecordSettlementProcedure     = "/" + LedgerServiceName + "/RecordSettlement"
	LedgerServiceGetBalancesProcedure          = "/" + LedgerServiceName + "/GetBalances"
	LedgerServiceGetSettlementPlanProcedure    = "/" + LedgerServiceName + "/GetSettlementPlan"
	LedgerServiceGetCategoryBreakdownProcedure = "/" + LedgerServiceName + "/GetCategoryBreakdown"
	LedgerServiceGetSpendingOverTimeProcedure  = "/" + LedgerServiceName + "/GetSpendingOverTime"
)

// IsAPIPath reports whether path belongs to one of the services above.
func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/"+HouseServiceName+"/") ||
		strings.HasPrefix(path, "/"+LedgerServiceName+"/")
}

// HouseServiceHandler is implemented by the server side of HouseService.
type HouseServiceHandler interface {
	CreateHouse(context.Context, *connect.Request[CreateHouseRequest]) (*connect.Response[CreateHouseResponse], error)
	GetHouse(context.Context, *connect.Request[GetHouseRequest]) (*connect.Response[GetHouseResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	GetCategoryBreakdown(context.Context, *connect.Request[GetCategoryBreakdownRequest]) (*connect.Response[GetCategoryBreakdownResponse], error)
	GetSpendingOverTime(context.Context, *connect.Request[GetSpendingOverTimeRequest]) (*connect.Response[GetSpendingOverTimeResponse], error)
}

// routes dispatches on the exact procedure path.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{WithJSON()}, opts...)
}

// NewHouseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewHouseServiceHandler(svc HouseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + HouseServiceName + "/", routes{
		HouseServiceCreateHouseProcedure:  connect.NewUnaryHandler(HouseServiceCreateHouseProcedure, svc.CreateHouse, opts...),
		HouseServiceGetHouseProcedure:     connect.NewUnaryHandler(HouseServiceGetHouseProcedure, svc.GetHouse, opts...),
		HouseServiceAddMemberProcedure:    connect.NewUnaryHandler(HouseServiceAddMemberProcedure, svc.AddMember, opts...),
		HouseServiceListMembersProcedure:  connect.NewUnaryHandler(HouseServiceListMembersProcedure, svc.ListMembers, opts...),
		HouseServiceRemoveMemberProcedure: connect.NewUnaryHandler(HouseServiceRemoveMemberProcedure, svc.RemoveMember, opts...),
	}
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + LedgerServiceName + "/", routes{
		LedgerServiceCreateExpenseProcedure:        connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...),
		LedgerServiceUpdateExpenseProcedure:        connect.NewUnaryHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...),
		LedgerServiceDeleteExpenseProcedure:        connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceListExpensesProcedure:         connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceRecordSettlementProcedure:     connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		LedgerServiceGetBalancesProcedure:          connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetSettlementPlanProcedure:    connect.NewUnaryHandler(LedgerServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...),
		LedgerServiceGetCategoryBreakdownProcedure: connect.NewUnaryHandler(LedgerServiceGetCategoryBreakdownProcedure, svc.GetCategoryBreakdown, opts...),
		LedgerServiceGetSpendingOverTimeProcedure:  connect.NewUnaryHandler(LedgerServiceGetSpendingOverTimeProcedure, svc.GetSpendingOverTime, opts...),
	}
}

// Clients share the handler interfaces so callers can swap a remote
// server for an in-process one.
var (
	_ HouseServiceHandler  = (*HouseServiceClient)(nil)
	_ LedgerServiceHandler = (*LedgerServiceClient)(nil)
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{WithJSON()}, opts...)
}

// HouseServiceClient is a client for the homeledger.v1.HouseService service.
type HouseServiceClient struct {
	createHouse  *connect.Client[CreateHouseRequest, CreateHouseResponse]
	getHouse     *connect.Client[GetHouseRequest, GetHouseResponse]
	addMember    *connect.Client[AddMemberRequest, AddMemberResponse]
	listMembers  *connect.Client[ListMembersRequest, ListMembersResponse]
	removeMember *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
}

// NewHouseServiceClient constructs a client for HouseService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewHouseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *HouseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &HouseServiceClient{
		createHouse:  connect.NewClient[CreateHouseRequest, CreateHouseResponse](httpClient, baseURL+HouseServiceCreateHouseProcedure, opts...),
		getHouse:     connect.NewClient[GetHouseRequest, GetHouseResponse](httpClient, baseURL+HouseServiceGetHouseProcedure, opts...),
		addMember:    connect.NewClient[AddMemberRequest, AddMemberResponse](httpClient, baseURL+HouseServiceAddMemberProcedure, opts...),
		listMembers:  connect.NewClient[ListMembersRequest, ListMembersResponse](httpClient, baseURL+HouseServiceListMembersProcedure, opts...),
		removeMember: connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](httpClient, baseURL+HouseServiceRemoveMemberProcedure, opts...),
	}
}

func (c *HouseServiceClient) CreateHouse(ctx context.Context, req *connect.Request[CreateHouseRequest]) (*connect.Response[CreateHouseResponse], error) {
	return c.createHouse.CallUnary(ctx, req)
}

func (c *HouseServiceClient) GetHouse(ctx context.Context, req *connect.Request[GetHouseRequest]) (*connect.Response[GetHouseResponse], error) {
	return c.getHouse.CallUnary(ctx, req)
}

func (c *HouseServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *HouseServiceClient) ListMembers(ctx context.Context, req *connect.Request[ListMembersRequest]) (*connect.Response[ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *HouseServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

// LedgerServiceClient is a client for the homeledger.v1.LedgerService service.
type LedgerServiceClient struct {
	createExpense        *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	updateExpense        *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense        *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	listExpenses         *connect.Client[ListExpensesRequest, ListExpensesResponse]
	recordSettlement     *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	getBalances          *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getSettlementPlan    *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
	getCategoryBreakdown *connect.Client[GetCategoryBreakdownRequest, GetCategoryBreakdownResponse]
	getSpendingOverTime  *connect.Client[GetSpendingOverTimeRequest, GetSpendingOverTimeResponse]
}

// NewLedgerServiceClient constructs a client for LedgerService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		createExpense:        connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		updateExpense:        connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+LedgerServiceUpdateExpenseProcedure, opts...),
		deleteExpense:        connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		listExpenses:         connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		recordSettlement:     connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		getBalances:          connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlementPlan:    connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+LedgerServiceGetSettlementPlanProcedure, opts...),
		getCategoryBreakdown: connect.NewClient[GetCategoryBreakdownRequest, GetCategoryBreakdownResponse](httpClient, baseURL+LedgerServiceGetCategoryBreakdownProcedure, opts...),
		getSpendingOverTime:  connect.NewClient[GetSpendingOverTimeRequest, GetSpendingOverTimeResponse](httpClient, baseURL+LedgerServiceGetSpendingOverTimeProcedure, opts...),
	}
}

func (c *LedgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getSettlementPlan.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetCategoryBreakdown(ctx context.Context, req *connect.Request[GetCategoryBreakdownRequest]) (*connect.Response[GetCategoryBreakdownResponse], error) {
	return c.getCategoryBreakdown.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSpendingOverTime(ctx context.Context, req *connect.Request[GetSpendingOverTimeRequest]) (*connect.Response[GetSpendingOverTimeResponse], error) {
	return c.getSpendingOverTime.CallUnary(ctx, req)
}
