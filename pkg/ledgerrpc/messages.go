package ledgerrpc

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amounts travel as decimal strings ("12.50") so no precision is lost
// between the ledger and its clients.

type House struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type Member struct {
	ID          string `json:"id"`
	HouseID     string `json:"house_id"`
	DisplayName string `json:"display_name"`
	JoinedAt    int64  `json:"joined_at"`
}

type Split struct {
	MemberID   string  `json:"member_id"`
	Percentage float64 `json:"percentage"`
}

type Expense struct {
	ID          string          `json:"id"`
	HouseID     string          `json:"house_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	PayerID     string          `json:"payer_id"`
	Date        time.Time       `json:"date"`
	Splits      []Split         `json:"splits,omitempty"`
	PaidTo      string          `json:"paid_to,omitempty"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

// Balance is a member's net position: positive means the house owes them.
type Balance struct {
	MemberID    string          `json:"member_id"`
	DisplayName string          `json:"display_name"`
	Balance     decimal.Decimal `json:"balance"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
}

type Settlement struct {
	From     string          `json:"from"`
	FromName string          `json:"from_name"`
	To       string          `json:"to"`
	ToName   string          `json:"to_name"`
	Amount   decimal.Decimal `json:"amount"`
}

type CategoryTotal struct {
	Category          string          `json:"category"`
	Total             decimal.Decimal `json:"total"`
	Count             int             `json:"count"`
	PercentageOfTotal float64         `json:"percentage_of_total"`
	Average           decimal.Decimal `json:"average"`
}

type Bucket struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// House service messages

type CreateHouseRequest struct {
	Name string `json:"name"`
	// Members are display names added to the roster in order.
	Members []string `json:"members,omitempty"`
}

type CreateHouseResponse struct {
	House   House    `json:"house"`
	Members []Member `json:"members"`
}

type GetHouseRequest struct {
	HouseID string `json:"house_id"`
}

type GetHouseResponse struct {
	House   House    `json:"house"`
	Members []Member `json:"members"`
}

type AddMemberRequest struct {
	HouseID     string `json:"house_id"`
	DisplayName string `json:"display_name"`
}

type AddMemberResponse struct {
	Member Member `json:"member"`
}

type ListMembersRequest struct {
	HouseID string `json:"house_id"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type RemoveMemberRequest struct {
	HouseID  string `json:"house_id"`
	MemberID string `json:"member_id"`
}

type RemoveMemberResponse struct{}

// Ledger service messages

type CreateExpenseRequest struct {
	HouseID     string          `json:"house_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	PayerID     string          `json:"payer_id"`
	// Date defaults to the time the request is handled.
	Date *time.Time `json:"date,omitempty"`
	// ParticipantIDs defaults to the members named in Splits, or to the
	// whole house when Splits is empty too.
	ParticipantIDs []string `json:"participant_ids,omitempty"`
	// Splits, when empty, divides the amount equally between participants.
	Splits []Split `json:"splits,omitempty"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID      string          `json:"expense_id"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	PayerID        string          `json:"payer_id"`
	Date           *time.Time      `json:"date,omitempty"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	Splits         []Split         `json:"splits,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	HouseID string `json:"house_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type RecordSettlementRequest struct {
	HouseID      string          `json:"house_id"`
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         *time.Time      `json:"date,omitempty"`
}

type RecordSettlementResponse struct {
	Expense Expense `json:"expense"`
}

type GetBalancesRequest struct {
	HouseID string `json:"house_id"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type GetSettlementPlanRequest struct {
	HouseID string `json:"house_id"`
}

type GetSettlementPlanResponse struct {
	Settlements []Settlement    `json:"settlements"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type GetCategoryBreakdownRequest struct {
	HouseID string `json:"house_id"`
}

type GetCategoryBreakdownResponse struct {
	Categories    []CategoryTotal `json:"categories"`
	TotalSpending decimal.Decimal `json:"total_spending"`
}

type GetSpendingOverTimeRequest struct {
	HouseID string `json:"house_id"`
	// Period is day, week or month. Empty uses the server default.
	Period string `json:"period,omitempty"`
	// WindowStart takes precedence over Buckets when both are set.
	WindowStart *time.Time `json:"window_start,omitempty"`
	// Buckets asks for the trailing N periods ending now.
	Buckets int `json:"buckets,omitempty"`
}

type GetSpendingOverTimeResponse struct {
	Period      string    `json:"period"`
	WindowStart time.Time `json:"window_start"`
	Buckets     []Bucket  `json:"buckets"`
}

// House-scoped requests expose GetHouseID so interceptors can tag logs
// without knowing the concrete message type.

func (x *GetHouseRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *AddMemberRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *ListMembersRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *RemoveMemberRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *CreateExpenseRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *ListExpensesRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *RecordSettlementRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *GetBalancesRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *GetSettlementPlanRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *GetCategoryBreakdownRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}

func (x *GetSpendingOverTimeRequest) GetHouseID() string {
	if x != nil {
		return x.HouseID
	}
	return ""
}
