package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/homeledger/internal/models"
	"github.com/mmynk/homeledger/internal/storage"
	"github.com/mmynk/homeledger/pkg/ledgerrpc"
)

// HouseService implements the Connect HouseService
type HouseService struct {
	store storage.Store
}

var _ ledgerrpc.HouseServiceHandler = (*HouseService)(nil)

// NewHouseService creates a new HouseService with the given storage backend.
func NewHouseService(store storage.Store) *HouseService {
	return &HouseService{store: store}
}

// findByName returns the member with the given display name, ignoring case.
func findByName(members []models.Member, name string) (models.Member, bool) {
	for _, m := range members {
		if strings.EqualFold(m.DisplayName, name) {
			return m, true
		}
	}
	return models.Member{}, false
}

// CreateHouse creates a new house and, optionally, its initial roster.
func (s *HouseService) CreateHouse(ctx context.Context, req *connect.Request[ledgerrpc.CreateHouseRequest]) (*connect.Response[ledgerrpc.CreateHouseResponse], error) {
	slog.Info("CreateHouse request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(invalidf("house name required"))
	}

	var roster []models.Member
	for _, memberName := range req.Msg.Members {
		memberName = strings.TrimSpace(memberName)
		if memberName == "" {
			return nil, toConnectError(invalidf("member display name required"))
		}
		if _, dup := findByName(roster, memberName); dup {
			return nil, toConnectError(invalidf("member %q listed twice", memberName))
		}
		roster = append(roster, models.Member{DisplayName: memberName})
	}

	house := &models.House{Name: name}

	// Save house and roster together (generates IDs and timestamps)
	if err := s.store.CreateHouse(ctx, house, roster); err != nil {
		slog.Error("CreateHouse failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("House created", "house_id", house.ID, "members_count", len(roster))

	return connect.NewResponse(&ledgerrpc.CreateHouseResponse{
		House:   houseToRPC(house),
		Members: membersToRPC(roster),
	}), nil
}

// GetHouse retrieves a house and its roster.
func (s *HouseService) GetHouse(ctx context.Context, req *connect.Request[ledgerrpc.GetHouseRequest]) (*connect.Response[ledgerrpc.GetHouseResponse], error) {
	slog.Info("GetHouse request received", "house_id", req.Msg.HouseID)

	house, err := s.store.GetHouse(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("GetHouse failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembers(ctx, house.ID)
	if err != nil {
		slog.Error("GetHouse failed to list members", "house_id", house.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetHouse successful", "house_id", house.ID, "name", house.Name)

	return connect.NewResponse(&ledgerrpc.GetHouseResponse{
		House:   houseToRPC(house),
		Members: membersToRPC(members),
	}), nil
}

// AddMember adds a member to a house. Display names are unique per house.
func (s *HouseService) AddMember(ctx context.Context, req *connect.Request[ledgerrpc.AddMemberRequest]) (*connect.Response[ledgerrpc.AddMemberResponse], error) {
	slog.Info("AddMember request received",
		"house_id", req.Msg.HouseID,
		"display_name", req.Msg.DisplayName,
	)

	name := strings.TrimSpace(req.Msg.DisplayName)
	if name == "" {
		return nil, toConnectError(invalidf("member display name required"))
	}

	if _, err := s.store.GetHouse(ctx, req.Msg.HouseID); err != nil {
		slog.Error("AddMember failed - house not found", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}
	existing, err := s.store.ListMembers(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("AddMember failed to list members", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}
	if m, dup := findByName(existing, name); dup {
		return nil, connect.NewError(connect.CodeAlreadyExists,
			fmt.Errorf("%q is already a member (id %s)", name, m.ID))
	}

	member := &models.Member{HouseID: req.Msg.HouseID, DisplayName: name}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member added", "house_id", member.HouseID, "member_id", member.ID)

	return connect.NewResponse(&ledgerrpc.AddMemberResponse{Member: memberToRPC(*member)}), nil
}

// ListMembers returns the roster of a house in joining order.
func (s *HouseService) ListMembers(ctx context.Context, req *connect.Request[ledgerrpc.ListMembersRequest]) (*connect.Response[ledgerrpc.ListMembersResponse], error) {
	slog.Info("ListMembers request received", "house_id", req.Msg.HouseID)

	if _, err := s.store.GetHouse(ctx, req.Msg.HouseID); err != nil {
		slog.Error("ListMembers failed - house not found", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	members, err := s.store.ListMembers(ctx, req.Msg.HouseID)
	if err != nil {
		slog.Error("ListMembers failed", "house_id", req.Msg.HouseID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListMembers successful", "house_id", req.Msg.HouseID, "count", len(members))

	return connect.NewResponse(&ledgerrpc.ListMembersResponse{Members: membersToRPC(members)}), nil
}

// RemoveMember takes a member off the roster. Expenses they paid or shared
// are kept; balance queries skip them from then on.
func (s *HouseService) RemoveMember(ctx context.Context, req *connect.Request[ledgerrpc.RemoveMemberRequest]) (*connect.Response[ledgerrpc.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received",
		"house_id", req.Msg.HouseID,
		"member_id", req.Msg.MemberID,
	)

	if err := s.store.RemoveMember(ctx, req.Msg.HouseID, req.Msg.MemberID); err != nil {
		slog.Error("RemoveMember failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Member removed", "house_id", req.Msg.HouseID, "member_id", req.Msg.MemberID)

	return connect.NewResponse(&ledgerrpc.RemoveMemberResponse{}), nil
}
