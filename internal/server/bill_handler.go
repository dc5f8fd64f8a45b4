package server

import (
	"context"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/service"
)

// ItemRequest describes one bill item. Price travels as a decimal string.
type ItemRequest struct {
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	AssignedUserID string          `json:"assigned_user_id"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	IsPaid         bool            `json:"is_paid"`
}

func (r ItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Name:           r.Name,
		Price:          r.Price,
		AssignedUserID: r.AssignedUserID,
		ParticipantIDs: r.ParticipantIDs,
		IsPaid:         r.IsPaid,
	}
}

// CreateBillRequest creates a bill. PaidByID defaults to the caller.
type CreateBillRequest struct {
	Name     string        `json:"name"`
	EventID  string        `json:"event_id,omitempty"`
	PaidByID string        `json:"paid_by_id,omitempty"`
	Items    []ItemRequest `json:"items"`
}

type GetBillRequest struct {
	ID string `json:"id"`
}

type ListBillsRequest struct {
	PageRequest
}

type AddItemRequest struct {
	BillID string      `json:"bill_id"`
	Item   ItemRequest `json:"item"`
}

type SetItemPaidRequest struct {
	ItemID string `json:"item_id"`
	IsPaid bool   `json:"is_paid"`
}

type BillResponse struct {
	Bill models.BillView `json:"bill"`
}

type ListBillsResponse struct {
	Bills []models.BillView `json:"bills"`
}

type ItemResponse struct {
	Item models.ItemView `json:"item"`
}

// BillHandler serves bills and their items. Every bill is returned as seen
// by the caller.
type BillHandler struct {
	bills *service.BillService
}

func NewBillHandler(bills *service.BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

func (h *BillHandler) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[BillResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	input := service.CreateBillInput{
		Name:     req.Msg.Name,
		EventID:  req.Msg.EventID,
		PaidByID: req.Msg.PaidByID,
	}
	for _, item := range req.Msg.Items {
		input.Items = append(input.Items, item.input())
	}

	bill, err := h.bills.CreateBill(ctx, userID, input)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&BillResponse{Bill: *bill}), nil
}

func (h *BillHandler) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[BillResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	bill, err := h.bills.AssembleBillView(ctx, req.Msg.ID, userID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&BillResponse{Bill: *bill}), nil
}

func (h *BillHandler) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}
	page, err := req.Msg.page()
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	bills, err := h.bills.ListBillViewsForUser(ctx, userID, page)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListBillsResponse{Bills: bills}), nil
}

func (h *BillHandler) AddItem(ctx context.Context, req *connect.Request[AddItemRequest]) (*connect.Response[ItemResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := h.bills.AddItem(ctx, userID, req.Msg.BillID, req.Msg.Item.input())
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ItemResponse{Item: *item}), nil
}

func (h *BillHandler) SetItemPaid(ctx context.Context, req *connect.Request[SetItemPaidRequest]) (*connect.Response[ItemResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	item, err := h.bills.SetItemPaid(ctx, userID, req.Msg.ItemID, req.Msg.IsPaid)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ItemResponse{Item: *item}), nil
}
