package server

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/service"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// PageRequest selects a window of a listing.
type PageRequest struct {
	Skip    int    `json:"skip"`
	Limit   int    `json:"limit"`
	OrderBy string `json:"order_by"`
	Order   string `json:"order"`
}

func (p PageRequest) page() (storage.Page, error) {
	order, err := storage.ParseOrder(p.Order)
	if err != nil {
		return storage.Page{}, err
	}
	return storage.Page{Skip: p.Skip, Limit: p.Limit, OrderBy: p.OrderBy, Order: order}, nil
}

// CreateEventRequest creates an event owned by the caller. Until is an
// RFC 3339 timestamp; empty means one day from now.
type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Until       string `json:"until,omitempty"`
}

type GetEventRequest struct {
	ID string `json:"id"`
}

type ListEventsRequest struct {
	PageRequest
}

type GetEventBalancesRequest struct {
	EventID string `json:"event_id"`
}

type EventResponse struct {
	Event models.EventView `json:"event"`
}

type ListEventsResponse struct {
	Events []models.EventView `json:"events"`
}

type EventBalancesResponse struct {
	Balances models.EventBalances `json:"balances"`
}

// EventHandler serves events and their balances.
type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[EventResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	input := service.CreateEventInput{Name: req.Msg.Name, Description: req.Msg.Description}
	if req.Msg.Until != "" {
		input.Until, err = time.Parse(time.RFC3339, req.Msg.Until)
		if err != nil {
			return nil, toConnectError(ctx, models.Invalid("until", "must be an RFC 3339 timestamp"))
		}
	}

	event, err := h.events.CreateEvent(ctx, userID, input)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&EventResponse{Event: *event}), nil
}

func (h *EventHandler) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[EventResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	event, err := h.events.AssembleEventView(ctx, req.Msg.ID, userID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&EventResponse{Event: *event}), nil
}

// ListEvents returns the events the caller takes part in.
func (h *EventHandler) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}
	page, err := req.Msg.page()
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	events, err := h.events.ListEventViewsForUser(ctx, userID, page)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListEventsResponse{Events: events}), nil
}

func (h *EventHandler) GetEventBalances(ctx context.Context, req *connect.Request[GetEventBalancesRequest]) (*connect.Response[EventBalancesResponse], error) {
	balances, err := h.events.GetEventBalances(ctx, req.Msg.EventID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&EventBalancesResponse{Balances: *balances}), nil
}
