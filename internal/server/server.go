// Package server exposes the services over Connect RPC.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fadegor05/PROD-hack-moscow/internal/auth"
	"github.com/fadegor05/PROD-hack-moscow/internal/middleware"
	"github.com/fadegor05/PROD-hack-moscow/internal/service"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// Deps holds everything the transport needs.
type Deps struct {
	Store         storage.Store
	Authenticator auth.Authenticator
	JWTManager    *auth.JWTManager
	Users         *service.UserService
	Events        *service.EventService
	Bills         *service.BillService
	Invites       *service.InviteService
	Logger        *slog.Logger

	// Registry receives the RPC metrics and backs /metrics.
	// A fresh registry with Go and process collectors is used when nil.
	Registry *prometheus.Registry

	// RateLimiter throttles callers per peer address. Nil disables it.
	RateLimiter *middleware.RateLimiter
}

// NewHandler builds the HTTP handler serving every RPC plus /healthz and
// /metrics.
func NewHandler(deps Deps) http.Handler {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	interceptors := []connect.Interceptor{
		middleware.LoggingInterceptor(deps.Logger),
		middleware.NewMetrics(reg).Interceptor(),
	}
	if deps.RateLimiter != nil {
		interceptors = append(interceptors, deps.RateLimiter.Interceptor())
	}
	interceptors = append(interceptors, middleware.RequireAuth(deps.JWTManager, publicProcedures...))

	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(interceptors...),
	}

	mux := http.NewServeMux()
	route := func(procedure string, h http.Handler) { mux.Handle(procedure, h) }

	authHandler := NewAuthHandler(deps.Authenticator, deps.JWTManager, deps.Users)
	route(AuthRegisterProcedure, connect.NewUnaryHandler(AuthRegisterProcedure, authHandler.Register, opts...))
	route(AuthLoginProcedure, connect.NewUnaryHandler(AuthLoginProcedure, authHandler.Login, opts...))
	route(AuthGetCurrentUserProcedure, connect.NewUnaryHandler(AuthGetCurrentUserProcedure, authHandler.GetCurrentUser, opts...))

	userHandler := NewUserHandler(deps.Users)
	route(UserCreateUserProcedure, connect.NewUnaryHandler(UserCreateUserProcedure, userHandler.CreateUser, opts...))
	route(UserGetUserProcedure, connect.NewUnaryHandler(UserGetUserProcedure, userHandler.GetUser, opts...))
	route(UserGetUserByPhoneProcedure, connect.NewUnaryHandler(UserGetUserByPhoneProcedure, userHandler.GetUserByPhone, opts...))
	route(UserUpdateProfileProcedure, connect.NewUnaryHandler(UserUpdateProfileProcedure, userHandler.UpdateProfile, opts...))

	eventHandler := NewEventHandler(deps.Events)
	route(EventCreateEventProcedure, connect.NewUnaryHandler(EventCreateEventProcedure, eventHandler.CreateEvent, opts...))
	route(EventGetEventProcedure, connect.NewUnaryHandler(EventGetEventProcedure, eventHandler.GetEvent, opts...))
	route(EventListEventsProcedure, connect.NewUnaryHandler(EventListEventsProcedure, eventHandler.ListEvents, opts...))
	route(EventGetEventBalancesProcedure, connect.NewUnaryHandler(EventGetEventBalancesProcedure, eventHandler.GetEventBalances, opts...))

	billHandler := NewBillHandler(deps.Bills)
	route(BillCreateBillProcedure, connect.NewUnaryHandler(BillCreateBillProcedure, billHandler.CreateBill, opts...))
	route(BillGetBillProcedure, connect.NewUnaryHandler(BillGetBillProcedure, billHandler.GetBill, opts...))
	route(BillListBillsProcedure, connect.NewUnaryHandler(BillListBillsProcedure, billHandler.ListBills, opts...))
	route(BillAddItemProcedure, connect.NewUnaryHandler(BillAddItemProcedure, billHandler.AddItem, opts...))
	route(BillSetItemPaidProcedure, connect.NewUnaryHandler(BillSetItemPaidProcedure, billHandler.SetItemPaid, opts...))

	inviteHandler := NewInviteHandler(deps.Invites)
	route(InviteCreateInviteProcedure, connect.NewUnaryHandler(InviteCreateInviteProcedure, inviteHandler.CreateInvite, opts...))
	route(InviteAcceptInviteProcedure, connect.NewUnaryHandler(InviteAcceptInviteProcedure, inviteHandler.AcceptInvite, opts...))
	route(InviteDeclineInviteProcedure, connect.NewUnaryHandler(InviteDeclineInviteProcedure, inviteHandler.DeclineInvite, opts...))
	route(InviteListInvitesProcedure, connect.NewUnaryHandler(InviteListInvitesProcedure, inviteHandler.ListInvites, opts...))

	mux.Handle("/healthz", healthHandler(deps.Store, deps.Logger))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return mux
}

func healthHandler(store storage.Store, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.Error("Health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
}
