package server

// Fully-qualified Connect procedure paths.
const (
	AuthRegisterProcedure       = "/splitbill.v1.AuthService/Register"
	AuthLoginProcedure          = "/splitbill.v1.AuthService/Login"
	AuthGetCurrentUserProcedure = "/splitbill.v1.AuthService/GetCurrentUser"

	UserCreateUserProcedure     = "/splitbill.v1.UserService/CreateUser"
	UserGetUserProcedure        = "/splitbill.v1.UserService/GetUser"
	UserGetUserByPhoneProcedure = "/splitbill.v1.UserService/GetUserByPhone"
	UserUpdateProfileProcedure  = "/splitbill.v1.UserService/UpdateProfile"

	EventCreateEventProcedure      = "/splitbill.v1.EventService/CreateEvent"
	EventGetEventProcedure         = "/splitbill.v1.EventService/GetEvent"
	EventListEventsProcedure       = "/splitbill.v1.EventService/ListEvents"
	EventGetEventBalancesProcedure = "/splitbill.v1.EventService/GetEventBalances"

	BillCreateBillProcedure  = "/splitbill.v1.BillService/CreateBill"
	BillGetBillProcedure     = "/splitbill.v1.BillService/GetBill"
	BillListBillsProcedure   = "/splitbill.v1.BillService/ListBills"
	BillAddItemProcedure     = "/splitbill.v1.BillService/AddItem"
	BillSetItemPaidProcedure = "/splitbill.v1.BillService/SetItemPaid"

	InviteCreateInviteProcedure  = "/splitbill.v1.InviteService/CreateInvite"
	InviteAcceptInviteProcedure  = "/splitbill.v1.InviteService/AcceptInvite"
	InviteDeclineInviteProcedure = "/splitbill.v1.InviteService/DeclineInvite"
	InviteListInvitesProcedure   = "/splitbill.v1.InviteService/ListInvites"
)

// publicProcedures can be called without a bearer token.
var publicProcedures = []string{
	AuthRegisterProcedure,
	AuthLoginProcedure,
}
