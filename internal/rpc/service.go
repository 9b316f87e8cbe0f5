package rpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// BillServiceName is the fully-qualified name of the bill service.
const BillServiceName = "billsplit.v1.BillService"

// Procedure paths of the bill service.
const (
	BillServiceCreateSessionProcedure     = "/billsplit.v1.BillService/CreateSession"
	BillServiceGetBillProcedure           = "/billsplit.v1.BillService/GetBill"
	BillServiceAddParticipantProcedure    = "/billsplit.v1.BillService/AddParticipant"
	BillServiceRemoveParticipantProcedure = "/billsplit.v1.BillService/RemoveParticipant"
	BillServiceAddItemProcedure           = "/billsplit.v1.BillService/AddItem"
	BillServiceRemoveItemProcedure        = "/billsplit.v1.BillService/RemoveItem"
	BillServiceSetAssignmentProcedure     = "/billsplit.v1.BillService/SetAssignment"
	BillServiceAssignItemProcedure        = "/billsplit.v1.BillService/AssignItem"
	BillServiceImportItemsProcedure       = "/billsplit.v1.BillService/ImportItems"
	BillServiceCalculateSplitProcedure    = "/billsplit.v1.BillService/CalculateSplit"
)

// BillServiceHandler is implemented by the server side of the bill service.
type BillServiceHandler interface {
	CreateSession(context.Context, *connect.Request[CreateSessionRequest]) (*connect.Response[CreateSessionResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[BillResponse], error)
	AddParticipant(context.Context, *connect.Request[AddParticipantRequest]) (*connect.Response[BillResponse], error)
	RemoveParticipant(context.Context, *connect.Request[RemoveParticipantRequest]) (*connect.Response[BillResponse], error)
	AddItem(context.Context, *connect.Request[AddItemRequest]) (*connect.Response[BillResponse], error)
	RemoveItem(context.Context, *connect.Request[RemoveItemRequest]) (*connect.Response[BillResponse], error)
	SetAssignment(context.Context, *connect.Request[SetAssignmentRequest]) (*connect.Response[BillResponse], error)
	AssignItem(context.Context, *connect.Request[AssignItemRequest]) (*connect.Response[BillResponse], error)
	ImportItems(context.Context, *connect.Request[ImportItemsRequest]) (*connect.Response[BillResponse], error)
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[BillResponse], error)
}

// NewBillServiceHandler builds an HTTP handler serving every procedure of
// svc. It returns the path prefix to mount the handler on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(BillServiceCreateSessionProcedure, connect.NewUnaryHandler(BillServiceCreateSessionProcedure, svc.CreateSession, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceAddParticipantProcedure, connect.NewUnaryHandler(BillServiceAddParticipantProcedure, svc.AddParticipant, opts...))
	mux.Handle(BillServiceRemoveParticipantProcedure, connect.NewUnaryHandler(BillServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...))
	mux.Handle(BillServiceAddItemProcedure, connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...))
	mux.Handle(BillServiceRemoveItemProcedure, connect.NewUnaryHandler(BillServiceRemoveItemProcedure, svc.RemoveItem, opts...))
	mux.Handle(BillServiceSetAssignmentProcedure, connect.NewUnaryHandler(BillServiceSetAssignmentProcedure, svc.SetAssignment, opts...))
	mux.Handle(BillServiceAssignItemProcedure, connect.NewUnaryHandler(BillServiceAssignItemProcedure, svc.AssignItem, opts...))
	mux.Handle(BillServiceImportItemsProcedure, connect.NewUnaryHandler(BillServiceImportItemsProcedure, svc.ImportItems, opts...))
	mux.Handle(BillServiceCalculateSplitProcedure, connect.NewUnaryHandler(BillServiceCalculateSplitProcedure, svc.CalculateSplit, opts...))

	return "/" + BillServiceName + "/", mux
}
