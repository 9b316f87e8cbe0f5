package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/rpc"
)

// BillService implements the Connect BillService on top of in-memory
// bill sessions.
type BillService struct {
	sessions *bill.Registry
	tokens   *auth.TokenManager
}

var _ rpc.BillServiceHandler = (*BillService)(nil)

// NewBillService creates a BillService keeping its sessions in sessions.
func NewBillService(sessions *bill.Registry, tokens *auth.TokenManager) *BillService {
	return &BillService{sessions: sessions, tokens: tokens}
}

// session returns the session bound to the request context.
func (s *BillService) session(ctx context.Context) (*bill.Session, error) {
	sessionID := middleware.GetSessionID(ctx)
	if sessionID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	sess, err := s.sessions.Get(sessionID)
	if errors.Is(err, bill.ErrSessionNotFound) {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("session %s: %w", sessionID, err))
	}
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return sess, nil
}

// apply applies fn to the request's session and returns the re-rendered bill.
func (s *BillService) apply(ctx context.Context, fn func(*bill.Session) bool) (*connect.Response[rpc.BillResponse], error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	applied := fn(sess)
	return connect.NewResponse(&rpc.BillResponse{
		Applied: applied,
		Bill:    rpc.NewBillView(sess.Snapshot()),
	}), nil
}

// CreateSession starts an empty bill and hands out its session token.
func (s *BillService) CreateSession(ctx context.Context, req *connect.Request[rpc.CreateSessionRequest]) (*connect.Response[rpc.CreateSessionResponse], error) {
	sessionID, sess := s.sessions.Create()

	token, err := s.tokens.Generate(sessionID)
	if err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session created", "session_id", sessionID)

	return connect.NewResponse(&rpc.CreateSessionResponse{
		SessionToken: token,
		Bill:         rpc.NewBillView(sess.Snapshot()),
	}), nil
}

// GetBill returns the current bill.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[rpc.GetBillRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(*bill.Session) bool { return true })
}

// AddParticipant adds a person to the roster.
func (s *BillService) AddParticipant(ctx context.Context, req *connect.Request[rpc.AddParticipantRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.AddParticipant(req.Msg.Name)
	})
}

// RemoveParticipant removes a person and their assignments.
func (s *BillService) RemoveParticipant(ctx context.Context, req *connect.Request[rpc.RemoveParticipantRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.RemoveParticipant(req.Msg.Index)
	})
}

// AddItem adds a manually entered item.
func (s *BillService) AddItem(ctx context.Context, req *connect.Request[rpc.AddItemRequest]) (*connect.Response[rpc.BillResponse], error) {
	slog.Debug("Processing item",
		"name", req.Msg.Name,
		"price", req.Msg.Price,
		"quantity", req.Msg.Quantity,
	)
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.AddItem(models.LineItem{
			Name:     req.Msg.Name,
			Price:    req.Msg.Price,
			Quantity: req.Msg.Quantity,
		})
	})
}

// RemoveItem removes an item by position.
func (s *BillService) RemoveItem(ctx context.Context, req *connect.Request[rpc.RemoveItemRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.RemoveItem(req.Msg.Index)
	})
}

// SetAssignment toggles one participant on one item.
func (s *BillService) SetAssignment(ctx context.Context, req *connect.Request[rpc.SetAssignmentRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.SetAssignment(req.Msg.ItemIndex, req.Msg.Participant, req.Msg.Included)
	})
}

// AssignItem replaces the assignment set of one item.
func (s *BillService) AssignItem(ctx context.Context, req *connect.Request[rpc.AssignItemRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		return sess.AssignItem(req.Msg.ItemIndex, req.Msg.Participants)
	})
}

// ImportItems appends scanned items to the bill.
func (s *BillService) ImportItems(ctx context.Context, req *connect.Request[rpc.ImportItemsRequest]) (*connect.Response[rpc.BillResponse], error) {
	return s.apply(ctx, func(sess *bill.Session) bool {
		n := sess.ImportItems(req.Msg.Items)
		slog.Info("Imported items", "session_id", middleware.GetSessionID(ctx), "count", n)
		return n > 0
	})
}

// CalculateSplit returns the bill with its split. The split is part of every
// bill view; this call exists for clients that refresh it explicitly.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[rpc.CalculateSplitRequest]) (*connect.Response[rpc.BillResponse], error) {
	resp, err := s.apply(ctx, func(*bill.Session) bool { return true })
	if err != nil {
		return nil, err
	}
	for _, line := range resp.Msg.Bill.Split {
		slog.Debug("Person split",
			"person", line.Participant,
			"total", line.Amount,
			"items_count", len(line.Items),
		)
	}
	return resp, nil
}
