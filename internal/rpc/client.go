package rpc

import (
	"context"
	"sync"

	"connectrpc.com/connect"
)

// Client calls the bill service. It remembers the session token returned by
// CreateSession and sends it with every later call.
type Client struct {
	createSession     *connect.Client[CreateSessionRequest, CreateSessionResponse]
	getBill           *connect.Client[GetBillRequest, BillResponse]
	addParticipant    *connect.Client[AddParticipantRequest, BillResponse]
	removeParticipant *connect.Client[RemoveParticipantRequest, BillResponse]
	addItem           *connect.Client[AddItemRequest, BillResponse]
	removeItem        *connect.Client[RemoveItemRequest, BillResponse]
	setAssignment     *connect.Client[SetAssignmentRequest, BillResponse]
	assignItem        *connect.Client[AssignItemRequest, BillResponse]
	importItems       *connect.Client[ImportItemsRequest, BillResponse]
	calculateSplit    *connect.Client[CalculateSplitRequest, BillResponse]

	mu    sync.RWMutex
	token string
}

// NewClient creates a bill service client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &Client{
		createSession:     connect.NewClient[CreateSessionRequest, CreateSessionResponse](httpClient, baseURL+BillServiceCreateSessionProcedure, opts...),
		getBill:           connect.NewClient[GetBillRequest, BillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		addParticipant:    connect.NewClient[AddParticipantRequest, BillResponse](httpClient, baseURL+BillServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[RemoveParticipantRequest, BillResponse](httpClient, baseURL+BillServiceRemoveParticipantProcedure, opts...),
		addItem:           connect.NewClient[AddItemRequest, BillResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		removeItem:        connect.NewClient[RemoveItemRequest, BillResponse](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		setAssignment:     connect.NewClient[SetAssignmentRequest, BillResponse](httpClient, baseURL+BillServiceSetAssignmentProcedure, opts...),
		assignItem:        connect.NewClient[AssignItemRequest, BillResponse](httpClient, baseURL+BillServiceAssignItemProcedure, opts...),
		importItems:       connect.NewClient[ImportItemsRequest, BillResponse](httpClient, baseURL+BillServiceImportItemsProcedure, opts...),
		calculateSplit:    connect.NewClient[CalculateSplitRequest, BillResponse](httpClient, baseURL+BillServiceCalculateSplitProcedure, opts...),
	}
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token, e.g. to resume an existing session.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// CreateSession starts a new bill and switches the client to it.
func (c *Client) CreateSession(ctx context.Context) (*CreateSessionResponse, error) {
	resp, err := c.createSession.CallUnary(ctx, connect.NewRequest(&CreateSessionRequest{}))
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Msg.SessionToken)
	return resp.Msg, nil
}

func (c *Client) GetBill(ctx context.Context) (*BillResponse, error) {
	return call(ctx, c, c.getBill, &GetBillRequest{})
}

func (c *Client) AddParticipant(ctx context.Context, name string) (*BillResponse, error) {
	return call(ctx, c, c.addParticipant, &AddParticipantRequest{Name: name})
}

func (c *Client) RemoveParticipant(ctx context.Context, index int) (*BillResponse, error) {
	return call(ctx, c, c.removeParticipant, &RemoveParticipantRequest{Index: index})
}

func (c *Client) AddItem(ctx context.Context, req *AddItemRequest) (*BillResponse, error) {
	return call(ctx, c, c.addItem, req)
}

func (c *Client) RemoveItem(ctx context.Context, index int) (*BillResponse, error) {
	return call(ctx, c, c.removeItem, &RemoveItemRequest{Index: index})
}

func (c *Client) SetAssignment(ctx context.Context, itemIndex int, participant string, included bool) (*BillResponse, error) {
	return call(ctx, c, c.setAssignment, &SetAssignmentRequest{
		ItemIndex:   itemIndex,
		Participant: participant,
		Included:    included,
	})
}

func (c *Client) AssignItem(ctx context.Context, itemIndex int, participants []string) (*BillResponse, error) {
	return call(ctx, c, c.assignItem, &AssignItemRequest{ItemIndex: itemIndex, Participants: participants})
}

func (c *Client) ImportItems(ctx context.Context, req *ImportItemsRequest) (*BillResponse, error) {
	return call(ctx, c, c.importItems, req)
}

func (c *Client) CalculateSplit(ctx context.Context) (*BillResponse, error) {
	return call(ctx, c, c.calculateSplit, &CalculateSplitRequest{})
}

func call[Req any](ctx context.Context, c *Client, client *connect.Client[Req, BillResponse], msg *Req) (*BillResponse, error) {
	req := connect.NewRequest(msg)
	if token := c.Token(); token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
