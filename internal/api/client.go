package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"poker-miniapp/internal/gateway"
)

// Sender is the slice of the gateway this package needs. *gateway.Client
// satisfies it.
type Sender interface {
	Send(ctx context.Context, req gateway.Request) gateway.Outcome
}

// Client is the typed endpoint surface. Every method maps one backend
// route; untyped JSON never leaves this package.
type Client struct {
	gw Sender
}

func NewClient(gw Sender) *Client {
	return &Client{gw: gw}
}

func (c *Client) ListTables(ctx context.Context) ([]TableSummary, error) {
	out := c.gw.Send(ctx, gateway.Request{Method: http.MethodGet, Path: "/tables"})
	if err := out.Err(); err != nil {
		return nil, err
	}
	list, err := decodeTableList(out.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode table list: %w", err)
	}
	return list, nil
}

func (c *Client) JoinTable(ctx context.Context, tableID string) error {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/tables/" + url.PathEscape(tableID) + "/join",
	})
	return out.Err()
}

func (c *Client) FetchGameState(ctx context.Context, tableID string) (*GameState, error) {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodGet,
		Path:   "/game/state/" + url.PathEscape(tableID),
	})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var st GameState
	if err := json.Unmarshal(out.Payload, &st); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	return &st, nil
}

func (c *Client) Ready(ctx context.Context, gameID string) error {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/game/ready",
		Body:   map[string]string{"game_id": gameID},
	})
	return out.Err()
}

type actionBody struct {
	GameID string     `json:"game_id"`
	Action ActionType `json:"action"`
	Amount int64      `json:"amount,omitempty"`
}

// SubmitAction sends a player action. Legality is checked by the actiongate
// package before calling this; the server still has the final word.
func (c *Client) SubmitAction(ctx context.Context, gameID string, action ActionType, amount int64) error {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/game/action",
		Body:   actionBody{GameID: gameID, Action: action, Amount: amount},
	})
	return out.Err()
}

func (c *Client) LeaveTable(ctx context.Context, tableID string) error {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/game/leave/" + url.PathEscape(tableID),
	})
	return out.Err()
}
