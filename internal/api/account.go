package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"poker-miniapp/internal/gateway"
)

// Session is the result of the bootstrap login exchange.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Settings mirror the backend's camelCase account preferences.
type Settings struct {
	FourColorDeck    bool   `json:"fourColorDeck"`
	ShowHandStrength bool   `json:"showHandStrength"`
	ConfirmAllIn     bool   `json:"confirmAllIn"`
	AutoCheckFold    bool   `json:"autoCheckFold"`
	Haptics          bool   `json:"haptics"`
	Balance          *int64 `json:"balance,omitempty"`
}

type Stats struct {
	HandsPlayed      int            `json:"hands_played"`
	HandsWon         int            `json:"hands_won"`
	TotalProfit      int64          `json:"total_profit"`
	BiggestPotWon    int64          `json:"biggest_pot_won"`
	AvgStake         int64          `json:"avg_stake"`
	CurrentStreak    int            `json:"current_streak"`
	HandDistribution map[string]int `json:"hand_distribution"`
}

type BonusResult struct {
	Success     bool   `json:"success"`
	Amount      int64  `json:"amount,omitempty"`
	NextClaimAt string `json:"next_claim_at,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Login exchanges init data for a session token. Part of the excluded
// bootstrap flow, kept here so the contract stays in one place.
func (c *Client) Login(ctx context.Context, initData string) (*Session, error) {
	out := c.gw.Send(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"init_data": initData},
	})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(out.Payload, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (c *Client) UserSettings(ctx context.Context) (*Settings, error) {
	out := c.gw.Send(ctx, gateway.Request{Method: http.MethodGet, Path: "/user/settings"})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(out.Payload, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

func (c *Client) SaveUserSettings(ctx context.Context, s Settings) (*Settings, error) {
	s.Balance = nil // read-only on the wire
	out := c.gw.Send(ctx, gateway.Request{Method: http.MethodPost, Path: "/user/settings", Body: s})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var saved Settings
	if err := json.Unmarshal(out.Payload, &saved); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &saved, nil
}

func (c *Client) UserStats(ctx context.Context) (*Stats, error) {
	out := c.gw.Send(ctx, gateway.Request{Method: http.MethodGet, Path: "/user/stats"})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var st Stats
	if err := json.Unmarshal(out.Payload, &st); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return &st, nil
}

// ClaimBonus requests the daily balance top-up.
func (c *Client) ClaimBonus(ctx context.Context) (*BonusResult, error) {
	out := c.gw.Send(ctx, gateway.Request{Method: http.MethodPost, Path: "/user/bonus"})
	if err := out.Err(); err != nil {
		return nil, err
	}
	var b BonusResult
	if err := json.Unmarshal(out.Payload, &b); err != nil {
		return nil, fmt.Errorf("decode bonus result: %w", err)
	}
	return &b, nil
}
