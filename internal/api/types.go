package api

import (
	"bytes"
	"encoding/json"
	"sort"
)

type TableStatus string

const (
	TableWaiting TableStatus = "waiting"
	TableRunning TableStatus = "running"
)

// TableSummary is one row of the table browser. Read-only; the whole list
// is replaced on every fetch.
type TableSummary struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Stakes       int64       `json:"stakes"`
	PlayersCount int         `json:"players_count"`
	MaxPlayers   int         `json:"max_players"`
	IsPrivate    bool        `json:"is_private"`
	Status       TableStatus `json:"status"`
}

// decodeTableList accepts both wire shapes the backend has shipped: a bare
// array and a {"tables":[...]} wrapper. Both normalise to the same slice.
func decodeTableList(raw json.RawMessage) ([]TableSummary, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []TableSummary
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []TableSummary{}
		}
		return list, nil
	}
	var wrapper struct {
		Tables []TableSummary `json:"tables"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Tables == nil {
		wrapper.Tables = []TableSummary{}
	}
	return wrapper.Tables, nil
}

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePreflop  Phase = "preflop"
	PhaseFlop     Phase = "flop"
	PhaseTurn     Phase = "turn"
	PhaseRiver    Phase = "river"
	PhaseShowdown Phase = "showdown"
	PhaseFinished Phase = "finished"
)

type PlayerStatus string

const (
	StatusNormal PlayerStatus = "normal"
	StatusAllIn  PlayerStatus = "all_in"
	StatusFolded PlayerStatus = "folded"
)

type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"
)

type Player struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Chips      int64        `json:"chips"`
	Cards      []string     `json:"cards"`
	CurrentBet int64        `json:"current_bet"`
	Folded     bool         `json:"folded"`
	Status     PlayerStatus `json:"status"`
}

// NoTurn marks a GameState in which nobody is to act (waiting and finished
// phases).
const NoTurn = -1

// GameState is the authoritative table snapshot, replaced wholesale on
// every poll so a rendered state never mixes two polls.
type GameState struct {
	GameID           string
	Players          []Player
	Pot              int64
	CommunityCards   []string
	CurrentTurnIndex int // index into Players, or NoTurn
	Phase            Phase
	CurrentBet       int64
	SmallBlind       int64
	BigBlind         int64
	ReadyPlayers     map[int64]bool // meaningful only while Phase == waiting
	WinnerID         *int64
}

type gameStateWire struct {
	GameID           string   `json:"game_id"`
	Players          []Player `json:"players"`
	Pot              int64    `json:"pot"`
	CommunityCards   []string `json:"community_cards"`
	CurrentTurnIndex *int     `json:"current_turn_index"`
	Phase            Phase    `json:"phase"`
	CurrentBet       int64    `json:"current_bet"`
	SmallBlind       int64    `json:"small_blind"`
	BigBlind         int64    `json:"big_blind"`
	ReadyPlayers     []int64  `json:"ready_players"`
	WinnerID         *int64   `json:"winner_id,omitempty"`
}

func (g *GameState) UnmarshalJSON(data []byte) error {
	var w gameStateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	idx := NoTurn
	if w.CurrentTurnIndex != nil && *w.CurrentTurnIndex >= 0 && *w.CurrentTurnIndex < len(w.Players) {
		idx = *w.CurrentTurnIndex
	}
	ready := make(map[int64]bool, len(w.ReadyPlayers))
	for _, id := range w.ReadyPlayers {
		ready[id] = true
	}
	*g = GameState{
		GameID:           w.GameID,
		Players:          w.Players,
		Pot:              w.Pot,
		CommunityCards:   w.CommunityCards,
		CurrentTurnIndex: idx,
		Phase:            w.Phase,
		CurrentBet:       w.CurrentBet,
		SmallBlind:       w.SmallBlind,
		BigBlind:         w.BigBlind,
		ReadyPlayers:     ready,
		WinnerID:         w.WinnerID,
	}
	return nil
}

func (g GameState) MarshalJSON() ([]byte, error) {
	w := gameStateWire{
		GameID:         g.GameID,
		Players:        g.Players,
		Pot:            g.Pot,
		CommunityCards: g.CommunityCards,
		Phase:          g.Phase,
		CurrentBet:     g.CurrentBet,
		SmallBlind:     g.SmallBlind,
		BigBlind:       g.BigBlind,
		WinnerID:       g.WinnerID,
	}
	if g.CurrentTurnIndex >= 0 && g.CurrentTurnIndex < len(g.Players) {
		idx := g.CurrentTurnIndex
		w.CurrentTurnIndex = &idx
	}
	w.ReadyPlayers = make([]int64, 0, len(g.ReadyPlayers))
	for id := range g.ReadyPlayers {
		w.ReadyPlayers = append(w.ReadyPlayers, id)
	}
	sort.Slice(w.ReadyPlayers, func(i, j int) bool { return w.ReadyPlayers[i] < w.ReadyPlayers[j] })
	return json.Marshal(w)
}

// TurnValid reports whether CurrentTurnIndex points at a live seat.
func (g *GameState) TurnValid() bool {
	return g != nil && g.CurrentTurnIndex >= 0 && g.CurrentTurnIndex < len(g.Players)
}
