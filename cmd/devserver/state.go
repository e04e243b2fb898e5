package main

import (
	"errors"
	"fmt"
	"sync"

	"poker-miniapp/internal/api"
	"poker-miniapp/internal/config"
)

var (
	errTableNotFound = errors.New("table_not_found")
	errNotSeated     = errors.New("not_seated")
	errNotYourTurn   = errors.New("not_your_turn")
	errBadAction     = errors.New("invalid_action")
)

// hub is the whole backend: a handful of in-memory tables with just enough
// turn mechanics to drive the client. Hand evaluation, street progression
// and payouts belong to the real game server and are deliberately absent.
type hub struct {
	cfg config.DevServerConfig

	mu       sync.Mutex
	tables   map[string]*devTable
	settings map[int64]api.Settings
}

type devTable struct {
	summary api.TableSummary
	state   api.GameState
}

func newHub(cfg config.DevServerConfig) *hub {
	h := &hub{
		cfg:      cfg,
		tables:   map[string]*devTable{},
		settings: map[int64]api.Settings{},
	}
	for i := 0; i < cfg.SeedTables; i++ {
		id := fmt.Sprintf("T%d", i+1)
		h.tables[id] = &devTable{
			summary: api.TableSummary{
				ID:         id,
				Name:       fmt.Sprintf("Dev Table %d", i+1),
				Stakes:     cfg.SmallBlind,
				MaxPlayers: 6,
				Status:     api.TableWaiting,
			},
			state: api.GameState{
				GameID:           id,
				Phase:            api.PhaseWaiting,
				SmallBlind:       cfg.SmallBlind,
				BigBlind:         cfg.BigBlind,
				CurrentTurnIndex: api.NoTurn,
				ReadyPlayers:     map[int64]bool{},
			},
		}
	}
	return h
}

func (h *hub) listTables() []api.TableSummary {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]api.TableSummary, 0, len(h.tables))
	for _, t := range h.tables {
		s := t.summary
		s.PlayersCount = len(t.state.Players)
		out = append(out, s)
	}
	return out
}

func (h *hub) join(tableID string, userID int64, name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tables[tableID]
	if !ok {
		return errTableNotFound
	}
	for _, p := range t.state.Players {
		if p.ID == userID {
			return nil // already seated, joining is idempotent
		}
	}
	t.state.Players = append(t.state.Players, api.Player{
		ID:     userID,
		Name:   name,
		Chips:  h.cfg.StartChips,
		Status: api.StatusNormal,
	})
	return nil
}

func (h *hub) leave(tableID string, userID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tables[tableID]
	if !ok {
		return errTableNotFound
	}
	for i, p := range t.state.Players {
		if p.ID == userID {
			t.state.Players = append(t.state.Players[:i], t.state.Players[i+1:]...)
			delete(t.state.ReadyPlayers, userID)
			break
		}
	}
	if len(t.state.Players) == 0 {
		t.state = api.GameState{
			GameID:           tableID,
			Phase:            api.PhaseWaiting,
			SmallBlind:       h.cfg.SmallBlind,
			BigBlind:         h.cfg.BigBlind,
			CurrentTurnIndex: api.NoTurn,
			ReadyPlayers:     map[int64]bool{},
		}
		t.summary.Status = api.TableWaiting
	}
	return nil
}

// gameState returns a detached copy: handlers marshal it after the lock is
// released, so nothing in it may share memory with the live table.
func (h *hub) gameState(tableID string) (api.GameState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tables[tableID]
	if !ok {
		return api.GameState{}, errTableNotFound
	}
	return cloneState(&t.state), nil
}

func cloneState(st *api.GameState) api.GameState {
	out := *st
	out.Players = append([]api.Player(nil), st.Players...)
	for i := range out.Players {
		out.Players[i].Cards = append([]string(nil), st.Players[i].Cards...)
	}
	out.CommunityCards = append([]string(nil), st.CommunityCards...)
	out.ReadyPlayers = make(map[int64]bool, len(st.ReadyPlayers))
	for id := range st.ReadyPlayers {
		out.ReadyPlayers[id] = true
	}
	if st.WinnerID != nil {
		winner := *st.WinnerID
		out.WinnerID = &winner
	}
	return out
}

func (h *hub) ready(tableID string, userID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tables[tableID]
	if !ok {
		return errTableNotFound
	}
	if t.state.Phase != api.PhaseWaiting {
		return nil
	}
	seated := false
	for _, p := range t.state.Players {
		if p.ID == userID {
			seated = true
			break
		}
	}
	if !seated {
		return errNotSeated
	}
	t.state.ReadyPlayers[userID] = true
	if len(t.state.Players) >= 2 && len(t.state.ReadyPlayers) == len(t.state.Players) {
		h.startHandLocked(t)
	}
	return nil
}

// startHandLocked posts blinds and opens a single flat betting round; the
// stub never deals cards or advances streets.
func (h *hub) startHandLocked(t *devTable) {
	st := &t.state
	st.Phase = api.PhasePreflop
	st.Pot = 0
	st.CurrentBet = st.BigBlind
	st.CommunityCards = nil
	st.WinnerID = nil
	for i := range st.Players {
		st.Players[i].CurrentBet = 0
		st.Players[i].Folded = false
		st.Players[i].Status = api.StatusNormal
		st.Players[i].Cards = nil
	}
	post := func(i int, amount int64) {
		if amount > st.Players[i].Chips {
			amount = st.Players[i].Chips
		}
		st.Players[i].Chips -= amount
		st.Players[i].CurrentBet += amount
		st.Pot += amount
	}
	post(0, st.SmallBlind)
	post(1, st.BigBlind)
	st.CurrentTurnIndex = 2 % len(st.Players)
	st.ReadyPlayers = map[int64]bool{}
	t.summary.Status = api.TableRunning
}

func (h *hub) action(tableID string, userID int64, action api.ActionType, amount int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	t, ok := h.tables[tableID]
	if !ok {
		return errTableNotFound
	}
	st := &t.state
	if !st.TurnValid() || st.Players[st.CurrentTurnIndex].ID != userID {
		return errNotYourTurn
	}
	i := st.CurrentTurnIndex
	p := &st.Players[i]
	switch action {
	case api.ActionFold:
		p.Folded = true
		p.Status = api.StatusFolded
	case api.ActionCheck:
		if p.CurrentBet != st.CurrentBet {
			return errBadAction
		}
	case api.ActionCall:
		owed := st.CurrentBet - p.CurrentBet
		if owed > p.Chips {
			owed = p.Chips
			p.Status = api.StatusAllIn
		}
		p.Chips -= owed
		p.CurrentBet += owed
		st.Pot += owed
	case api.ActionRaise:
		if amount < st.BigBlind || amount > p.Chips {
			return errBadAction
		}
		p.Chips -= amount
		p.CurrentBet += amount
		st.Pot += amount
		if p.CurrentBet > st.CurrentBet {
			st.CurrentBet = p.CurrentBet
		}
	case api.ActionAllIn:
		all := p.Chips
		p.Chips = 0
		p.CurrentBet += all
		st.Pot += all
		p.Status = api.StatusAllIn
		if p.CurrentBet > st.CurrentBet {
			st.CurrentBet = p.CurrentBet
		}
	default:
		return errBadAction
	}
	h.advanceTurnLocked(t)
	return nil
}

func (h *hub) advanceTurnLocked(t *devTable) {
	st := &t.state
	active := 0
	last := -1
	for i, p := range st.Players {
		if !p.Folded {
			active++
			last = i
		}
	}
	if active <= 1 {
		st.Phase = api.PhaseFinished
		st.CurrentTurnIndex = api.NoTurn
		if last >= 0 {
			winner := st.Players[last].ID
			st.WinnerID = &winner
			st.Players[last].Chips += st.Pot
			st.Pot = 0
		}
		t.summary.Status = api.TableWaiting
		return
	}
	n := len(st.Players)
	for step := 1; step <= n; step++ {
		next := (st.CurrentTurnIndex + step) % n
		p := st.Players[next]
		if !p.Folded && p.Status != api.StatusAllIn {
			st.CurrentTurnIndex = next
			return
		}
	}
	st.CurrentTurnIndex = api.NoTurn
}

func (h *hub) userSettings(userID int64) api.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settingsLocked(userID)
}

func (h *hub) settingsLocked(userID int64) api.Settings {
	s, ok := h.settings[userID]
	if !ok {
		balance := h.cfg.StartChips
		s = api.Settings{
			FourColorDeck:    true,
			ShowHandStrength: true,
			ConfirmAllIn:     true,
			Haptics:          true,
			Balance:          &balance,
		}
		h.settings[userID] = s
	}
	return s
}

const bonusAmount = 200

func (h *hub) claimBonus(userID int64) api.BonusResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.settingsLocked(userID)
	if s.Balance != nil {
		*s.Balance += bonusAmount
	}
	return api.BonusResult{Success: true, Amount: bonusAmount, Message: "Bonus claimed!"}
}

func (h *hub) saveUserSettings(userID int64, in api.Settings) api.Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	current := h.settingsLocked(userID)
	in.Balance = current.Balance
	h.settings[userID] = in
	return in
}
