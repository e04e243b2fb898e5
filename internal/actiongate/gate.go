// Package actiongate derives which player actions are currently legal from
// the latest synchronized game state. All checks are advisory: they keep
// obviously illegal requests off the wire, the server remains the source of
// truth and may still reject an action that passed here.
package actiongate

import (
	"errors"
	"fmt"

	"poker-miniapp/internal/api"
)

var ErrInvalidAction = errors.New("invalid_action")

// ValidationError is resolved entirely client-side and never transmitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid_action: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidAction
}

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CurrentPlayer finds the local player's seat in the state.
func CurrentPlayer(st *api.GameState, localID int64) (api.Player, bool) {
	if st == nil {
		return api.Player{}, false
	}
	for _, p := range st.Players {
		if p.ID == localID {
			return p, true
		}
	}
	return api.Player{}, false
}

// IsMyTurn reports whether the turn index points at the local player.
func IsMyTurn(st *api.GameState, localID int64) bool {
	if !st.TurnValid() {
		return false
	}
	return st.Players[st.CurrentTurnIndex].ID == localID
}

// CanCheck is true when the local player has already matched the table bet.
func CanCheck(st *api.GameState, localID int64) bool {
	p, ok := CurrentPlayer(st, localID)
	if !ok {
		return false
	}
	return p.CurrentBet == st.CurrentBet
}

// CallAmount is what the local player still owes to stay in the hand,
// never negative.
func CallAmount(st *api.GameState, localID int64) int64 {
	p, ok := CurrentPlayer(st, localID)
	if !ok {
		return 0
	}
	if owed := st.CurrentBet - p.CurrentBet; owed > 0 {
		return owed
	}
	return 0
}

// ValidateRaise checks a proposed raise against the big blind floor and the
// player's stack.
func ValidateRaise(st *api.GameState, localID int64, amount int64) error {
	p, ok := CurrentPlayer(st, localID)
	if !ok {
		return invalid("not seated at this table")
	}
	if amount < st.BigBlind {
		return invalid("raise %d below big blind %d", amount, st.BigBlind)
	}
	if amount > p.Chips {
		return invalid("raise %d exceeds stack %d", amount, p.Chips)
	}
	return nil
}

// Validate gates one proposed action before it is handed to the network.
func Validate(st *api.GameState, localID int64, action api.ActionType, amount int64) error {
	if st == nil {
		return invalid("no table state")
	}
	if !IsMyTurn(st, localID) {
		return invalid("not your turn")
	}
	switch action {
	case api.ActionFold, api.ActionCall, api.ActionAllIn:
		return nil
	case api.ActionCheck:
		if !CanCheck(st, localID) {
			return invalid("cannot check facing a bet of %d", st.CurrentBet)
		}
		return nil
	case api.ActionRaise:
		return ValidateRaise(st, localID, amount)
	default:
		return invalid("unknown action %q", action)
	}
}
