package main

import (
	"strings"
	"testing"

	"poker-miniapp/internal/api"
	"poker-miniapp/internal/tablesync"
)

func renderedState() *api.GameState {
	return &api.GameState{
		GameID: "T1",
		Players: []api.Player{
			{ID: 1, Name: "Alice", Chips: 900, CurrentBet: 40},
			{ID: 2, Name: "Bob", Chips: 500, CurrentBet: 20},
		},
		Pot:              60,
		CommunityCards:   []string{"Ah", "Kd", "7s"},
		CurrentTurnIndex: 1,
		Phase:            api.PhaseFlop,
		CurrentBet:       40,
		BigBlind:         20,
	}
}

func TestRenderSnapshotTableGone(t *testing.T) {
	out := renderSnapshot(tablesync.Snapshot{TableID: "T9", TableGone: true}, 2)
	if !strings.Contains(out, "T9") {
		t.Fatalf("render = %q, want mention of table T9", out)
	}
}

func TestRenderSnapshotNoStateShowsBanner(t *testing.T) {
	out := renderSnapshot(tablesync.Snapshot{TableID: "T1", TransientErr: "connection refused"}, 2)
	if !strings.Contains(out, "connection refused") {
		t.Fatalf("render = %q, want transient error surfaced", out)
	}
}

func TestRenderSnapshotShowsPlayersAndTurn(t *testing.T) {
	out := renderSnapshot(tablesync.Snapshot{TableID: "T1", State: renderedState()}, 2)
	for _, want := range []string{"Alice", "Bob", "Your turn", "call costs 20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderSnapshotWaitingForOpponent(t *testing.T) {
	out := renderSnapshot(tablesync.Snapshot{TableID: "T1", State: renderedState()}, 1)
	if !strings.Contains(out, "Waiting for Bob") {
		t.Fatalf("render = %q, want waiting-for-opponent hint", out)
	}
}

func TestPromptKeyChangesWithBet(t *testing.T) {
	st := renderedState()
	a := promptKey(st)
	st.CurrentBet = 80
	if b := promptKey(st); a == b {
		t.Fatalf("promptKey did not change when the bet moved: %q", a)
	}
}
