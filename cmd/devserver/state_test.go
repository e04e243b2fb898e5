package main

import (
	"encoding/json"
	"sync"
	"testing"

	"poker-miniapp/internal/api"
	"poker-miniapp/internal/config"
)

func testHubConfig() config.DevServerConfig {
	return config.DevServerConfig{
		SmallBlind: 10,
		BigBlind:   20,
		StartChips: 1000,
		SeedTables: 1,
	}
}

func TestGameStateSnapshotIsDetached(t *testing.T) {
	h := newHub(testHubConfig())
	if err := h.join("T1", 1, "p1"); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if err := h.join("T1", 2, "p2"); err != nil {
		t.Fatalf("join p2: %v", err)
	}

	snap, err := h.gameState("T1")
	if err != nil {
		t.Fatalf("gameState: %v", err)
	}

	if err := h.ready("T1", 1); err != nil {
		t.Fatalf("ready p1: %v", err)
	}
	if snap.ReadyPlayers[1] {
		t.Fatal("snapshot shares the ready set with the live table")
	}

	// second ready starts the hand and posts blinds into the seats
	if err := h.ready("T1", 2); err != nil {
		t.Fatalf("ready p2: %v", err)
	}
	if snap.Players[0].Chips != 1000 || snap.Players[0].CurrentBet != 0 {
		t.Fatalf("snapshot seats mutated by the live hand: %+v", snap.Players[0])
	}
	if snap.Phase != api.PhaseWaiting {
		t.Fatalf("snapshot phase = %q, want the pre-hand waiting phase", snap.Phase)
	}
}

func TestGameStateSnapshotSafeToMarshalConcurrently(t *testing.T) {
	h := newHub(testHubConfig())
	if err := h.join("T1", 1, "p1"); err != nil {
		t.Fatalf("join p1: %v", err)
	}
	if err := h.join("T1", 2, "p2"); err != nil {
		t.Fatalf("join p2: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap, err := h.gameState("T1")
			if err != nil {
				t.Errorf("gameState: %v", err)
				return
			}
			if _, err := json.Marshal(snap); err != nil {
				t.Errorf("marshal snapshot: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = h.ready("T1", 1)
			_ = h.ready("T1", 2)
			st, err := h.gameState("T1")
			if err != nil {
				t.Errorf("gameState: %v", err)
				return
			}
			if st.TurnValid() {
				_ = h.action("T1", st.Players[st.CurrentTurnIndex].ID, api.ActionFold, 0)
			}
		}
	}()
	wg.Wait()
}
