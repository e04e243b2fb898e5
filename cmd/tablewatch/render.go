package main

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"poker-miniapp/internal/actiongate"
	"poker-miniapp/internal/api"
	"poker-miniapp/internal/tablesync"
)

// renderSnapshot lays the table out as pterm panels: opponents on top, the
// board in the middle, the local player and any banner at the bottom.
func renderSnapshot(snap tablesync.Snapshot, localID int64) string {
	if snap.TableGone {
		return pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1).
			WithTitle(pterm.LightRed("|TABLE CLOSED|")).WithTitleTopCenter().
			Sprintf("Table %s no longer exists", snap.TableID)
	}
	if snap.State == nil {
		text := pterm.Sprintf("Waiting for the first state of table %s ...", pterm.LightCyan(snap.TableID))
		if snap.TransientErr != "" {
			text += "\n" + pterm.LightRed(snap.TransientErr)
		}
		return text
	}
	st := snap.State

	var opponents []pterm.Panel
	var mine pterm.Panel
	for i, p := range st.Players {
		turn := i == st.CurrentTurnIndex
		if p.ID == localID {
			mine = pterm.Panel{Data: playerBox(p, st, true, turn)}
			continue
		}
		opponents = append(opponents, pterm.Panel{Data: playerBox(p, st, false, turn)})
	}

	if mine.Data == "" {
		mine.Data = pterm.Cyan("Spectating")
	}
	bottom := []pterm.Panel{mine}
	if hint := hintBox(st, localID); hint != "" {
		bottom = append(bottom, pterm.Panel{Data: hint})
	}
	if snap.TransientErr != "" {
		bottom = append(bottom, pterm.Panel{Data: bannerBox(snap.TransientErr)})
	}

	out, err := pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		opponents,
		{{Data: boardBox(st)}},
		bottom,
	}).Srender()
	if err != nil {
		return err.Error()
	}
	return out
}

func playerBox(p api.Player, st *api.GameState, main, turn bool) string {
	hpadding := 4
	if main {
		hpadding = 10
	}
	pbox := pterm.DefaultBox.WithLeftPadding(hpadding).WithRightPadding(hpadding).WithTopPadding(1).WithBottomPadding(1)

	title := p.Name
	if turn {
		title = pterm.LightYellow("> " + p.Name)
	}

	var status string
	switch {
	case p.Folded:
		status = pterm.LightRed("Folded")
	case p.Status == api.StatusAllIn:
		status = pterm.LightYellow("All-in")
	case st.Phase == api.PhaseWaiting && st.ReadyPlayers[p.ID]:
		status = pterm.LightGreen("Ready")
	case st.Phase == api.PhaseWaiting:
		status = pterm.Cyan("Waiting")
	default:
		status = pterm.LightGreen("Active")
	}

	body := pterm.Sprintf("%s\nBet: %d\nChips: %d", status, p.CurrentBet, p.Chips)
	if len(p.Cards) > 0 {
		body += "\n" + pterm.BgGreen.Sprintf(" %s ", strings.Join(p.Cards, " "))
	}
	if st.WinnerID != nil && *st.WinnerID == p.ID {
		body += "\n" + pterm.LightGreen("Winner")
	}
	return pbox.WithTitle(title).WithTitleTopLeft().Sprintf("%s", body)
}

func boardBox(st *api.GameState) string {
	board := strings.Join(st.CommunityCards, " - ")
	if board == "" {
		board = "no community cards"
	}
	line := pterm.Sprintf(" %s | Pot: %d | Bet: %d | %s ", board, st.Pot, st.CurrentBet, st.Phase)
	return pterm.BgGreen.Sprint("\n" + line + "\n")
}

// hintBox summarises what the local player may do right now.
func hintBox(st *api.GameState, localID int64) string {
	if !actiongate.IsMyTurn(st, localID) {
		if i := st.CurrentTurnIndex; st.TurnValid() && i < len(st.Players) {
			return pterm.Sprintf("Waiting for %s ...", pterm.LightCyan(st.Players[i].Name))
		}
		return ""
	}
	hints := []string{pterm.LightYellow("Your turn")}
	if actiongate.CanCheck(st, localID) {
		hints = append(hints, "you may check")
	}
	if call := actiongate.CallAmount(st, localID); call > 0 {
		hints = append(hints, "call costs "+strconv.FormatInt(call, 10))
	}
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return pbox.WithTitle(pterm.LightYellow("|ACTION|")).WithTitleTopCenter().
		Sprintf("%s", strings.Join(hints, ", "))
}

func bannerBox(msg string) string {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	return pbox.WithTitle(pterm.LightRed("|CONNECTION|")).WithTitleTopCenter().
		Sprintf("%s", pterm.LightRed(msg))
}
