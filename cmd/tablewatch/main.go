package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"

	"poker-miniapp/internal/actiongate"
	"poker-miniapp/internal/api"
	"poker-miniapp/internal/config"
	"poker-miniapp/internal/gateway"
	"poker-miniapp/internal/identity"
	"poker-miniapp/internal/logging"
	"poker-miniapp/internal/tablesync"
)

func main() {
	tableFlag := flag.String("table", "", "table id to join (interactive pick when empty)")
	statsFlag := flag.Bool("stats", false, "print account stats and exit")
	bonusFlag := flag.Bool("claim-bonus", false, "claim the daily bonus before joining")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := identity.EnvSource{}
	client := api.NewClient(gateway.New(cfg.Client, src))
	id := identity.Resolve(src)
	localID := identity.UserID(id, cfg.Client.DevUserID)

	if session, err := client.Login(ctx, src.InitData()); err == nil {
		localID = session.UserID
		pterm.Info.Printfln("Signed in as %s (#%d)", pterm.LightCyan(session.Username), session.UserID)
	} else {
		log.Warn().Err(err).Msg("login failed, continuing unauthenticated")
		pterm.Warning.Printfln("Login failed: %v", err)
	}

	if *statsFlag {
		if err := printStats(ctx, client); err != nil {
			pterm.Error.Printfln("Stats unavailable: %v", err)
			os.Exit(1)
		}
		return
	}
	if *bonusFlag {
		if bonus, err := client.ClaimBonus(ctx); err != nil {
			pterm.Warning.Printfln("Bonus not claimed: %v", err)
		} else if bonus.Success {
			pterm.Success.Printfln("Claimed %d chips", bonus.Amount)
		} else {
			pterm.Info.Printfln("Bonus not available: %s (next claim %s)", bonus.Message, bonus.NextClaimAt)
		}
	}

	tableID := *tableFlag
	if tableID == "" {
		tableID, err = pickTable(ctx, client)
		if err != nil {
			pterm.Error.Printfln("No table to watch: %v", err)
			os.Exit(1)
		}
	}

	if err := client.JoinTable(ctx, tableID); err != nil {
		pterm.Error.Printfln("Join %s failed: %v", tableID, err)
		os.Exit(1)
	}
	if err := client.Ready(ctx, tableID); err != nil {
		log.Warn().Err(err).Str("table_id", tableID).Msg("ready failed")
	}

	if err := watch(ctx, client, tableID, localID, cfg.Client); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func pickTable(ctx context.Context, client *api.Client) (string, error) {
	tables, err := client.ListTables(ctx)
	if err != nil {
		return "", err
	}
	if len(tables) == 0 {
		return "", fmt.Errorf("no open tables")
	}
	options := make([]string, 0, len(tables))
	byOption := make(map[string]string, len(tables))
	for _, t := range tables {
		label := pterm.Sprintf("%s | %s (%d/%d, stakes %d, %s)",
			t.ID, t.Name, t.PlayersCount, t.MaxPlayers, t.Stakes, t.Status)
		options = append(options, label)
		byOption[label] = t.ID
	}
	choice, err := pterm.DefaultInteractiveSelect.
		WithDefaultText("Select a table").
		WithOptions(options).Show()
	if err != nil {
		return "", err
	}
	return byOption[choice], nil
}

// watch runs the polling loop until the table ends or the context is
// cancelled, prompting for an action whenever it is the local player's turn.
func watch(ctx context.Context, client *api.Client, tableID string, localID int64, cfg config.ClientConfig) error {
	snaps := make(chan tablesync.Snapshot, 16)
	watcher := tablesync.New(client, cfg.PollInterval(), tablesync.WithOnChange(func(s tablesync.Snapshot) {
		select {
		case snaps <- s:
		default: // renderer is behind, drop the stale frame
		}
	}))
	watcher.SelectTable(ctx, tableID)
	defer watcher.Deselect()

	area, _ := pterm.DefaultArea.WithFullscreen().Start()

	lastPrompt := ""
	for {
		select {
		case <-ctx.Done():
			area.Stop()
			leaveCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
			defer cancel()
			if err := client.LeaveTable(leaveCtx, tableID); err != nil {
				log.Warn().Err(err).Str("table_id", tableID).Msg("leave failed")
			}
			return nil
		case snap := <-snaps:
			area.Update(renderSnapshot(snap, localID))
			if snap.TableGone {
				area.Stop()
				pterm.Info.Printfln("Table %s is gone", tableID)
				return nil
			}
			if snap.State == nil || !actiongate.IsMyTurn(snap.State, localID) {
				continue
			}
			// one prompt per decision point, not per poll
			key := promptKey(snap.State)
			if key == lastPrompt {
				continue
			}
			lastPrompt = key
			area.Stop()
			if err := promptAction(ctx, client, snap.State, localID); err != nil {
				pterm.Error.Printfln("Action rejected: %v", err)
			}
			area, _ = pterm.DefaultArea.WithFullscreen().Start()
		}
	}
}

func promptKey(st *api.GameState) string {
	return fmt.Sprintf("%s|%s|%d|%d", st.GameID, st.Phase, st.CurrentTurnIndex, st.CurrentBet)
}

// promptAction asks for a legal move and submits it. Illegal picks loop back
// to the menu instead of hitting the backend.
func promptAction(ctx context.Context, client *api.Client, st *api.GameState, localID int64) error {
	options := []string{"Fold"}
	if actiongate.CanCheck(st, localID) {
		options = append(options, "Check")
	}
	if call := actiongate.CallAmount(st, localID); call > 0 {
		options = append(options, pterm.Sprintf("Call %d", call))
	}
	options = append(options, "Raise", "All-in")

	for {
		choice, err := pterm.DefaultInteractiveSelect.
			WithDefaultText("Your turn: select an action").
			WithOptions(options).Show()
		if err != nil {
			return err
		}
		action, amount := api.ActionFold, int64(0)
		switch {
		case choice == "Fold":
			action = api.ActionFold
		case choice == "Check":
			action = api.ActionCheck
		case choice == "Raise":
			raw, err := pterm.DefaultInteractiveTextInput.
				WithDefaultText("Enter the raise amount").Show()
			if err != nil {
				return err
			}
			amount, err = strconv.ParseInt(raw, 10, 64)
			if err != nil {
				pterm.Error.Printfln("Not a number: %s", raw)
				continue
			}
			action = api.ActionRaise
		case choice == "All-in":
			action = api.ActionAllIn
		default:
			action = api.ActionCall
		}
		if err := actiongate.Validate(st, localID, action, amount); err != nil {
			pterm.Error.Printfln("Invalid action: %v", err)
			continue
		}
		return client.SubmitAction(ctx, st.GameID, action, amount)
	}
}

func printStats(ctx context.Context, client *api.Client) error {
	stats, err := client.UserStats(ctx)
	if err != nil {
		return err
	}
	settings, err := client.UserSettings(ctx)
	if err != nil {
		return err
	}
	rows := pterm.TableData{
		{"Hands played", strconv.Itoa(stats.HandsPlayed)},
		{"Hands won", strconv.Itoa(stats.HandsWon)},
		{"Total profit", strconv.FormatInt(stats.TotalProfit, 10)},
		{"Biggest pot won", strconv.FormatInt(stats.BiggestPotWon, 10)},
		{"Current streak", strconv.Itoa(stats.CurrentStreak)},
	}
	if settings.Balance != nil {
		rows = append(rows, []string{"Balance", strconv.FormatInt(*settings.Balance, 10)})
	}
	return pterm.DefaultTable.WithData(rows).Render()
}
