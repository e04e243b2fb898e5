package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"poker-miniapp/internal/api"
	"poker-miniapp/internal/identity"
)

func writeHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// authUserID mirrors the dev auth model the client targets: init data
// header first, explicit user_id query as the fallback. No signature
// verification here; this server never leaves a developer's machine.
func authUserID(r *http.Request) (int64, bool) {
	if payload := r.Header.Get(identity.HeaderInitData); payload != "" {
		id := identity.Identity{Mode: identity.ModeTelegram, Credential: payload}
		if uid := identity.UserID(id, 0); uid != 0 {
			return uid, true
		}
	}
	if raw := r.URL.Query().Get(identity.QueryUserID); raw != "" {
		if uid, err := strconv.ParseInt(raw, 10, 64); err == nil && uid > 0 {
			return uid, true
		}
	}
	return 0, false
}

func requireUser(next func(w http.ResponseWriter, r *http.Request, userID int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := authUserID(r)
		if !ok {
			writeHTTPError(w, http.StatusUnauthorized, "auth_required")
			return
		}
		next(w, r, uid)
	}
}

func tablesHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, _ *http.Request, _ int64) {
		writeJSON(w, map[string]any{"tables": h.listTables()})
	})
}

func joinTableHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, uid int64) {
		tableID := chi.URLParam(r, "table_id")
		if err := h.join(tableID, uid, "player-"+strconv.FormatInt(uid, 10)); err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, map[string]any{"success": true, "game_id": tableID})
	})
}

func gameStateHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, _ int64) {
		st, err := h.gameState(chi.URLParam(r, "table_id"))
		if err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, st)
	})
}

func readyHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, uid int64) {
		var body struct {
			GameID string `json:"game_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GameID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.ready(body.GameID, uid); err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, map[string]any{"success": true})
	})
}

func actionHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, uid int64) {
		var body struct {
			GameID string         `json:"game_id"`
			Action api.ActionType `json:"action"`
			Amount int64          `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GameID == "" {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if err := h.action(body.GameID, uid, body.Action, body.Amount); err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, map[string]any{"success": true, "action": body.Action})
	})
}

func leaveHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, uid int64) {
		if err := h.leave(chi.URLParam(r, "table_id"), uid); err != nil {
			writeHubError(w, err)
			return
		}
		writeJSON(w, map[string]any{"success": true})
	})
}

func loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			InitData string `json:"init_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		id := identity.Resolve(identity.StaticSource(body.InitData))
		uid := identity.UserID(id, 0)
		if uid == 0 {
			writeHTTPError(w, http.StatusUnauthorized, "auth_required")
			return
		}
		writeJSON(w, api.Session{
			Token:    newToken(),
			UserID:   uid,
			Username: "player-" + strconv.FormatInt(uid, 10),
		})
	}
}

func settingsHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, r *http.Request, uid int64) {
		if r.Method == http.MethodGet {
			writeJSON(w, h.userSettings(uid))
			return
		}
		var in api.Settings
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		writeJSON(w, h.saveUserSettings(uid, in))
	})
}

func statsHandler() http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, _ *http.Request, _ int64) {
		// canned numbers: enough for the stats panel to render
		writeJSON(w, api.Stats{
			HandsPlayed:   342,
			HandsWon:      97,
			TotalProfit:   1520,
			BiggestPotWon: 640,
			AvgStake:      2,
			CurrentStreak: 3,
			HandDistribution: map[string]int{
				"High Card": 110, "Pair": 96, "Two Pair": 58,
			},
		})
	})
}

func bonusHandler(h *hub) http.HandlerFunc {
	return requireUser(func(w http.ResponseWriter, _ *http.Request, uid int64) {
		writeJSON(w, h.claimBonus(uid))
	})
}

func writeHubError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errTableNotFound):
		writeHTTPError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errNotSeated), errors.Is(err, errNotYourTurn), errors.Is(err, errBadAction):
		writeHTTPError(w, http.StatusBadRequest, err.Error())
	default:
		writeHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}
