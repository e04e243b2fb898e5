package identity

import (
	"encoding/json"
	"net/url"
)

// UserID extracts the numeric user id embedded in a Telegram init data
// payload. Init data is a query string whose "user" field holds URL-encoded
// JSON, e.g. "query_id=...&user=%7B%22id%22%3A7%2C...%7D&hash=...". The id
// is needed locally to recognise the player's own seat; the server performs
// its own verification of the same payload.
//
// Dev identities and unparseable payloads fall back to devID.
func UserID(id Identity, devID int64) int64 {
	if id.Mode != ModeTelegram {
		return devID
	}
	vals, err := url.ParseQuery(id.Credential)
	if err != nil {
		return devID
	}
	raw := vals.Get("user")
	if raw == "" {
		return devID
	}
	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == 0 {
		return devID
	}
	return user.ID
}
