package identity

import (
	"os"
	"strings"
)

// Request shape produced from a resolved identity: telegram mode rides in
// the header, dev mode in the query string.
const (
	HeaderInitData = "X-Telegram-Init-Data"
	QueryUserID    = "user_id"
)

type Mode string

const (
	ModeTelegram Mode = "telegram"
	ModeDev      Mode = "dev"
)

// Identity is the credential decision for one outgoing request. Mode is
// telegram iff a non-empty init data payload was available at resolution
// time; dev identities carry no credential and are presented as a fixed
// synthetic user id instead.
type Identity struct {
	Mode       Mode
	Credential string
}

// Source supplies the ambient Telegram init data payload. The payload can
// only appear, never change, within a session, but reads are cheap so
// Resolve never caches.
type Source interface {
	InitData() string
}

// StaticSource wraps a fixed payload, used by the web shell and tests.
type StaticSource string

func (s StaticSource) InitData() string { return string(s) }

// EnvSource reads the payload from TELEGRAM_INIT_DATA, for running the
// client outside a Telegram container.
type EnvSource struct{}

func (EnvSource) InitData() string { return os.Getenv("TELEGRAM_INIT_DATA") }

// Resolve decides which identity to present. Pure and side-effect free.
func Resolve(src Source) Identity {
	if src != nil {
		if payload := strings.TrimSpace(src.InitData()); payload != "" {
			return Identity{Mode: ModeTelegram, Credential: payload}
		}
	}
	return Identity{Mode: ModeDev}
}
