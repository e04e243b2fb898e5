package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ClientConfig struct {
	BaseURL        string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	InitData       string        `env:"TELEGRAM_INIT_DATA"`
	DevUserID      int64         `env:"DEV_USER_ID" envDefault:"1"`
	PollIntervalMS int           `env:"POLL_INTERVAL_MS" envDefault:"2000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// PollInterval converts the millisecond knob into a duration, clamping
// absurd values to something the backend can live with.
func (c ClientConfig) PollInterval() time.Duration {
	if c.PollIntervalMS < 250 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}
