package config

import "github.com/caarlos0/env/v11"

type DevServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	SmallBlind int64 `env:"DEV_SMALL_BLIND" envDefault:"10"`
	BigBlind   int64 `env:"DEV_BIG_BLIND" envDefault:"20"`
	StartChips int64 `env:"DEV_START_CHIPS" envDefault:"1000"`
	SeedTables int   `env:"DEV_SEED_TABLES" envDefault:"2"`
}

func LoadDevServer() (DevServerConfig, error) {
	var cfg DevServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
