package config

import "github.com/caarlos0/env/v11"

// LogConfig drives the zerolog bootstrap. The table watcher draws its UI on
// stdout, so anything chatty should go to a capped log file via LOG_FILE;
// SampleEvery thins the per-poll debug lines a long session emits on every
// interval.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	FileMaxMB   int    `env:"LOG_FILE_MAX_MB" envDefault:"20"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}
