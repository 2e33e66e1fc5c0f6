package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is loaded once, before anything else runs, and is never mutated
// afterwards. Components read from it explicitly rather than carrying their
// own ambient settings.
var Config = load()

func load() NewsdeskConfig {
	cfg := NewsdeskConfig{
		Env:         Dev,
		Addr:        "localhost:9001",
		PrivateAddr: "localhost:9002",
		BaseUrl:     "http://localhost:9001",
		LogLevel:    "info",
		Postgres: PostgresConfig{
			User:     "newsdesk",
			Password: "password",
			Hostname: "localhost",
			Port:     5432,
			DbName:   "newsdesk",
			LogLevel: "warn",
			MinConn:  2,
			MaxConn:  10,
		},
		Editorial: EditorialConfig{
			PublishSweepSpec: "* * * * *",
		},
	}

	path := os.Getenv("NEWSDESK_CONFIG")
	if path == "" {
		path = "newsdesk.yaml"
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg
		}
		panic(fmt.Errorf("failed to read config file %s: %w", path, err))
	}

	err = yaml.Unmarshal(contents, &cfg)
	if err != nil {
		panic(fmt.Errorf("failed to parse config file %s: %w", path, err))
	}

	return cfg
}
