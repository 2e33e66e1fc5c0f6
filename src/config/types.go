package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type NewsdeskConfig struct {
	Env         Environment `yaml:"env"`
	Addr        string      `yaml:"addr"`
	PrivateAddr string      `yaml:"private_addr"`
	BaseUrl     string      `yaml:"base_url"`
	LogLevel    string      `yaml:"log_level"`

	Postgres  PostgresConfig  `yaml:"postgres"`
	Editorial EditorialConfig `yaml:"editorial"`
}

func (c NewsdeskConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	DbName   string `yaml:"dbname"`
	LogLevel string `yaml:"log_level"`
	MinConn  int32  `yaml:"min_conn"`
	MaxConn  int32  `yaml:"max_conn"`
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

func (info PostgresConfig) TraceLogLevel() tracelog.LogLevel {
	level, err := tracelog.LogLevelFromString(info.LogLevel)
	if err != nil {
		return tracelog.LogLevelWarn
	}
	return level
}

type EditorialConfig struct {
	// Cron spec for the scheduled-publish sweep.
	PublishSweepSpec string `yaml:"publish_sweep_spec"`
}
