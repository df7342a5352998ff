package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta             = "beta"
	Dev              = "dev"
)

type RHConfig struct {
	Env      Environment
	Addr     string
	BaseUrl  string
	LogLevel zerolog.Level

	Postgres PostgresConfig
	Auth     AuthConfig
	Notify   NotifyConfig
	Wiki     WikiConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

type AuthConfig struct {
	CookieDomain string
	CookieSecure bool
}

type NotifyConfig struct {
	// Endpoints that new_thread / new_post / registration events are posted
	// to. Empty string disables a channel.
	TelegramWebhookUrl string
	IRCWebhookUrl      string
	DiscordWebhookUrl  string
}

type WikiConfig struct {
	// DokuWiki XML-RPC endpoint. Empty disables wiki article fetching.
	Url      string
	User     string
	Password string
}
