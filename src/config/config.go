package config

import (
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Deployment-specific values live here. Edit for your environment; the
// defaults are suitable for local development against a stock postgres.
var Config = RHConfig{
	Env:      Dev,
	Addr:     ":9001",
	BaseUrl:  "http://localhost:9001",
	LogLevel: zerolog.TraceLevel,

	Postgres: PostgresConfig{
		User:     "rhforum",
		Password: "password",
		Hostname: "localhost",
		Port:     5432,
		DbName:   "rhforum",
		LogLevel: tracelog.LogLevelWarn,
		MinConn:  2,
		MaxConn:  10,
	},

	Auth: AuthConfig{
		CookieDomain: "localhost",
		CookieSecure: false,
	},

	Notify: NotifyConfig{},

	Wiki: WikiConfig{},
}
