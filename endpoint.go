package main

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// Endpoint identifies one MySQL deployment. Two instances exist per run
// (source and destination); both are immutable once the config is loaded.
type Endpoint struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// Addr returns host:port for logging and error context.
func (e Endpoint) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// DSN builds the driver DSN for this endpoint. The connection always uses
// utf8mb4 so 4-byte characters survive the copy, and interpolates parameters
// client-side so multi-row inserts are not limited by server-side prepared
// statement placeholder counts.
func (e Endpoint) DSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = e.Addr()
	cfg.User = e.User
	cfg.Passwd = e.Password
	cfg.DBName = e.Database
	cfg.InterpolateParams = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}
