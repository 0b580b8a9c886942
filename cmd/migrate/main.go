// Command migrate applies the relational schema with goose. The DSN comes
// from the same config.yaml (plus APP_ env overrides) the server uses, so the
// two can never drift apart.
//
// Usage:
//
//	migrate [-dir migrations] up|down|status|version
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/catalog-service/internal/config"
	"github.com/pressly/goose/v3"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		log.Fatal("missing goose command (up, down, status, version)")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config loading failed: %v", err)
	}

	pg := cfg.Postgres
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User, pg.Password, pg.Host, pg.Port, pg.DBName, pg.SSLMode)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("set dialect: %v", err)
	}

	if err := goose.Run(args[0], db, *dir, args[1:]...); err != nil {
		log.Fatalf("goose %s: %v", args[0], err)
	}
	os.Exit(0)
}
