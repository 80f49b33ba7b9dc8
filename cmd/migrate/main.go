package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/raynet-care/care-api/migrations"
)

type dbConfig struct {
	Host     string `default:"localhost"`
	Port     int    `default:"5432"`
	User     string `default:"care"`
	Password string `default:"care"`
	Name     string `default:"care_api"`
	SSLMode  string `default:"disable" split_words:"true"`
}

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var cfg dbConfig
	if err := envconfig.Process("database", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to read database config")
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set dialect")
	}

	switch command {
	case "up":
		err = goose.Up(db, ".")
	case "down":
		err = goose.Down(db, ".")
	case "status":
		err = goose.Status(db, ".")
	default:
		log.Fatal().Str("command", command).Msg("unknown command")
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}

	log.Info().Str("command", command).Msg("migrations applied")
}
