package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/gantt/internal/backend"
	"github.com/alexanderramin/gantt/internal/cli"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/logutils"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file from GANTT_CONFIG or ~/.gantt/config.{yaml,yml,toml};
	// GANTT_* variables override it.
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := logutils.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	bundle := backend.NewBundle(database,
		backend.WithObservers(service.NewLogUseCaseObserver(log)),
		backend.WithTxLogger(log),
	)
	local := backend.NewLocal(bundle.Services(),
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLogger(log),
	)

	app := &cli.App{
		Users:         bundle.Users,
		Activities:    bundle.Activities,
		Topics:        bundle.Topics,
		SubTasks:      bundle.SubTasks,
		Gantt:         bundle.Gantt,
		Notifications: bundle.Notifications,
		Imports:       bundle.Imports,
		Store:         store.New(local, store.WithLogger(log)),
		Config:        cfg,
		Log:           log,
		Now:           time.Now,
	}

	log.Debug().Str("db", cfg.DBPath).Str("config", cfg.Source).Msg("starting")
	return cli.NewRootCmd(app).Execute()
}
