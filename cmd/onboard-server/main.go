// Command onboard-server runs the basic info and details mock services
// backed by one SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"onboard/internal/config"
	"onboard/internal/server"
	"onboard/internal/store"
)

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	basicInfoAddr string
	detailsAddr   string
	dbPath        string
	seedPath      string
	latency       time.Duration
	verbose       bool
}

func parseOptions(args []string, stderr io.Writer) (serverOptions, error) {
	fs := flag.NewFlagSet("onboard-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts serverOptions
	fs.StringVar(&opts.basicInfoAddr, "basic-info-addr", config.GetString(config.KeyServerBasicInfoAddr), "Listen address of the basic info service")
	fs.StringVar(&opts.detailsAddr, "details-addr", config.GetString(config.KeyServerDetailsAddr), "Listen address of the details service")
	fs.StringVar(&opts.dbPath, "db", config.GetString(config.KeyServerDBPath), "SQLite database path (empty keeps data in memory)")
	fs.StringVar(&opts.seedPath, "seed", config.GetString(config.KeyServerSeed), "TOML seed loaded into an empty database (empty uses the built-in seed)")
	fs.DurationVar(&opts.latency, "latency", config.GetDuration(config.KeyServerLatency), "Artificial delay added to every response")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		return serverOptions{}, err
	}
	opts.dbPath = strings.TrimSpace(opts.dbPath)
	if opts.dbPath == "" {
		opts.dbPath = ":memory:"
	}
	if opts.latency < 0 {
		opts.latency = 0
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	seed, err := store.LoadSeed(strings.TrimSpace(opts.seedPath))
	if err != nil {
		return err
	}
	st, err := store.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = st.Close()
	}()

	// A half-imported seed would leave the database neither empty nor usable.
	seeded, err := st.SeedIfEmpty(context.WithoutCancel(ctx), seed)
	if err != nil {
		return err
	}
	logger.Info("database ready", "path", opts.dbPath, "seeded", seeded)

	return server.Run(ctx, st, server.Options{
		BasicInfoAddr: opts.basicInfoAddr,
		DetailsAddr:   opts.detailsAddr,
		Latency:       opts.latency,
		Logger:        logger,
	})
}
