package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"blockotchi/internal/config"
	"blockotchi/internal/feed"
	"blockotchi/internal/logging"
	"blockotchi/internal/metrics"
	"blockotchi/internal/payment"
	"blockotchi/internal/pet"
	"blockotchi/internal/server"
	"blockotchi/internal/store"
	"blockotchi/internal/ui"
)

type options struct {
	configPath string
	serve      bool
	stats      bool
	wallet     string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("blockotchi", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config.toml (default ~/.config/blockotchi/config.toml)")
	fs.BoolVar(&opts.serve, "serve", false, "serve the HTTP API instead of the terminal UI")
	fs.BoolVar(&opts.stats, "stats", false, "show the pet's stats card and exit")
	fs.StringVar(&opts.wallet, "wallet", "", "Solana wallet address whose activity grows the pet")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.serve && opts.stats {
		return options{}, errors.New("-serve and -stats cannot be combined")
	}
	return opts, nil
}

// openStore opens the configured snapshot store. The closer is nil when the
// store holds no resources.
func openStore(cfg config.StoreConfig) (pet.Store, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil, nil
	case config.BackendSQLite:
		db, err := store.NewSQLite(cfg.Path, cfg.Slot)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.BackendFile:
		f, err := store.NewFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	return config.Load(path)
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser := logging.Setup(logging.Options{
		Service:    "blockotchi",
		Env:        cfg.Log.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: 3,
	})
	defer logCloser.Close()

	st, storeCloser, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if storeCloser != nil {
		defer storeCloser.Close()
	}

	fees := cfg.Fees()
	lamports, err := fees.Lamports()
	if err != nil {
		return fmt.Errorf("fees: %w", err)
	}

	rec := metrics.New()
	engine, err := pet.Open(pet.Options{
		Store:    st,
		Payments: payment.NewDevGateway(cfg.Payments.TreasuryAddress, logger),
		Fees:     lamports,
		Metrics:  rec,
	})
	if err != nil {
		return err
	}
	defer engine.Close()
	logger.Info("pet loaded", slog.String("session", engine.Session()), slog.String("store", cfg.Store.Backend))

	if opts.stats {
		return ui.DisplayStats(engine.Snapshot())
	}

	wallet := opts.wallet
	if wallet == "" {
		wallet = cfg.Feed.WalletAddress
	}
	if wallet != "" {
		engine.TrackWallet(wallet)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Engine stopped: %v", err)
		}
	}()

	if cfg.Feed.RPCEndpoint != "" {
		counter, err := feed.DialSolana(ctx, cfg.Feed.RPCEndpoint, cfg.Feed.RequestsPerSecond)
		if err != nil {
			logger.Warn("wallet feed disabled", slog.Any("error", err))
		} else {
			defer counter.Close()
			poller := &feed.Poller{
				Counter:  counter,
				Target:   engine,
				Interval: time.Duration(cfg.Feed.PollIntervalSeconds) * time.Second,
				Logger:   logger,
				Recorder: rec,
			}
			go poller.Run(ctx)
		}
	}

	if opts.serve {
		return server.New(engine, rec, logger).ListenAndServe(ctx, cfg.Server.ListenAddress)
	}
	return ui.Run(ui.NewModel(engine, fees))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "blockotchi: %v\n", err)
		stop()
		os.Exit(1)
	}
}
