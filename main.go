package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mimi-order/bot"
	"mimi-order/config"
	"mimi-order/db"
	"mimi-order/httpapi"
	"mimi-order/metrics"
	"mimi-order/notify"
	"mimi-order/services"
	"mimi-order/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const usage = `mimi-order [flags] [serve|migrate|export]

  serve    run the HTTP API and, when TOKEN is set, the Telegram bot (default)
  migrate  apply the embedded SQL migrations to DB_*
  export   write one day of orders as CSV

Flags:
`

type orderStore interface {
	services.OrderLog
	services.TableHintStore
}

func main() {
	flags := pflag.NewFlagSet("mimi-order", pflag.ExitOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	envFile := flags.String("env-file", "", "dotenv file to load (default .env when present)")
	day := flags.String("day", "", "export: day key YYYY-MM-DD (default today)")
	query := flags.StringP("query", "q", "", "export: filter on name, phone or menu item")
	out := flags.StringP("out", "o", "", "export: output file, - for stdout (default mimi-orders-<day>.csv)")
	_ = flags.Parse(os.Args[1:])

	cmd := "serve"
	if flags.NArg() > 0 {
		cmd = flags.Arg(0)
	}

	var cfg *config.Config
	var err error
	if *envFile != "" {
		cfg, err = config.LoadFile(*envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "migrate":
		err = runMigrate(ctx, cfg, logger)
	case "export":
		err = runExport(ctx, cfg, logger, *day, *query, *out)
	default:
		flags.Usage()
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		logger.Error("exit", "action", cmd, "error", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With("service", "mimi-order")
}

// openStore returns the configured order log and a func releasing it.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (orderStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pool, err := db.Open(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := applyMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return storage.NewPostgres(pool), pool.Close, nil
	default:
		logger.Info("using local storage", "action", "open_store", "path", cfg.Storage.Path)
		return storage.NewLocal(cfg.Storage.Path), func() {}, nil
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	catalog, err := services.LoadCatalog(cfg.Store.MenuFile)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	opts := []services.Option{
		services.WithLocation(cfg.Store.Location),
		services.WithLogger(logger),
		services.WithNotifier(m),
	}

	if cfg.AMQP.URL != "" {
		kitchen, err := notify.DialKitchen(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("kitchen: %w", err)
		}
		defer kitchen.Close()
		opts = append(opts, services.WithNotifier(kitchen))
		logger.Info("kitchen tickets enabled", "action", "serve", "exchange", cfg.AMQP.Exchange)
	}

	var api *tgbotapi.BotAPI
	if cfg.Telegram.Token != "" {
		api, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("telegram: %w", err)
		}
		if cfg.Telegram.AdminID != 0 {
			opts = append(opts, services.WithNotifier(notify.NewTelegram(api, cfg.Telegram.AdminID, cfg.Store.Location)))
		}
	}

	orders := services.NewOrderService(store, opts...)

	g, ctx := errgroup.WithContext(ctx)
	srv := httpapi.New(httpapi.Deps{
		Catalog:           catalog,
		Orders:            orders,
		Hints:             store,
		Metrics:           m,
		Logger:            logger,
		AdminUser:         cfg.HTTP.AdminUser,
		AdminPasswordHash: cfg.HTTP.AdminPasswordHash,
	})
	g.Go(func() error {
		return srv.Run(ctx, cfg.HTTP.Addr)
	})

	if api != nil {
		b := bot.New(api, bot.Deps{
			Catalog: catalog,
			Orders:  orders,
			Hints:   store,
			Logger:  logger,
			AdminID: cfg.Telegram.AdminID,
		})
		g.Go(func() error {
			b.Start(ctx)
			return nil
		})
	} else {
		logger.Info("TOKEN not set, bot disabled", "action", "serve")
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	pool, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()
	return applyMigrations(ctx, pool, logger)
}

func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger, day, query, out string) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	orders := services.NewOrderService(store, services.WithLocation(cfg.Store.Location), services.WithLogger(logger))
	if day == "" {
		day = orders.Today()
	}
	list, err := orders.AdminOrders(ctx, day, strings.TrimSpace(query))
	if err != nil {
		return err
	}

	if out == "" {
		out = services.ExportFileName(day)
	}
	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := services.ExportCSV(w, list); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	logger.Info("orders exported", "action", "export", "day", day, "count", len(list), "out", out)
	return nil
}
