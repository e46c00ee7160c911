package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"enchanted-shop/config"
	"enchanted-shop/handler"
	"enchanted-shop/logger"
	"enchanted-shop/service"
	"enchanted-shop/store"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

//go:embed migrations.sql
var migrationSQL string

func main() {
	configPath := pflag.StringP("config", "c", "", "optional dotenv file layered under the environment")
	pflag.Parse()

	cf, err := config.Load(*configPath)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(logger.Options{Service: "enchanted-shop", Env: cf.AppEnv, Level: cf.LogLevel})

	if err := run(cf, log); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("closed completed")
}

func run(cf *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cf, log)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cf.StoreDriver, err)
	}
	defer st.Close()

	h := handler.NewHandler(
		service.NewCatalogService(st, log),
		service.NewCartService(st, log),
		service.NewCustomerService(st, log),
		st,
		log,
	)

	srv := &http.Server{
		Addr:              cf.Addr(),
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cf.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cf *config.Config, log zerolog.Logger) (store.Store, error) {
	if cf.StoreDriver == config.DriverMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.NewPostgresStore(cf.DSN())
	if err != nil {
		return nil, err
	}
	if cf.RunMigrations {
		if err := pg.Migrate(ctx, migrationSQL); err != nil {
			_ = pg.Close()
			return nil, err
		}
		log.Info().Msg("database migrations executed successfully")
	}
	return pg, nil
}
