// Command shelfstore runs the bookstore API: it wires the Redis Stack
// backend, runs the one-time search/suggestion bootstrap, and serves HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shelfstore/shelfstore"
	"github.com/shelfstore/shelfstore/internal/httpapi"
)

func main() {
	logger, err := shelfstore.NewProductionZapLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *shelfstore.ZapLogger) error {
	cfg := shelfstore.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// One explicit client handle for the whole process; the pool inside it
	// bounds concurrent backend connections.
	client := redis.NewClient(shelfstore.RedisOptions())
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	metrics := shelfstore.NewPrometheusMetrics(nil)

	backend := shelfstore.NewRedisJSONBackend(client)
	docs := shelfstore.NewDocStoreWithObservability(backend, logger, metrics)
	collections := shelfstore.NewCollectionIndexWithObservability(client, logger, metrics)

	books := shelfstore.NewBookRepository(docs, collections).WithLogger(logger)
	users := shelfstore.NewUserRepository(docs, collections,
		shelfstore.NewSecondaryIndexWithObservability(client, logger, metrics)).WithLogger(logger)
	carts := shelfstore.NewCartRepository(docs, collections,
		shelfstore.NewSecondaryIndexWithObservability(client, logger, metrics)).WithLogger(logger)
	service := shelfstore.NewCartService(carts, books, users, backend).WithLogger(logger)
	searcher := shelfstore.NewBookSearcher(client, cfg.SearchIndexName, cfg.AutocompleteKey, logger).
		WithMetrics(metrics)

	// Provision search surfaces before accepting traffic
	provisioner := shelfstore.NewSearchIndexProvisioner(client, cfg.SearchIndexName, logger)
	suggestions := shelfstore.NewSuggestionDictionaryBuilder(
		client, books, cfg.AutocompleteKey, cfg.SuggestTimeout, logger).WithMetrics(metrics)
	// Absence-class results are survivable during bootstrap; everything
	// else aborts before the listener opens
	if err := shelfstore.Bootstrap(ctx, provisioner, suggestions, logger, metrics); shelfstore.IsFatalDuringBootstrap(err) {
		return err
	}

	api := httpapi.NewServer(books, users, carts, service, searcher, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(metrics.Registry()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}
