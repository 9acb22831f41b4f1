package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"example.com/topform/internal/api"
	"example.com/topform/internal/auth"
	"example.com/topform/internal/catalog"
	"example.com/topform/internal/config"
	"example.com/topform/internal/domain"
	"example.com/topform/internal/generator"
	"example.com/topform/internal/outbox"
	"example.com/topform/internal/persistence/memory"
	"example.com/topform/internal/persistence/postgres"
	httptransport "example.com/topform/internal/transport/http"
	"example.com/topform/internal/workoutlog"
)

func main() {
	logger := componentLogger("topform")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		store      domain.Store
		dispatcher *outbox.Dispatcher
	)
	if cfg.UsesPostgres() {
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, cfg.PostgresURL, logger); err != nil {
				logger.Fatalf("migrate: %v", err)
			}
		}

		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		store = postgres.NewRepository(pool)

		if len(cfg.KafkaBrokers) > 0 {
			producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
			defer producer.Close()
			dispatcher = outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize,
				outbox.WithLogger(componentLogger("outbox")))
			go dispatcher.Start(ctx)
		} else {
			logger.Printf("KAFKA_BROKERS not set; outbox events stay undelivered")
		}
	} else {
		logger.Printf("POSTGRES_URL not set; using in-memory store")
		store = memory.NewStore()
	}

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL}

	parser := workoutlog.NewParser(catalog.Default(), workoutlog.WithLogger(componentLogger("workoutlog")))
	service := domain.NewService(store, parser,
		domain.WithTokenIssuer(auth.NewIssuer(authCfg)),
		domain.WithLogger(componentLogger("domain")),
	)

	handlerOpts := []api.Option{api.WithLogger(componentLogger("api"))}
	if cfg.GeneratorURL != "" {
		handlerOpts = append(handlerOpts, api.WithGenerator(
			generator.NewClient(cfg.GeneratorURL, cfg.GeneratorTimeout, componentLogger("generator"))))
	}
	handler := api.NewHandler(service, handlerOpts...)

	router := mux.NewRouter()
	router.Use(httptransport.RequestID, httptransport.Instrument(logger))
	handler.RegisterRoutes(router, auth.NewMiddleware(authCfg, nil).Wrap)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", httptransport.RequestIDHeader},
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		MaxBodyBytes: cfg.HTTPMaxBodyBytes,
	}, corsHandler.Handler(router))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Printf("api listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}

	if dispatcher != nil {
		dispatcher.Wait()
	}
}

// componentLogger writes to stdout with the component name as prefix.
func componentLogger(component string) *log.Logger {
	return newComponentLogger(os.Stdout, component)
}

func newComponentLogger(w io.Writer, component string) *log.Logger {
	return log.New(w, "["+component+"] ", log.LstdFlags|log.Lmsgprefix)
}
