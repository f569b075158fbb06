package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	httpAdapter "github.com/deskhand-io/deskhand/internal/adapters/http"
	"github.com/deskhand-io/deskhand/internal/adapters/memory"
	redisAdapter "github.com/deskhand-io/deskhand/internal/adapters/redis"
	"github.com/deskhand-io/deskhand/internal/adapters/sqlite"
	"github.com/deskhand-io/deskhand/internal/classify"
	"github.com/deskhand-io/deskhand/internal/config"
	"github.com/deskhand-io/deskhand/internal/engine"
	"github.com/deskhand-io/deskhand/internal/logging"
	"github.com/deskhand-io/deskhand/internal/metrics"
	"github.com/deskhand-io/deskhand/internal/service"
	"github.com/deskhand-io/deskhand/internal/session"
	"github.com/deskhand-io/deskhand/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the deskhand conversation service, exposing the REST API, the SSE
event stream, Prometheus metrics, and the OpenAPI documentation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		logger := logging.New(logging.ParseLevel(cfg.LogLevel))

		tickets, err := sqlite.NewTicketStore(cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		defer tickets.Shutdown()

		streams := httpAdapter.NewStreamManager(logger)
		broadcaster := ports.Broadcaster(streams)

		var conversations ports.ConversationStore
		sessions := session.NewManager(session.WithLogger(logger))

		if cfg.Redis.Addr != "" {
			client := backend.NewClient(&backend.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()

			conversations = redisAdapter.NewConversationStore(client,
				redisAdapter.WithTTL(cfg.Redis.TTL.Std()))
			sessions = session.NewManager(
				session.WithLogger(logger),
				session.WithLocker(redisAdapter.NewLocker(client, "deskhand:")),
			)
			broadcaster = ports.MultiBroadcaster{
				streams,
				redisAdapter.NewBroadcaster(client, logger),
			}
			logger.Info("using redis persistence", "addr", cfg.Redis.Addr)
		} else {
			conversations = memory.NewConversationStore()
			logger.Info("using in-memory conversation store")
		}

		m := metrics.New(nil)
		eng := engine.New(
			engine.WithClassifier(classify.New(cfg.Classifier)),
			engine.WithLogger(logger),
		)
		svc := service.New(eng, conversations, tickets,
			service.WithBroadcaster(broadcaster),
			service.WithSessionManager(sessions),
			service.WithLifecycleHooks(m.Hooks()),
			service.WithLogger(logger),
		)

		handler, err := httpAdapter.NewHandler(svc, streams, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr(),
			Handler: handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("deskhand server listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			logger.Info("deskhand server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
