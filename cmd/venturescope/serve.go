package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/venturescope/venturescope"
	"github.com/venturescope/venturescope/config"
	"github.com/venturescope/venturescope/logging"
	"github.com/venturescope/venturescope/server"
	"github.com/venturescope/venturescope/session"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the research server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

			vs := venturescope.New(func(o *venturescope.Options) {
				o.Provider = cfg.Provider
				o.Model = cfg.Model
				o.SerperAPIKey = cfg.SerperAPIKey
				o.ToolTimeout = cfg.ToolTimeout
				o.MaxConcurrentTools = cfg.MaxConcurrentTools
				o.StepBudget = cfg.StepBudget
				o.DetailedStepBudget = cfg.DetailedStepBudget
				o.Logger = logger
			})

			sessions := session.NewManager(vs.Researcher(), func(o *session.Options) {
				o.APIKeys = cfg.APIKeys
				o.Logger = logger
			})
			srv := server.New(sessions, vs.Data(), func(o *server.Options) {
				o.APIKeys = cfg.APIKeys
				o.Logger = logger
			})

			httpSrv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.Addr, "provider", cfg.Provider)
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
}
