package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/historian/completion"
	"github.com/tailored-agentic-units/historian/historian"
	"github.com/tailored-agentic-units/historian/store"
	"github.com/tailored-agentic-units/historian/transport"
)

func newServeCmd() *cobra.Command {
	var (
		addr          string
		completionURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the history manager over Connect RPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			observer, shutdownTelemetry, err := buildObserver(ctx)
			if err != nil {
				return err
			}
			defer shutdownTelemetry()

			m, err := historian.New(cfg, historian.WithObserver(observer))
			if err != nil {
				return err
			}
			if s, ok := m.Store().(*store.SQLiteStore); ok {
				defer s.Close()
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           transport.NewHistoryRoutes(m, newCompleter(completionURL)),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("server shutdown failed", "error", err)
				}
			}()

			slog.Info("history service listening",
				"addr", addr,
				"store", cfg.Store.Driver,
				"completion_url", completionURL,
			)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8480", "Listen address")
	cmd.Flags().StringVar(&completionURL, "completion-url", "",
		"Base URL of a remote completion service; empty uses the loopback echo completer")
	return cmd
}

// newCompleter picks the completion collaborator: a remote Connect service
// when a URL is given, the loopback echo otherwise.
func newCompleter(completionURL string) completion.Completer {
	if completionURL != "" {
		return transport.NewCompleterClient(http.DefaultClient, completionURL)
	}
	return completion.Echo{}
}
