package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/historian/historian"
	"github.com/tailored-agentic-units/historian/store"
)

func newChatCmd() *cobra.Command {
	var (
		sessionID     string
		systemPrompt  string
		completionURL string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat shell against a local manager",
		Long: `Chat reads lines from stdin and submits each as a user message.
Commands: /clear resets the session, /quit exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
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

			if _, err := m.CreateOrGet(ctx, sessionID, systemPrompt); err != nil {
				return err
			}

			completer := newCompleter(completionURL)
			scanner := bufio.NewScanner(os.Stdin)

			fmt.Print("> ")
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				switch {
				case line == "/quit":
					return nil
				case line == "/clear":
					if err := m.Clear(ctx, sessionID); err != nil {
						return err
					}
					if _, err := m.CreateOrGet(ctx, sessionID, systemPrompt); err != nil {
						return err
					}
					fmt.Println("session cleared")
				case line != "":
					reply, err := m.Submit(ctx, sessionID, line, completer)
					switch {
					case errors.Is(err, historian.ErrEmptyInput):
						// Skip silently, same as a blank line.
					case err != nil:
						fmt.Fprintf(os.Stderr, "error: %v\n", err)
					default:
						fmt.Println(reply)
					}
				}
				fmt.Print("> ")
			}
			return scanner.Err()
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "local", "Session identifier")
	cmd.Flags().StringVar(&systemPrompt, "system", "", "System prompt pinned on session creation")
	cmd.Flags().StringVar(&completionURL, "completion-url", "",
		"Base URL of a remote completion service; empty uses the loopback echo completer")
	return cmd
}
