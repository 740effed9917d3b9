package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/historian/historian"
	"github.com/tailored-agentic-units/historian/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and administer stored sessions",
	}

	cmd.AddCommand(
		newSessionsListCmd(),
		newSessionsClearCmd(),
		newSessionsExportCmd(),
		newSessionsImportCmd(),
	)
	return cmd
}

// withManager builds a manager from the configured store and hands it to fn,
// closing the store afterwards. Session administration only makes sense
// against a persistent store; the memory driver yields an empty view.
func withManager(fn func(m *historian.Manager) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := historian.New(cfg)
	if err != nil {
		return err
	}
	if s, ok := m.Store().(*store.SQLiteStore); ok {
		defer s.Close()
	}

	return fn(m)
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored session identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *historian.Manager) error {
				ids, err := m.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Println(id)
				}
				return nil
			})
		},
	}
}

func newSessionsClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove a session, including its system message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *historian.Manager) error {
				return m.Clear(cmd.Context(), args[0])
			})
		},
	}
}

func newSessionsExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Write a compressed session snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *historian.Manager) error {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()

				if err := store.Export(cmd.Context(), m.Store(), args[0], f); err != nil {
					return err
				}
				return f.Close()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "session.snap", "Snapshot file to write")
	return cmd
}

func newSessionsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot-file>",
		Short: "Restore a session from a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(m *historian.Manager) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				id, err := store.Import(cmd.Context(), m.Store(), f)
				if err != nil {
					return err
				}
				fmt.Printf("imported session %s\n", id)
				return nil
			})
		},
	}
}
