// Package cli implements the recipes command line tool used to manage the
// document store behind own-recipe requests.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/socialchef/recipe-finder/internal/config"
	"github.com/socialchef/recipe-finder/internal/logger"
)

type RootCommand struct {
	cmd *cobra.Command
	cfg *config.Config
	out io.Writer
}

func NewRootCommand() *RootCommand {
	root := &RootCommand{out: os.Stdout}

	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe finder document store",
		Long: `recipes ingests recipe documents into the embedding store, searches
it, and mints tokens for the document upload API.

Configuration is read from the environment and config.yaml, the same way
the server and worker read it.`,
		SilenceUsage:      true,
		PersistentPreRunE: root.persistentPreRunE,
	}

	root.cmd = cmd
	cmd.AddCommand(NewIngestCommand(root))
	cmd.AddCommand(NewSearchCommand(root))
	cmd.AddCommand(NewTokenCommand(root))

	return root
}

func (r *RootCommand) persistentPreRunE(cmd *cobra.Command, args []string) error {
	if r.cfg != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	r.cfg = cfg
	return nil
}

func (r *RootCommand) Config() *config.Config {
	return r.cfg
}

func (r *RootCommand) SetOutputWriter(w io.Writer) {
	r.out = w
	r.cmd.SetOut(w)
}

func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

func Execute() {
	ctx := context.Background()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logger.New(os.Getenv("ENV")).Error("Command failed", "error", err)
		os.Exit(1)
	}
}
