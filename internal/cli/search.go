package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/socialchef/recipe-finder/internal/app"
	"github.com/socialchef/recipe-finder/internal/logger"
)

func NewSearchCommand(root *RootCommand) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "search QUERY",
		Short:   "Show the stored chunks most relevant to a query",
		Example: `  recipes search "eggs, flour, buttermilk" --limit 5`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), root, strings.Join(args, " "), limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of chunks (default: rag.max_results)")

	return cmd
}

func runSearch(ctx context.Context, root *RootCommand, query string, limit int) error {
	cfg := root.Config()
	if limit > 0 {
		cfg.RAG.MaxResults = limit
	}

	comps, closeRAG, err := app.NewRAG(ctx, cfg, logger.Discard())
	if err != nil {
		return err
	}
	defer closeRAG()
	if comps == nil {
		return fmt.Errorf("no embedding store configured")
	}

	contents, err := comps.Retriever.Retrieve(ctx, query)
	if err != nil {
		return err
	}
	if len(contents) == 0 {
		fmt.Fprintln(root.out, "no matching chunks")
		return nil
	}
	for i, c := range contents {
		fmt.Fprintf(root.out, "%d. [%.3f] %s\n%s\n\n", i+1, c.Score, c.Source, c.Text)
	}
	return nil
}
