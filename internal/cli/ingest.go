package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/socialchef/recipe-finder/internal/app"
	"github.com/socialchef/recipe-finder/internal/logger"
	"github.com/socialchef/recipe-finder/internal/services/rag"
)

func NewIngestCommand(root *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest PATH...",
		Short: "Ingest recipe documents into the embedding store",
		Long: `Split PDF, text and markdown files into chunks, embed them and store
them in the pgvector store. Directories are walked non-recursively and
unsupported files are skipped.`,
		Example: `  # Ingest a single cookbook
  recipes ingest ./docs/grandma.pdf

  # Ingest every supported file in a directory
  recipes ingest ./docs`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), root, args)
		},
	}
	return cmd
}

func runIngest(ctx context.Context, root *RootCommand, paths []string) error {
	cfg := root.Config()
	if cfg.RAG.Store != "pgvector" {
		return fmt.Errorf("ingest needs a persistent store, set RAG_STORE=pgvector (got %q)", cfg.RAG.Store)
	}

	log := logger.New(cfg.Env)
	comps, closeRAG, err := app.NewRAG(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRAG()

	total := 0
	for _, path := range paths {
		n, err := ingestPath(ctx, comps.Ingestor, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(root.out, "%s: %d chunks\n", path, n)
		total += n
	}
	fmt.Fprintf(root.out, "ingested %d chunks into %s\n", total, comps.Store.Name())
	return nil
}

func ingestPath(ctx context.Context, ingestor *rag.Ingestor, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return ingestor.IngestDirectory(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return ingestor.IngestDocument(ctx, info.Name(), data)
}
