package recipe

import (
	"context"
	"encoding/json"
	"log/slog"
)

const pantryToolName = "fetchIngredientsAvailableAtHome"

// PantryTool reports the configured ingredients available at home.
type PantryTool struct {
	ingredients []string
	logger      *slog.Logger
}

func NewPantryTool(ingredients []string, logger *slog.Logger) *PantryTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &PantryTool{
		ingredients: append([]string(nil), ingredients...),
		logger:      logger,
	}
}

func (p *PantryTool) Name() string {
	return pantryToolName
}

func (p *PantryTool) Description() string {
	return "Fetches ingredients that are available at home"
}

// FetchIngredientsAvailableAtHome returns a copy of the configured list.
func (p *PantryTool) FetchIngredientsAvailableAtHome(ctx context.Context) []string {
	p.logger.InfoContext(ctx, "Fetching ingredients available at home function called by LLM",
		"count", len(p.ingredients))
	return append(make([]string, 0, len(p.ingredients)), p.ingredients...)
}

func (p *PantryTool) Call(ctx context.Context, _ string) (string, error) {
	data, err := json.Marshal(p.FetchIngredientsAvailableAtHome(ctx))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
