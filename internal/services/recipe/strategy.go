package recipe

// Strategy is how a recipe request is answered.
type Strategy int

const (
	// StrategyPlain asks the chat model directly.
	StrategyPlain Strategy = iota
	// StrategyTools lets the model look up ingredients available at home.
	StrategyTools
	// StrategyRetrieval grounds the answer in ingested recipe documents.
	StrategyRetrieval
	// StrategyToolsAndRetrieval combines both.
	StrategyToolsAndRetrieval
)

// SelectStrategy maps the two user preferences to a strategy.
func SelectStrategy(preferAvailableIngredients, preferOwnRecipes bool) Strategy {
	switch {
	case preferAvailableIngredients && preferOwnRecipes:
		return StrategyToolsAndRetrieval
	case preferOwnRecipes:
		return StrategyRetrieval
	case preferAvailableIngredients:
		return StrategyTools
	default:
		return StrategyPlain
	}
}

func (s Strategy) String() string {
	switch s {
	case StrategyPlain:
		return "plain"
	case StrategyTools:
		return "tools"
	case StrategyRetrieval:
		return "retrieval"
	case StrategyToolsAndRetrieval:
		return "tools_retrieval"
	default:
		return "unknown"
	}
}

// UsesTools reports whether the pantry tool is offered to the model.
func (s Strategy) UsesTools() bool {
	return s == StrategyTools || s == StrategyToolsAndRetrieval
}

// UsesRetrieval reports whether retrieved content grounds the answer.
func (s Strategy) UsesRetrieval() bool {
	return s == StrategyRetrieval || s == StrategyToolsAndRetrieval
}
