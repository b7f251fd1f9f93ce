package llm

import "sort"

// modelPricing holds per-model pricing in USD per 1M tokens.
type modelPricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
}

// priceTable maps Gemini model identifiers to their pricing.
var priceTable = map[string]modelPricing{
	"gemini-2.5-flash-preview-09-2025": {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-flash":                 {InputPerMillion: 0.30, OutputPerMillion: 2.50},
	"gemini-2.5-flash-lite":            {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-2.5-pro":                   {InputPerMillion: 1.25, OutputPerMillion: 10.00},
	"gemini-2.0-flash":                 {InputPerMillion: 0.10, OutputPerMillion: 0.40},
	"gemini-1.5-pro":                   {InputPerMillion: 1.25, OutputPerMillion: 5.00},
}

// EstimateCost returns the estimated cost in USD for the given model and token counts.
// Returns 0 if the model is not found in the price table.
func EstimateCost(model string, inputTokens, outputTokens int) float64 {
	pricing, ok := priceTable[model]
	if !ok {
		return 0
	}
	inputCost := float64(inputTokens) / 1_000_000.0 * pricing.InputPerMillion
	outputCost := float64(outputTokens) / 1_000_000.0 * pricing.OutputPerMillion
	return inputCost + outputCost
}

// EstimateTokens provides a rough token count estimation for the given text.
// Uses the approximation of 1 token per 4 characters.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		return 1
	}
	return n
}

// KnownModels returns the priced model identifiers in alphabetical order.
func KnownModels() []string {
	models := make([]string, 0, len(priceTable))
	for m := range priceTable {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
