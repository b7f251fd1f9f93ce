package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/contact-draft/internal/draft"
	"github.com/ziadkadry99/contact-draft/internal/llm"
)

// expectedDraftTokens approximates a 3-4 sentence reply.
const expectedDraftTokens = 120

var costCmd = &cobra.Command{
	Use:   "cost [idea...]",
	Short: "Estimate the API cost of generating a draft",
	Long:  `Performs a dry run that builds the request for an idea, estimates tokens, and calculates the expected API cost per model without making any calls.`,
	RunE:  runCost,
}

func init() {
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	idea := strings.Join(args, " ")
	if strings.TrimSpace(idea) == "" {
		idea = "Introduce myself and ask for a short call"
	}

	req := draft.BuildRequest(idea, cfg.Recipient)
	inputTokens := llm.EstimateTokens(req.SystemInstruction + req.UserMessage)
	policy := cfg.Retry.Policy()
	attempts := policy.MaxRetries + 1

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Cost Estimate")
	fmt.Fprintln(out, "=============")
	fmt.Fprintf(out, "  Input tokens:     ~%d\n", inputTokens)
	fmt.Fprintf(out, "  Output tokens:    ~%d\n", expectedDraftTokens)
	fmt.Fprintf(out, "  Max attempts:     %d\n", attempts)
	fmt.Fprintf(out, "  Worst-case wait:  %s\n", worstCaseWait(policy.MaxRetries, policy.Delay))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Model Comparison (single attempt / worst case):")
	fmt.Fprintln(out, "  ────────────────────────────────────────")
	for _, model := range llm.KnownModels() {
		single := llm.EstimateCost(model, inputTokens, expectedDraftTokens)
		marker := " "
		if model == cfg.Model {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %-34s $%.6f / $%.6f\n", marker, model, single, single*float64(attempts))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  * = current configuration")

	return nil
}

// worstCaseWait sums the backoff delays before each retry, saturating at
// the largest representable duration.
func worstCaseWait(retries int, delay func(int) time.Duration) time.Duration {
	var total time.Duration
	for k := 1; k <= retries; k++ {
		d := delay(k)
		if d > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += d
	}
	return total
}
