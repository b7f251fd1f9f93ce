package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/contact-draft/internal/draft"
	"github.com/ziadkadry99/contact-draft/internal/progress"
)

var draftRecipient string

var draftCmd = &cobra.Command{
	Use:   "draft [idea...]",
	Short: "Generate a message draft from a brief idea",
	Long: `Generates a short, polite message draft for the configured recipient.
The idea is taken from the arguments, or asked for interactively when none
are given. The draft is written to stdout; progress and errors go to stderr.`,
	RunE: runDraft,
}

func init() {
	draftCmd.Flags().StringVar(&draftRecipient, "to", "", "recipient full name (overrides config)")
	rootCmd.AddCommand(draftCmd)
}

// promptInput asks for the idea on the terminal.
type promptInput struct{}

func (promptInput) Idea() string {
	prompt := promptui.Prompt{Label: "What is the message about"}
	idea, err := prompt.Run()
	if err != nil {
		return ""
	}
	return idea
}

func runDraft(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	factory, err := newFactory(cfg, logger)
	if err != nil {
		return err
	}

	var input draft.InputSource = promptInput{}
	if len(args) > 0 {
		input = draft.StaticInput(strings.Join(args, " "))
	}

	stderr := cmd.ErrOrStderr()
	capture := &draft.Capture{}
	ui := draft.UI{
		Input:  input,
		Output: capture,
		Busy:   progress.NewIndicator(stderr),
		Notifier: draft.NotifierFunc(func(message string) {
			fmt.Fprintln(stderr, message)
		}),
	}

	var opts []draft.Option
	if draftRecipient != "" {
		opts = append(opts, draft.WithRecipient(draftRecipient))
	}

	orch, err := factory.New(ui, opts...)
	if err != nil {
		return fmt.Errorf("creating orchestrator: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := orch.GenerateFromInput(ctx); err != nil {
		// The notifier has already explained the failure.
		cmd.SilenceErrors = true
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), capture.Output)
	return nil
}
