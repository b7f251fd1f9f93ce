package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// wizardModels are offered by the model selection prompt.
var wizardModels = []string{
	DefaultModel,
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.5-pro",
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to contactdraft! Let's configure your drafting assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Model selection.
	modelPrompt := promptui.Select{
		Label: "Select Gemini model",
		Items: wizardModels,
	}
	_, model, err := modelPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("model selection: %w", err)
	}
	cfg.Model = model

	// 2. Recipient.
	recipientPrompt := promptui.Prompt{
		Label:   "Who are the drafted messages addressed to",
		Default: cfg.Recipient,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("recipient cannot be empty")
			}
			return nil
		},
	}
	recipient, err := recipientPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	cfg.Recipient = strings.TrimSpace(recipient)

	// 3. Retry budget.
	retryPrompt := promptui.Prompt{
		Label:    "Retries on server or network errors",
		Default:  strconv.Itoa(cfg.Retry.MaxRetries),
		Validate: validateNonNegativeInt,
	}
	retries, err := retryPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("retries: %w", err)
	}
	cfg.Retry.MaxRetries, _ = strconv.Atoi(strings.TrimSpace(retries))

	// 4. Plain text enforcement.
	plainPrompt := promptui.Select{
		Label: "Strip Markdown from generated drafts",
		Items: []string{"no", "yes"},
	}
	plainIdx, _, err := plainPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("plain text selection: %w", err)
	}
	cfg.PlainText = plainIdx == 1

	// Check for API key.
	if _, err := APIKey(); err != nil {
		fmt.Printf("\nNote: Set %s in your environment or a .env file before running contactdraft draft.\n", APIKeyEnvVars[0])
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must be zero or more")
	}
	return nil
}
