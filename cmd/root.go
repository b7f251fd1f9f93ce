package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/contact-draft/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "contactdraft",
	Short: "AI-assisted drafting of short outreach messages",
	Long: `contactdraft turns a brief idea into a polite, ready-to-send message
addressed to your configured contact. Drafts are generated with Gemini;
transient network and server failures are retried with exponential backoff.
It can run once from the terminal, as an HTTP/WebSocket server, or as an
MCP server for AI agents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
