package main

import (
	"fmt"
	"os"

	"github.com/docqa-labs/docqa/internal/cli"
	"github.com/docqa-labs/docqa/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "docqa",
		Short: "Docqa CLI - Ask questions about your documents",
		Long: `Docqa CLI uploads documents and web pages to a docqa server and asks
questions about their contents.

Environment variables:
  DOCQA_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.UploadCmd())
	rootCmd.AddCommand(client.ProcessURLCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.RemainingCmd())
	rootCmd.AddCommand(client.QuestionsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
