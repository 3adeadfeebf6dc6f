package main

import (
	"fmt"
	"os"

	"github.com/docqa-labs/docqa/internal/cli"
	"github.com/docqa-labs/docqa/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "docqad",
		Short: "Docqa daemon",
		Long:  "Docqa daemon for running the document question answering API server",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
