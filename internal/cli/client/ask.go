package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// AskResult mirrors the ask API response.
type AskResult struct {
	Answer            string   `json:"answer"`
	SourceChunks      []string `json:"source_chunks"`
	RemainingRequests int      `json:"remaining_requests"`
}

// RemainingResult mirrors the remaining-requests API response.
type RemainingResult struct {
	RemainingRequests int `json:"remaining_requests"`
}

// QuestionsResult mirrors the questions API response.
type QuestionsResult struct {
	Source    string   `json:"source"`
	Questions []string `json:"questions"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about indexed documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(cmd, args[0], showSources, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show source excerpts used for the answer")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, showSources, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/ask", map[string]string{"question": question})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var result AskResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(result.Answer)
	if showSources && len(result.SourceChunks) > 0 {
		fmt.Println("\nSources:")
		for i, excerpt := range result.SourceChunks {
			fmt.Printf("  %d. %s\n", i+1, excerpt)
		}
	}
	fmt.Printf("\nRemaining questions: %d\n", result.RemainingRequests)
	return nil
}

// RemainingCmd creates the remaining command.
func RemainingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remaining",
		Short: "Show how many questions you may still ask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runRemaining(cmd, outputJSON)
		},
	}
}

func runRemaining(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/remaining-requests")
	if err != nil {
		return fmt.Errorf("remaining failed: %w", err)
	}

	var result RemainingResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Remaining questions: %d\n", result.RemainingRequests)
	return nil
}

// QuestionsCmd creates the questions command.
func QuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <source>",
		Short: "Show suggested questions for an indexed document",
		Long:  "Shows follow-up questions generated in the background for a previously indexed document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runQuestions(cmd, args[0], outputJSON)
		},
	}
}

func runQuestions(cmd *cobra.Command, source string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/questions?source=" + url.QueryEscape(source))
	if err != nil {
		return fmt.Errorf("questions failed: %w", err)
	}

	var result QuestionsResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Suggested questions for %s:\n", result.Source)
	for _, q := range result.Questions {
		fmt.Printf("  - %s\n", q)
	}
	return nil
}
