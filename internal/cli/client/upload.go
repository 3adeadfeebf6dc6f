package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// IngestResult mirrors the ingestion API response.
type IngestResult struct {
	Source          string   `json:"source"`
	ChunksCount     int      `json:"chunks_count"`
	Message         string   `json:"message"`
	SampleQuestions []string `json:"sample_questions"`
}

// UploadCmd creates the upload command.
func UploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a text document",
		Long:  "Uploads a .txt document to the server and indexes its contents for question answering.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpload(cmd, args[0], outputJSON)
		},
	}
}

func runUpload(cmd *cobra.Command, filePath string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadFile("/upload", filePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	return printIngestResult(resp, outputJSON)
}

// ProcessURLCmd creates the process-url command.
func ProcessURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-url <url>",
		Short: "Index a web page",
		Long:  "Fetches a web page, strips its markup, and indexes the text for question answering.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runProcessURL(cmd, args[0], outputJSON)
		},
	}
}

func runProcessURL(cmd *cobra.Command, url string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/process-url", map[string]string{"url": url})
	if err != nil {
		return fmt.Errorf("process-url failed: %w", err)
	}

	return printIngestResult(resp, outputJSON)
}

func printIngestResult(resp *APIResponse, outputJSON bool) error {
	var result IngestResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%s (%d chunks from %s)\n", result.Message, result.ChunksCount, result.Source)
	if len(result.SampleQuestions) > 0 {
		fmt.Println("\nTry asking:")
		for _, q := range result.SampleQuestions {
			fmt.Printf("  - %s\n", q)
		}
	}
	return nil
}
