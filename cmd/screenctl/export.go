package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/services"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write evaluated resumes to an xlsx file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		search, _ := cmd.Flags().GetString("search")
		out, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")
		if !strings.HasSuffix(strings.ToLower(out), ".xlsx") {
			out += ".xlsx"
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		logs, err := e.resume.FindMatching(search, limit)
		if err != nil {
			return err
		}

		data, err := services.ExportResumeLogs(logs, search)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}

		fmt.Printf("Exported %d resumes to %s\n", len(logs), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("search", "s", "", "candidate name filter")
	exportCmd.Flags().StringP("out", "o", "resumes.xlsx", "output file")
	exportCmd.Flags().Int("limit", 5000, "maximum rows, 0 for all")
	rootCmd.AddCommand(exportCmd)
}
