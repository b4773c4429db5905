package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the resume similarity index from stored resume logs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		batchSize, _ := cmd.Flags().GetInt("batch-size")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctx := cmd.Context()
		gemini, err := e.gemini(ctx)
		if err != nil {
			return err
		}
		index, err := services.NewResumeIndexFromConfig(ctx, e.cfg.Qdrant, gemini, e.log)
		if err != nil {
			return err
		}
		if index == nil {
			return errors.New("QDRANT_URL is not set")
		}

		var indexed, failed int
		err = e.resume.FindInBatches(batchSize, func(logs []models.ResumeLog) error {
			for i := range logs {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := index.Index(ctx, &logs[i]); err != nil {
					failed++
					e.log.Warn("failed to index resume", zap.String("resume_log_id", logs[i].ID.String()), zap.Error(err))
					continue
				}
				indexed++
			}
			return nil
		})
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %d resumes, %d failed\n", indexed, failed)
		return nil
	},
}

func init() {
	reindexCmd.Flags().Int("batch-size", 100, "resume logs loaded per batch")
	rootCmd.AddCommand(reindexCmd)
}
