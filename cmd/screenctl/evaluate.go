package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <job-id> <resume-file>",
	Short: "Score one resume file against a job and store the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		path := args[1]
		if !services.IsSupportedResumeFile(path) {
			return fmt.Errorf("unsupported resume file %s, expected one of %s", path, strings.Join(services.SupportedResumeExtensions, ", "))
		}

		name, _ := cmd.Flags().GetString("name")
		candidateID, _ := cmd.Flags().GetString("candidate-id")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		job, err := e.jobs.Get(jobID)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read resume: %w", err)
		}
		parser := services.NewResumeParserService()
		text, err := parser.ExtractText(path, data)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		gemini, err := e.gemini(ctx)
		if err != nil {
			return err
		}
		index, err := services.NewResumeIndexFromConfig(ctx, e.cfg.Qdrant, gemini, e.log)
		if err != nil {
			return err
		}

		evaluator := services.NewEvaluatorService(
			repositories.NewSubmissionRepository(e.db),
			repositories.NewJobConfigRepository(e.db),
			e.resume,
			gemini,
			parser,
			services.NewLocalStorageService(e.cfg.Storage.UploadPath),
			index,
			services.EvaluatorOptions{
				MaxRetries:  e.cfg.Worker.RetryMaxAttempts,
				Temperature: e.cfg.Gemini.Temperature,
			},
			e.log,
		)

		candidate := services.CandidateInput{Name: name, ResumeText: text}
		if candidateID != "" {
			candidate.ID = &candidateID
		}
		fileName := filepath.Base(path)
		candidate.ResumeFile = &fileName

		log, err := evaluator.Evaluate(ctx, job, candidate)
		if err != nil {
			return err
		}

		fmt.Printf("%s scored %g for %s (%s), qualified: %t\n%s\n",
			log.CandidateName, log.Score, log.JobTitle, log.ScoreBand(), log.Qualified, log.Reasoning)
		return nil
	},
}

func init() {
	evaluateCmd.Flags().StringP("name", "n", "", "candidate name (default: file name)")
	evaluateCmd.Flags().String("candidate-id", "", "external candidate id")
	rootCmd.AddCommand(evaluateCmd)
}
