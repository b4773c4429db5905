package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Create, edit, list and delete screening jobs",
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs ordered by title",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		jobs, err := e.jobs.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tTHRESHOLD\tAUTO-MOVE\tWEIGHTS")
		for _, job := range jobs {
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\n", job.ID, job.JobTitle, job.QualificationThreshold, job.AutoMoveQualified, string(job.Weights))
		}
		return w.Flush()
	},
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job in an interactive editor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		job, err := runEditor(newJobEditor(), e.jobs.Create)
		return reportSaved(e, job, err)
	},
}

var jobEditCmd = &cobra.Command{
	Use:   "edit <job-id>",
	Short: "Edit a job; saving replaces every field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		current, err := e.jobs.Get(id)
		if err != nil {
			return err
		}
		editor, err := editorFromJob(current)
		if err != nil {
			return err
		}

		job, err := runEditor(editor, func(input services.JobConfigInput) (*models.JobConfig, error) {
			return e.jobs.Update(id, input)
		})
		return reportSaved(e, job, err)
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job; existing resume logs are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		job, err := e.jobs.Get(id)
		if err != nil {
			return err
		}

		confirmed := yes
		if !confirmed {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete %q? This cannot be undone", job.JobTitle),
				IsConfirm: true,
			}
			_, err := confirm.Run()
			confirmed = err == nil
		}

		if err := e.jobs.Delete(id, confirmed); err != nil {
			if errors.Is(err, services.ErrDeleteNotConfirmed) {
				fmt.Println("Not deleted.")
				return nil
			}
			return err
		}

		e.log.Info("job deleted", zap.String("id", id.String()), zap.String("job_title", job.JobTitle))
		return nil
	},
}

func reportSaved(e *env, job *models.JobConfig, err error) error {
	if errors.Is(err, errEditCancelled) || errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("Discarded.")
		return nil
	}
	if err != nil {
		return err
	}
	e.log.Info("job saved", zap.String("id", job.ID.String()), zap.String("job_title", job.JobTitle))
	return nil
}

func init() {
	jobDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	jobCmd.AddCommand(jobListCmd, jobCreateCmd, jobEditCmd, jobDeleteCmd)
	rootCmd.AddCommand(jobCmd)
}
