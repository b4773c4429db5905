package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-screener/internal/browse"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/repositories"
)

const (
	browseSearch = "Search by candidate name"
	browseNext   = "Next page"
	browsePrev   = "Previous page"
	browseGoto   = "Go to page"
	browseQuit   = "Quit"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through evaluated resumes, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		ctrl := browse.NewController(cmd.Context(), repositoryFetcher(e.resume), e.log, browse.Options{
			PageSize: e.cfg.Browse.PageSize,
			Debounce: e.cfg.Browse.Debounce,
		})
		defer ctrl.Close()

		ctrl.Refresh()
		ctrl.Wait()

		for {
			renderPage(os.Stdout, ctrl.State())

			sel := promptui.Select{
				Label: "Browse",
				Items: []string{browseSearch, browseNext, browsePrev, browseGoto, browseQuit},
			}
			_, choice, err := sel.Run()
			if err != nil {
				return nil
			}

			switch choice {
			case browseSearch:
				// every keystroke feeds the debounced search
				p := promptui.Prompt{
					Label:     "Candidate name",
					Default:   ctrl.Target().SearchTerm,
					AllowEdit: true,
					Validate: func(s string) error {
						ctrl.SetSearchTerm(s)
						return nil
					},
				}
				if term, err := p.Run(); err == nil {
					ctrl.SetSearchTerm(term)
				}
			case browseNext:
				ctrl.NextPage()
			case browsePrev:
				ctrl.PrevPage()
			case browseGoto:
				p := promptui.Prompt{Label: "Page", Validate: validatePage}
				if v, err := p.Run(); err == nil {
					page, _ := strconv.Atoi(strings.TrimSpace(v))
					ctrl.SetPage(page)
				}
			case browseQuit:
				return nil
			}
			ctrl.Wait()
		}
	},
}

func repositoryFetcher(repo repositories.ResumeLogRepository) browse.Fetcher {
	return browse.FetcherFunc(func(_ context.Context, q browse.Query, pageSize int) (browse.Result, error) {
		logs, total, err := repo.Search(q.SearchTerm, q.Page, pageSize)
		if err != nil {
			return browse.Result{}, err
		}
		return browse.Result{Items: logs, Total: total}, nil
	})
}

func renderPage(out io.Writer, state browse.State) {
	fmt.Fprintln(out)
	if state.SearchTerm != "" {
		fmt.Fprintf(out, "Search: %q\n", state.SearchTerm)
	}

	if len(state.Items) == 0 {
		fmt.Fprintln(out, "No resumes found.")
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CREATED\tCANDIDATE\tJOB\tSCORE\tBAND\tQUALIFIED\tREASONING")
		for _, log := range state.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%s\t%t\t%s\n",
				log.CreatedAt.Format("2006-01-02 15:04"),
				log.CandidateName,
				log.JobTitle,
				log.Score,
				log.ScoreBand(),
				log.Qualified,
				logger.TruncateForLog(log.Reasoning, 60),
			)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "%d resumes  %s\n", state.Total, pager(state.Page, state.TotalPages))
}

func pager(current, totalPages int) string {
	var parts []string
	for _, item := range browse.PageItems(current, totalPages) {
		switch {
		case item.Ellipsis:
			parts = append(parts, "...")
		case item.Page == current:
			parts = append(parts, fmt.Sprintf("[%d]", item.Page))
		default:
			parts = append(parts, strconv.Itoa(item.Page))
		}
	}
	return strings.Join(parts, " ")
}

func validatePage(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return errors.New("enter a page number")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
