package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/scoring"
	"alfredoptarigan/resume-screener/internal/services"
)

const (
	actionTitle     = "Set title"
	actionTemplate  = "Load prompt template from file"
	actionDefault   = "Use default prompt template"
	actionThreshold = "Set qualification threshold"
	actionAutoMove  = "Toggle auto-move qualified"
	actionAddTerm   = "Add weight term"
	actionEditTerm  = "Edit weight term"
	actionRemove    = "Remove weight term"
	actionSave      = "Save"
	actionCancel    = "Cancel"
)

var errEditCancelled = errors.New("edit cancelled")

// jobEditor is one editing session. It is discarded on cancel and kept intact
// when a save fails so the operator can correct it and retry.
type jobEditor struct {
	title     string
	template  string
	threshold int
	autoMove  bool
	weights   *scoring.WeightSet
}

func newJobEditor() *jobEditor {
	ws := scoring.NewWeightSet()
	ws.AddTerm()
	return &jobEditor{
		threshold: scoring.DefaultQualificationThreshold,
		weights:   ws,
	}
}

func editorFromJob(job *models.JobConfig) (*jobEditor, error) {
	weights, err := job.WeightMap()
	if err != nil {
		return nil, err
	}
	return &jobEditor{
		title:     job.JobTitle,
		template:  job.PromptTemplate,
		threshold: job.QualificationThreshold,
		autoMove:  job.AutoMoveQualified,
		weights:   scoring.WeightSetFromMap(weights),
	}, nil
}

func (e *jobEditor) input() services.JobConfigInput {
	return services.JobConfigInput{
		JobTitle:               e.title,
		PromptTemplate:         e.template,
		Weights:                e.weights,
		QualificationThreshold: e.threshold,
		AutoMoveQualified:      e.autoMove,
	}
}

type saveFunc func(services.JobConfigInput) (*models.JobConfig, error)

// trySave hands the session to save. On failure it returns the message to show
// and leaves the session as it was.
func (e *jobEditor) trySave(save saveFunc) (*models.JobConfig, string) {
	job, err := save(e.input())
	if err == nil {
		return job, ""
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return nil, fmt.Sprintf("Cannot save, %s: %s", verr.Field, verr.Message)
	}
	return nil, fmt.Sprintf("Save failed, your changes are kept: %v", err)
}

func (e *jobEditor) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:      %s\n", e.title)
	template := "default"
	if strings.TrimSpace(e.template) != "" {
		template = fmt.Sprintf("custom (%d chars)", len(e.template))
	}
	fmt.Fprintf(&b, "Template:   %s\n", template)
	fmt.Fprintf(&b, "Threshold:  %d\n", e.threshold)
	fmt.Fprintf(&b, "Auto-move:  %t\n", e.autoMove)
	b.WriteString("Weights:\n")
	for i, row := range e.weights.Rows() {
		term := row.Term
		if strings.TrimSpace(term) == "" {
			term = "(blank)"
		}
		fmt.Fprintf(&b, "  %d. %-24s %s\n", i+1, term, formatWeight(row.Value))
	}
	status := "incomplete"
	if e.weights.IsComplete() {
		status = "complete"
	}
	fmt.Fprintf(&b, "Sum: %g / %g (%s)\n", e.weights.Sum(), scoring.RequiredWeightTotal, status)
	return b.String()
}

func formatWeight(v float64) string {
	if math.IsNaN(v) {
		return "not a number"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// runEditor drives the session interactively until it is saved or cancelled.
func runEditor(e *jobEditor, save saveFunc) (*models.JobConfig, error) {
	for {
		fmt.Println()
		fmt.Print(e.summary())

		sel := promptui.Select{
			Label: "Edit job",
			Items: []string{
				actionTitle, actionThreshold, actionAutoMove, actionAddTerm, actionEditTerm,
				actionRemove, actionTemplate, actionDefault, actionSave, actionCancel,
			},
			Size: 10,
		}
		_, choice, err := sel.Run()
		if err != nil {
			return nil, err
		}

		switch choice {
		case actionTitle:
			if v, err := ask("Job title", e.title, nil); err == nil {
				e.title = v
			}
		case actionThreshold:
			if v, err := ask("Qualification threshold (0-100)", strconv.Itoa(e.threshold), validateThreshold); err == nil {
				e.threshold, _ = strconv.Atoi(strings.TrimSpace(v))
			}
		case actionAutoMove:
			e.autoMove = !e.autoMove
		case actionAddTerm:
			e.weights.AddTerm()
			editRow(e.weights, e.weights.Len()-1)
		case actionEditTerm:
			if i, ok := pickRow(e.weights, "Edit which term"); ok {
				editRow(e.weights, i)
			}
		case actionRemove:
			if i, ok := pickRow(e.weights, "Remove which term"); ok {
				e.weights.RemoveTerm(i)
			}
		case actionTemplate:
			if path, err := ask("Template file", "", nil); err == nil {
				data, err := os.ReadFile(strings.TrimSpace(path))
				if err != nil {
					fmt.Printf("Cannot read template: %v\n", err)
					continue
				}
				e.template = string(data)
			}
		case actionDefault:
			e.template = ""
		case actionSave:
			job, msg := e.trySave(save)
			if job != nil {
				return job, nil
			}
			fmt.Println(msg)
		case actionCancel:
			return nil, errEditCancelled
		}
	}
}

func editRow(ws *scoring.WeightSet, index int) {
	row := ws.Rows()[index]
	if term, err := ask("Term", row.Term, nil); err == nil {
		ws.SetTerm(index, term)
	}
	current := ""
	if !math.IsNaN(row.Value) {
		current = formatWeight(row.Value)
	}
	if value, err := ask("Weight", current, nil); err == nil {
		ws.SetValue(index, value)
	}
}

func pickRow(ws *scoring.WeightSet, label string) (int, bool) {
	rows := ws.Rows()
	if len(rows) == 0 {
		fmt.Println("No weight terms yet.")
		return 0, false
	}
	items := make([]string, len(rows))
	for i, row := range rows {
		items[i] = fmt.Sprintf("%s = %s", row.Term, formatWeight(row.Value))
	}
	sel := promptui.Select{Label: label, Items: items}
	i, _, err := sel.Run()
	if err != nil {
		return 0, false
	}
	return i, true
}

func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  validate,
	}
	return p.Run()
}

func validateThreshold(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if v < 0 || v > 100 {
		return errors.New("must be between 0 and 100")
	}
	return nil
}
