package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/doctor"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/ui"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that probing works",
	Long: `Check the config, the ping command or SSH vantage host, and whether the
target answers one probe. Exits with status 1 when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Doctor(cmd.Context(), DoctorOptions{
			Flags: globalFlags,
			JSON:  doctorJSON,
			Out:   cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
}

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Flags GlobalFlags
	JSON  bool
	Out   io.Writer

	// Executor overrides the probe executor picked from the config.
	Executor probe.Executor
}

// DoctorOutput represents the JSON output for the doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// Doctor runs the diagnostics and prints a report. Unlike the other
// commands, a bad config is reported rather than returned.
func Doctor(ctx context.Context, opts DoctorOptions) error {
	cfg, _, loadErr := config.LoadOrDefault(opts.Flags.Config)
	if cfg != nil {
		opts.Flags.Apply(cfg)
	}

	var prober *probe.Prober
	if loadErr == nil && config.Validate(cfg) == nil {
		sess, err := newSession(cfg, logger.Noop(), opts.Executor)
		if err == nil {
			defer sess.Close()
			prober = sess.prober
		}
	}

	checks := doctor.NewChecks(doctor.Options{
		ConfigPath: opts.Flags.Config,
		Config:     cfg,
		LoadErr:    loadErr,
		Prober:     prober,
	})
	results := doctor.RunAll(ctx, checks)

	var err error
	if opts.JSON {
		err = writeDoctorJSON(opts.Out, checks, results)
	} else {
		writeDoctorText(opts.Out, checks, results)
	}
	if err != nil {
		return err
	}

	if doctor.HasFailures(results) {
		return &exitError{code: 1}
	}
	return nil
}

// groupResults splits results by category, keeping first-seen order.
func groupResults(checks []doctor.Check, results []doctor.CheckResult) []CategoryOutput {
	var groups []CategoryOutput
	index := make(map[string]int)
	for i, check := range checks {
		cat := check.Category()
		idx, ok := index[cat]
		if !ok {
			idx = len(groups)
			index[cat] = idx
			groups = append(groups, CategoryOutput{Name: cat})
		}
		groups[idx].Results = append(groups[idx].Results, results[i])
	}
	return groups
}

func writeDoctorJSON(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	output := DoctorOutput{
		Categories: groupResults(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: !doctor.HasIssues(results),
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func writeDoctorText(w io.Writer, checks []doctor.Check, results []doctor.CheckResult) {
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("pingstrip diagnostic report"))
	fmt.Fprintln(w)

	for _, group := range groupResults(checks, results) {
		fmt.Fprintln(w, headerStyle.Render(group.Name))
		for _, r := range group.Results {
			writeCheckResult(w, r)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	symbol := ui.SuccessStyle().Render(ui.SymbolSuccess)
	if doctor.HasIssues(results) {
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Fprintf(w, "%s %s\n", symbol, doctor.Summary(results))
}

func writeCheckResult(w io.Writer, r doctor.CheckResult) {
	var symbol string
	switch r.Status {
	case doctor.StatusPass:
		symbol = ui.SuccessStyle().Render(ui.SymbolSuccess)
	case doctor.StatusWarn:
		symbol = ui.WarningStyle().Render(ui.SymbolWarning)
	default:
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}

	// Structured errors carry their own layout; keep the first line.
	message, _, _ := strings.Cut(r.Message, "\n")
	fmt.Fprintf(w, "  %s %s\n", symbol, message)
	if r.Suggestion != "" && r.Status != doctor.StatusPass {
		fmt.Fprintf(w, "    %s\n", ui.MutedStyle().Render(r.Suggestion))
	}
}
